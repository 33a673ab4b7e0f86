package wire

import (
	"encoding/binary"
	"math"

	"github.com/viewcell/engine-bridge/errors"
)

// Payload sizes for the two well-known kinds.
const (
	// MatrixSize is a 4x4 matrix: 16 IEEE-754 little-endian float32,
	// row-major, 64 bytes.
	MatrixSize = 64

	// ColorSize is an RGBA color or float vector: 4 IEEE-754
	// little-endian float32, 16 bytes.
	ColorSize = 16
)

// Matrix is a row-major 4x4 float32 matrix.
type Matrix [16]float32

// Identity returns the 4x4 identity matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Color is a float RGBA vector in the 0..1 range by convention; the codec
// itself does not clamp.
type Color [4]float32

// Kind classifies a payload by its byte length. The channel enforces no
// schema, so this is advisory: receivers use it to pick a decoder and
// report anything unknown instead of failing.
type Kind int

const (
	KindUnknown Kind = iota
	KindMatrix
	KindColor
)

func (k Kind) String() string {
	switch k {
	case KindMatrix:
		return "matrix"
	case KindColor:
		return "color"
	default:
		return "unknown"
	}
}

// Classify maps a payload length to its well-known kind.
func Classify(payload []byte) Kind {
	switch len(payload) {
	case MatrixSize:
		return KindMatrix
	case ColorSize:
		return KindColor
	default:
		return KindUnknown
	}
}

// AppendMatrix appends the 64-byte encoding of m to dst.
func AppendMatrix(dst []byte, m Matrix) []byte {
	var buf [4]byte
	for _, f := range m {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
		dst = append(dst, buf[:]...)
	}
	return dst
}

// EncodeMatrix returns the 64-byte encoding of m.
func EncodeMatrix(m Matrix) []byte {
	return AppendMatrix(make([]byte, 0, MatrixSize), m)
}

// DecodeMatrix decodes a 64-byte payload. The transit is bit-exact: no
// arithmetic touches the floats.
func DecodeMatrix(payload []byte) (Matrix, error) {
	var m Matrix
	if len(payload) != MatrixSize {
		return m, errors.BadPayload(errors.PhaseMessage, len(payload))
	}
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
	}
	return m, nil
}

// AppendColor appends the 16-byte encoding of c to dst.
func AppendColor(dst []byte, c Color) []byte {
	var buf [4]byte
	for _, f := range c {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
		dst = append(dst, buf[:]...)
	}
	return dst
}

// EncodeColor returns the 16-byte encoding of c.
func EncodeColor(c Color) []byte {
	return AppendColor(make([]byte, 0, ColorSize), c)
}

// DecodeColor decodes a 16-byte payload bit-exactly.
func DecodeColor(payload []byte) (Color, error) {
	var c Color
	if len(payload) != ColorSize {
		return c, errors.BadPayload(errors.PhaseMessage, len(payload))
	}
	for i := range c {
		c[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
	}
	return c, nil
}
