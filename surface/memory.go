package surface

import (
	"errors"
	"fmt"
	"sync"
)

// ErrTargetClosed is returned by operations on a closed target.
var ErrTargetClosed = errors.New("surface: target closed")

// Pixels is a host-owned software surface: an RGBA pixel store the memory
// provider adapts into a Target. Hosts that read frames back (to blit into
// a window or encode for streaming) create one and pass it as the
// descriptor reference; passing a nil reference instead lets the provider
// allocate a private store.
//
// Pix returns the live backing slice and is only safe while bridge calls
// are serialized on the caller's thread. Snapshot copies under the internal
// lock and is safe from any goroutine.
type Pixels struct {
	mu         sync.RWMutex
	width      uint32
	height     uint32
	scale      float32
	pix        []byte
	generation uint64
}

// NewPixels creates a pixel store with the given dimensions at scale 1.
func NewPixels(width, height uint32) *Pixels {
	return &Pixels{
		width:  width,
		height: height,
		scale:  1,
		pix:    make([]byte, int(width)*int(height)*4),
	}
}

// Bounds returns the current pixel dimensions.
func (p *Pixels) Bounds() (width, height uint32) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.width, p.height
}

// Scale returns the device scale factor.
func (p *Pixels) Scale() float32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scale
}

// Pix returns the live RGBA backing slice. The slice is replaced on
// reconfiguration; re-fetch it after a resize.
func (p *Pixels) Pix() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pix
}

// Snapshot returns a copy of the current frame with its dimensions.
func (p *Pixels) Snapshot() (pix []byte, width, height uint32) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]byte, len(p.pix))
	copy(out, p.pix)
	return out, p.width, p.height
}

// Generation counts reconfigurations. A resize to identical dimensions
// does not advance it.
func (p *Pixels) Generation() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.generation
}

func (p *Pixels) configure(width, height uint32, scale float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.width == width && p.height == height && p.scale == scale {
		return
	}
	if p.width != width || p.height != height {
		p.pix = make([]byte, int(width)*int(height)*4)
	}
	p.width = width
	p.height = height
	p.scale = scale
	p.generation++
}

func (p *Pixels) present(pix []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(pix) != len(p.pix) {
		return fmt.Errorf("surface: present %d bytes into %dx%d target (want %d)",
			len(pix), p.width, p.height, len(p.pix))
	}
	copy(p.pix, pix)
	return nil
}

// memoryTarget adapts a Pixels store to the Target interface.
type memoryTarget struct {
	px     *Pixels
	mu     sync.Mutex
	closed bool
}

// newMemoryTarget is the factory for the built-in memory provider. It
// accepts a nil reference (private store) or a *Pixels reference
// (host-owned store) and declines everything else.
func newMemoryTarget(desc Descriptor) (Target, error) {
	var px *Pixels
	switch ref := desc.Ref.(type) {
	case nil:
		px = NewPixels(desc.Width, desc.Height)
		px.scale = desc.Scale
	case *Pixels:
		px = ref
		px.configure(desc.Width, desc.Height, desc.Scale)
	default:
		return nil, fmt.Errorf("memory provider got %T: %w", desc.Ref, ErrRefUnsupported)
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("surface: zero-sized target %dx%d", desc.Width, desc.Height)
	}
	return &memoryTarget{px: px}, nil
}

func (t *memoryTarget) Bounds() (width, height uint32) {
	return t.px.Bounds()
}

func (t *memoryTarget) Scale() float32 {
	return t.px.Scale()
}

func (t *memoryTarget) Present(pix []byte) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrTargetClosed
	}
	return t.px.present(pix)
}

func (t *memoryTarget) Reconfigure(width, height uint32, scale float32) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrTargetClosed
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("surface: zero-sized target %dx%d", width, height)
	}
	t.px.configure(width, height, scale)
	return nil
}

func (t *memoryTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}
