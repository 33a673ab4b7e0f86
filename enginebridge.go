package enginebridge

// PixelBuffer is a software frame store. Surface targets that keep their
// pixels in process memory implement it; engines that render on the CPU
// write through it, and hosts read it to present or encode frames.
//
// Pix is RGBA, 4 bytes per pixel, row-major, tightly packed. The slice is
// replaced (not resized in place) on reconfiguration, so holders must
// re-fetch it after a resize.
type PixelBuffer interface {
	Bounds() (width, height uint32)
	Pix() []byte
}

// Scaled reports a device scale factor. Surface targets implement it next
// to PixelBuffer so presenters can translate between view-local points and
// physical pixels.
type Scaled interface {
	Scale() float32
}
