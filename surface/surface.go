package surface

// Reference is an opaque host surface reference. The host passes whatever
// names its drawable (a platform layer, a view, a host-owned pixel store);
// providers recognize the concrete types they can adapt and decline the
// rest. A nil Reference asks the provider to allocate its own backing.
type Reference any

// Descriptor describes the drawable a host hands to the bridge: the opaque
// reference plus pixel dimensions and the device scale factor. It is
// supplied at creation and replaced on resize; the host owns it, the engine
// borrows it for the duration of a frame.
type Descriptor struct {
	Ref    Reference
	Width  uint32
	Height uint32
	Scale  float32
}

// Target is an acquired drawable. Engines present full frames into it;
// the bridge reconfigures it on resize and closes it on destroy.
type Target interface {
	// Bounds returns the current pixel dimensions.
	Bounds() (width, height uint32)

	// Scale returns the device scale factor.
	Scale() float32

	// Present blits one full frame. pix is RGBA, 4 bytes per pixel,
	// row-major, and must be exactly width*height*4 bytes.
	Present(pix []byte) error

	// Reconfigure replaces the target dimensions. Calling it with the
	// current width, height, and scale is a no-op.
	Reconfigure(width, height uint32, scale float32) error

	// Close releases the target. The host-owned reference outlives it.
	Close() error
}
