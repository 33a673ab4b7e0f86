// Package surface adapts host-owned drawables into targets an embedded
// engine can render into.
//
// A host describes its drawable with a Descriptor: an opaque Reference plus
// pixel dimensions and device scale. Providers registered in the process
// registry adapt references they recognize into Targets; acquisition walks
// providers in priority order and skips those that decline.
//
// The built-in "memory" provider (priority 10) serves software rendering:
// it accepts a nil reference or a host-owned *Pixels store.
//
//	px := surface.NewPixels(390, 844)
//	target, err := surface.Acquire(surface.Descriptor{
//		Ref: px, Width: 390, Height: 844, Scale: 3,
//	})
//
// Platform integrations register their own providers from init:
//
//	surface.Register("metal", 100, metalFactory, metalAvailable)
//
// # Thread Safety
//
// The registry is safe for concurrent use. A Target is not: the bridge
// serializes Present/Reconfigure/Close per instance. Pixels.Snapshot is
// safe from any goroutine; Pixels.Pix is only safe while bridge calls are
// serialized on the caller's thread.
package surface
