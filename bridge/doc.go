// Package bridge exposes the handle-based entry points hosts drive an
// embedded engine through: create, update, resize, destroy, touch
// forwarding, and the bidirectional message channel.
//
// # Quick Start
//
//	bridge.Bind(func() engine.Engine {
//		return canvas.New(canvas.DemoScene())
//	})
//
//	h := bridge.Create(nil, 390, 844, 3.0)
//	if h == 0 {
//		log.Fatal(bridge.CreateError())
//	}
//	defer bridge.Destroy(h)
//
//	if st := bridge.Update(h); st != bridge.StatusOK {
//		log.Fatal(bridge.LastError(h))
//	}
//
// Handles are indices into a process-wide instance arena, never raw
// pointers: a stale or fabricated handle is an unknown index and every
// entry point fails safely on it instead of dereferencing freed state.
//
// # Thread Safety
//
// The host serializes entry-point calls per instance (one in flight at a
// time), matching platform frame-callback idioms; the bridge does not lock
// Update against a concurrent Resize on the same handle. The arena itself
// is internally synchronized, and SendMessage/ReceiveMessage are safe from
// other threads. Destroy must not overlap an in-flight Update: stop the
// frame loop, wait for it to exit, then destroy.
package bridge
