// Package input carries touch events from host callbacks to the engine.
//
// Touch is the event unit: phase, view-local position, stable contact id.
// Queue buffers events between the host's input callbacks and the engine's
// frame; the engine drains it at the top of each frame in submission order.
//
// Tracker implements the host-side mapping from raw pointer callbacks to
// the events to forward. The fan-out contract: a "moved" callback produces
// one event per currently active pointer in pointer-index order; "down",
// "up", and "cancel" produce events only for the contact whose state
// changed. Events forward immediately, first mapped first forwarded.
//
//	tr := input.NewTracker()
//	for _, ev := range tr.Down(7, x, y) {
//		bridge.TouchEvent(h, ev.Phase, ev.X, ev.Y, ev.ID)
//	}
//
// # Thread Safety
//
// Queue is internally synchronized. Tracker is confined to the host's
// input-delivery thread.
package input
