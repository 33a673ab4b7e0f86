// Package host supplies the frame-driving loop a platform timer would
// otherwise run: a Driver that ticks bridge.Update at a fixed interval on
// its own goroutine, polls one engine-to-host message per frame, and stops
// on the first nonzero status.
//
// The Driver also encodes the destroy discipline the bridge documents:
// Stop signals the loop and waits for it to fully exit before returning,
// so the owner can call bridge.Destroy immediately afterwards without
// overlapping an in-flight frame.
//
//	d := host.NewDriver(h, 60, func(payload []byte) {
//		// one engine→host payload per frame
//	})
//	d.Start()
//	...
//	d.Stop()
//	bridge.Destroy(h)
package host
