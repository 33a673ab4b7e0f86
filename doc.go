// Package enginebridge embeds a render/update engine inside host
// applications that own the drawing surface.
//
// The host owns the platform view, the frame-driving timer, input delivery,
// and message polling. The engine is an opaque collaborator behind a narrow
// contract: it receives a surface target, one Frame call per host tick, and
// a byte-oriented message channel back to the host.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	enginebridge/        Root package with the shared pixel-buffer interface
//	├── bridge/          Handle-based entry points over the instance arena
//	├── engine/          Engine contract, app hooks, per-instance environment
//	├── surface/         Surface descriptors and the provider registry
//	├── input/           Touch phases, queues, and multi-touch fan-out
//	├── channel/         Bidirectional unbounded byte message channel
//	├── wire/            Little-endian payload codecs (matrix, color)
//	├── host/            Frame-driving loop glue for host applications
//	├── canvas/          Software 2D engine rendering with gogpu/gg
//	├── cartridge/       WASM cartridge engine on wazero
//	├── remote/          Websocket remote viewer (frames out, touches in)
//	├── sim/             Scenario configuration and headless simulation
//	├── errors/          Structured error types
//	└── cmd/bridge-sim/  CLI and interactive TUI for driving scenarios
//
// # Quick Start
//
// Bind an engine factory once, then create and drive a view:
//
//	bridge.Bind(func() engine.Engine {
//		return canvas.New(canvas.DemoScene())
//	})
//
//	h := bridge.Create(nil, 390, 844, 3.0)
//	if h == 0 {
//		log.Fatal(bridge.CreateError())
//	}
//
//	for i := 0; i < 60; i++ {
//		if st := bridge.Update(h); st != bridge.StatusOK {
//			log.Fatal(bridge.LastError(h))
//		}
//		if msg, ok := bridge.ReceiveMessage(h); ok {
//			_ = msg // engine→host payload, e.g. a 64-byte camera matrix
//		}
//	}
//
//	bridge.Destroy(h)
//
// # Payload Formats
//
// The channel carries opaque bytes; the wire package holds the two
// well-known payload codecs:
//
//   - 4x4 matrix: 16 IEEE-754 little-endian float32, row-major, 64 bytes
//   - RGBA color: 4 IEEE-754 little-endian float32, 16 bytes
//
// Anything else is application-defined. Receivers classify unknown lengths
// and report the byte count instead of failing.
//
// # Thread Safety
//
// Bridge entry points expect the host to serialize calls (one in flight at
// a time), matching platform frame-callback idioms. The instance arena is
// internally synchronized, and the message channel is mutex-guarded, so a
// host that sends from a second thread does not corrupt the queue. Destroy
// must not overlap an in-flight Update: stop the frame loop, wait for it to
// exit, then destroy. host.Driver encodes that discipline.
package enginebridge
