// Package cartridge is a WASM engine for the bridge: the embedded logic
// ships as a WebAssembly module ("cartridge") executed on wazero, so app
// code can be swapped at runtime without relinking the host.
//
// # Guest ABI
//
// A cartridge exports flat core-wasm lifecycle functions:
//
//	start()
//	frame(index u64, dt_millis u32) -> u32 status
//	resize(width u32, height u32)
//	touch(phase u32, x f32, y f32, id u64)
//	message(ptr u32, len u32)
//	alloc(size u32) -> ptr          (optional, enables host payloads)
//
// A nonzero frame status is a per-frame engine failure: the bridge stops
// the instance's Update with a nonzero status and retrievable last-error
// text. Modules missing a required export fail startup with a load error,
// the failed-to-start path; they never reach Running.
//
// # Host API
//
// The host instantiates a "host" module the guest may import:
//
//	log(ptr u32, len u32)           log UTF-8 text through zap
//	send(ptr u32, len u32)          emit one payload to the host channel
//	frame_buffer(ptr u32, len u32)  present RGBA pixels to the surface
package cartridge
