package bridge

import (
	"github.com/viewcell/engine-bridge/engine"
	"github.com/viewcell/engine-bridge/input"
	"github.com/viewcell/engine-bridge/surface"
)

// Handle identifies one live embedded engine instance. It is an index+1
// into the process-wide instance arena; 0 is never issued and means
// creation failed. Hosts treat it as an opaque capability token passed to
// every subsequent call. Destroying a handle invalidates it permanently.
type Handle uint64

// Status is the result of Update. Zero is success; any nonzero value
// means the host should stop driving frames and read LastError.
type Status uint32

const (
	// StatusOK means the frame completed.
	StatusOK Status = 0

	// StatusInvalidHandle means the handle does not name a live instance
	// (never created, already destroyed, or fabricated).
	StatusInvalidHandle Status = 1

	// StatusEngineFailure means the engine's own frame reported an error;
	// LastError holds the retrievable text.
	StatusEngineFailure Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidHandle:
		return "invalid_handle"
	case StatusEngineFailure:
		return "engine_failure"
	default:
		return "unknown"
	}
}

// std is the process-wide arena behind the package-level entry points.
var std = newArena()

// Bind registers the engine factory used by Create. It is the Go analogue
// of linking the embedded app at build time: call it once at program
// start, before the first Create. A later Bind replaces the factory for
// subsequent creates; instances already running are unaffected.
func Bind(factory func() engine.Engine) {
	std.bind(factory)
}

// Create acquires a surface for the descriptor, starts a new engine
// instance on it, and returns its handle. It returns 0 when no factory is
// bound, when ref already backs a live instance, when no surface provider
// can adapt ref, or when engine startup fails; CreateError then reports
// the distinguishable cause and no instance exists.
//
// ref is the opaque host surface reference handed to the provider
// registry; nil asks the memory provider to allocate a private backing.
func Create(ref surface.Reference, width, height uint32, scale float32) Handle {
	return std.create(ref, width, height, scale)
}

// CreateError returns the cause of the most recent failed Create, or nil
// after a successful one.
func CreateError() error {
	return std.lastCreateErr()
}

// Update drives exactly one frame of engine work. The engine drains
// queued touch events and pending host messages, then renders. On a dead
// handle it is a safe no-op returning StatusInvalidHandle.
func Update(h Handle) Status {
	return std.update(h)
}

// Resize replaces the instance's surface descriptor. Resizing to the
// current width, height, and scale is a no-op: the engine observes no
// duplicate reconfiguration. Dead handles are ignored.
func Resize(h Handle, width, height uint32, scale float32) {
	std.resize(h, width, height, scale)
}

// Destroy shuts the engine down, releases the surface target, and frees
// the handle. Safe to call at most once per successful Create; any later
// call on the handle fails safely. The host must stop its frame-driving
// loop and wait for it to exit before calling Destroy.
func Destroy(h Handle) {
	std.destroy(h)
}

// TouchEvent enqueues one touch event on the instance's input queue. The
// engine drains the queue at the top of its next frame in submission
// order. Unknown phases are dropped with a log line; dead handles are
// ignored.
func TouchEvent(h Handle, phase input.Phase, x, y float32, id uint64) {
	std.touchEvent(h, phase, x, y, id)
}

// SendMessage submits one opaque payload to the engine, fire-and-forget;
// the engine buffers it until its next frame. The channel takes ownership
// of the slice. Dead handles are ignored.
func SendMessage(h Handle, payload []byte) {
	std.sendMessage(h, payload)
}

// ReceiveMessage polls for one pending engine-to-host payload, oldest
// first. ok is false when nothing is pending or the handle is dead. Hosts
// conventionally poll once per rendered frame.
func ReceiveMessage(h Handle) ([]byte, bool) {
	return std.receiveMessage(h)
}

// LastError returns the retrievable text of the most recent frame or
// resize failure on the handle, or "" when none occurred or the handle is
// dead.
func LastError(h Handle) string {
	return std.lastError(h)
}

// Live reports the number of live instances in the process-wide arena.
func Live() int {
	return std.live()
}
