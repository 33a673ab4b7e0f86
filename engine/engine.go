package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/viewcell/engine-bridge/channel"
	"github.com/viewcell/engine-bridge/input"
	"github.com/viewcell/engine-bridge/surface"
)

// Engine is an embeddable render/update core. The bridge owns every call:
// Startup once after surface acquisition, Frame once per host tick, Resize
// when the host replaces the surface descriptor, Shutdown once on destroy.
// Calls are serialized by the bridge; implementations need no internal
// locking against each other.
type Engine interface {
	// Startup binds the engine to its environment. A failure here aborts
	// instance creation; the bridge reports it as failed-to-start.
	Startup(ctx context.Context, env *Env) error

	// Frame drives exactly one frame of engine work. A non-nil error
	// becomes a nonzero update status with retrievable last-error text.
	Frame(ctx context.Context, tick Tick) error

	// Resize informs the engine that the surface target was reconfigured.
	// The target already has the new dimensions when this is called.
	Resize(width, height uint32, scale float32)

	// Shutdown releases engine resources. The surface target is closed by
	// the bridge afterwards.
	Shutdown(ctx context.Context) error
}

// Env is the per-instance environment an engine borrows for its lifetime:
// the acquired surface target, the engine-side channel endpoint, the touch
// queue the bridge fills, and a logger scoped to the instance.
type Env struct {
	Target   surface.Target
	Messages channel.Endpoint
	Input    *input.Queue
	Log      *zap.Logger
}

// Tick describes one frame: a zero-based frame index and the wall-clock
// time elapsed since the previous frame (zero on the first).
type Tick struct {
	Index uint64
	Delta time.Duration
}
