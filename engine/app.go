package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/viewcell/engine-bridge/errors"
	"github.com/viewcell/engine-bridge/input"
)

// App receives lifecycle callbacks from a Core. It is the porting surface
// for application logic that wants frame, touch, and message delivery
// without implementing the Engine plumbing itself.
type App interface {
	// OnStart runs once, after the environment is bound. A failure aborts
	// startup.
	OnStart(env *Env) error

	// OnFrame runs once per frame, after queued touches and messages have
	// been delivered.
	OnFrame(env *Env, tick Tick) error

	// OnTouch is called for each queued touch event, in submission order,
	// at the top of the frame.
	OnTouch(env *Env, ev input.Touch)

	// OnMessage is called for each pending host payload, in submission
	// order, after touches.
	OnMessage(env *Env, payload []byte)

	// OnShutdown runs once when the instance is destroyed.
	OnShutdown(env *Env)
}

// Core adapts an App to the Engine interface. Each frame it drains the
// touch queue (OnTouch per event, FIFO), polls the channel until empty
// (OnMessage per payload), then calls OnFrame.
type Core struct {
	app     App
	env     *Env
	started bool
}

// NewCore creates an engine around the app.
func NewCore(app App) *Core {
	return &Core{app: app}
}

// Startup verifies the environment and runs OnStart. Exactly one surface
// target must be present; a Core cannot be started twice without an
// intervening Shutdown.
func (c *Core) Startup(ctx context.Context, env *Env) error {
	if c.started {
		return errors.InvalidInput(errors.PhaseCreate, "engine already started")
	}
	if env == nil || env.Target == nil {
		return errors.SurfaceUnavailable(nil)
	}
	if env.Log == nil {
		env.Log = zap.NewNop()
	}

	c.env = env
	if err := c.app.OnStart(env); err != nil {
		c.env = nil
		return err
	}
	c.started = true

	w, h := env.Target.Bounds()
	Logger().Debug("engine core started",
		zap.Uint32("width", w),
		zap.Uint32("height", h),
		zap.Float32("scale", env.Target.Scale()))
	return nil
}

// Frame delivers queued input and messages, then runs one app frame.
func (c *Core) Frame(ctx context.Context, tick Tick) error {
	if !c.started {
		return errors.NotRunning(errors.PhaseFrame, 0, "stopped")
	}

	for _, ev := range c.env.Input.Drain() {
		c.app.OnTouch(c.env, ev)
	}

	for {
		payload, ok := c.env.Messages.Receive()
		if !ok {
			break
		}
		c.app.OnMessage(c.env, payload)
	}

	return c.app.OnFrame(c.env, tick)
}

// Resize is forwarded to the app as a frame-level concern: the target
// already carries the new bounds, so apps re-read them lazily. Core keeps
// no dimension state of its own.
func (c *Core) Resize(width, height uint32, scale float32) {
	if !c.started {
		return
	}
	Logger().Debug("engine core resized",
		zap.Uint32("width", width),
		zap.Uint32("height", height),
		zap.Float32("scale", scale))
}

// Shutdown runs OnShutdown and detaches the environment.
func (c *Core) Shutdown(ctx context.Context) error {
	if !c.started {
		return nil
	}
	c.app.OnShutdown(c.env)
	c.started = false
	c.env = nil
	return nil
}
