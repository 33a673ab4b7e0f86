package bridge

import (
	"context"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/viewcell/engine-bridge/channel"
	"github.com/viewcell/engine-bridge/engine"
	"github.com/viewcell/engine-bridge/errors"
	"github.com/viewcell/engine-bridge/input"
	"github.com/viewcell/engine-bridge/surface"
)

// instance is one live embedded engine: the running engine, its acquired
// surface target, the descriptor that produced it, and the queues the
// entry points feed. Host calls on a single instance are serialized, so
// instance fields need no lock of their own.
type instance struct {
	engine engine.Engine
	target surface.Target
	desc   surface.Descriptor

	pair  *channel.Pair
	host  channel.Endpoint
	input *input.Queue

	frame   uint64
	lastAt  time.Time
	lastErr string
}

// arena is the process-wide instance table. Handles are index+1 into the
// entries slice; slot 0 is never issued so Handle(0) always means failure.
// Freed slots return to a free list for reuse.
type arena struct {
	mu        sync.RWMutex
	entries   []*instance
	freeList  []Handle
	owners    map[any]Handle
	factory   func() engine.Engine
	createErr error
}

func newArena() *arena {
	return &arena{
		entries: make([]*instance, 0, 4),
		owners:  make(map[any]Handle),
	}
}

// ownerKey reduces a surface reference to a map key for conflict
// detection. Nil references never conflict (each create gets a private
// backing), and uncomparable reference types are skipped rather than
// risking a panic on map insertion.
func ownerKey(ref surface.Reference) (any, bool) {
	if ref == nil {
		return nil, false
	}
	if !reflect.TypeOf(ref).Comparable() {
		return nil, false
	}
	return ref, true
}

func (a *arena) bind(factory func() engine.Engine) {
	a.mu.Lock()
	a.factory = factory
	a.mu.Unlock()
}

func (a *arena) setCreateErr(err error) {
	a.mu.Lock()
	a.createErr = err
	a.mu.Unlock()
}

func (a *arena) lastCreateErr() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.createErr
}

func (a *arena) create(ref surface.Reference, width, height uint32, scale float32) Handle {
	a.mu.RLock()
	factory := a.factory
	a.mu.RUnlock()

	if factory == nil {
		err := errors.EngineUnbound()
		a.setCreateErr(err)
		Logger().Error("create refused", zap.Error(err))
		return 0
	}

	if key, ok := ownerKey(ref); ok {
		a.mu.RLock()
		owner, live := a.owners[key]
		a.mu.RUnlock()
		if live {
			err := errors.SurfaceConflict(uint64(owner))
			a.setCreateErr(err)
			Logger().Error("create refused", zap.Error(err))
			return 0
		}
	}

	desc := surface.Descriptor{Ref: ref, Width: width, Height: height, Scale: scale}
	target, err := surface.Acquire(desc)
	if err != nil {
		ferr := errors.SurfaceUnavailable(err)
		a.setCreateErr(ferr)
		Logger().Error("surface acquisition failed", zap.Error(ferr))
		return 0
	}

	eng := factory()
	pair := channel.NewPair()
	queue := input.NewQueue()
	env := &engine.Env{
		Target:   target,
		Messages: pair.Engine(),
		Input:    queue,
		Log:      Logger(),
	}

	if err := eng.Startup(context.Background(), env); err != nil {
		target.Close()
		ferr := errors.Instantiation(err)
		a.setCreateErr(ferr)
		Logger().Error("engine startup failed", zap.Error(ferr))
		return 0
	}

	inst := &instance{
		engine: eng,
		target: target,
		desc:   desc,
		pair:   pair,
		host:   pair.Host(),
		input:  queue,
	}

	a.mu.Lock()
	var h Handle
	if n := len(a.freeList); n > 0 {
		h = a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.entries[h-1] = inst
	} else {
		a.entries = append(a.entries, inst)
		h = Handle(len(a.entries))
	}
	if key, ok := ownerKey(ref); ok {
		a.owners[key] = h
	}
	a.createErr = nil
	a.mu.Unlock()

	Logger().Info("instance created",
		zap.Uint64("handle", uint64(h)),
		zap.Uint32("width", width),
		zap.Uint32("height", height),
		zap.Float32("scale", scale))
	return h
}

// get resolves a handle to its live instance. Unknown, zero, and freed
// handles return nil.
func (a *arena) get(h Handle) *instance {
	if h == 0 {
		return nil
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	idx := int(h - 1)
	if idx >= len(a.entries) {
		return nil
	}
	return a.entries[idx]
}

func (a *arena) update(h Handle) Status {
	inst := a.get(h)
	if inst == nil {
		Logger().Warn("update on dead handle", zap.Uint64("handle", uint64(h)))
		return StatusInvalidHandle
	}

	now := time.Now()
	var delta time.Duration
	if !inst.lastAt.IsZero() {
		delta = now.Sub(inst.lastAt)
	}
	inst.lastAt = now

	tick := engine.Tick{Index: inst.frame, Delta: delta}
	if err := inst.engine.Frame(context.Background(), tick); err != nil {
		ferr := errors.EngineFailure(errors.PhaseFrame, uint64(h), err)
		inst.lastErr = ferr.Error()
		Logger().Error("frame failed",
			zap.Uint64("handle", uint64(h)),
			zap.Uint64("frame", inst.frame),
			zap.Error(err))
		return StatusEngineFailure
	}

	inst.frame++
	return StatusOK
}

func (a *arena) resize(h Handle, width, height uint32, scale float32) {
	inst := a.get(h)
	if inst == nil {
		Logger().Warn("resize on dead handle", zap.Uint64("handle", uint64(h)))
		return
	}

	// Same dimensions, same scale: the descriptor is already current and
	// the engine must not observe a duplicate reconfiguration.
	if inst.desc.Width == width && inst.desc.Height == height && inst.desc.Scale == scale {
		return
	}

	if err := inst.target.Reconfigure(width, height, scale); err != nil {
		ferr := errors.New(errors.PhaseResize, errors.KindSurfaceUnavailable).
			Handle(uint64(h)).
			Detail("reconfigure %dx%d@%g", width, height, scale).
			Cause(err).
			Build()
		inst.lastErr = ferr.Error()
		Logger().Error("resize failed", zap.Error(ferr))
		return
	}

	inst.desc.Width = width
	inst.desc.Height = height
	inst.desc.Scale = scale
	inst.engine.Resize(width, height, scale)

	Logger().Debug("instance resized",
		zap.Uint64("handle", uint64(h)),
		zap.Uint32("width", width),
		zap.Uint32("height", height),
		zap.Float32("scale", scale))
}

func (a *arena) destroy(h Handle) {
	if h == 0 {
		return
	}

	a.mu.Lock()
	idx := int(h - 1)
	if idx >= len(a.entries) || a.entries[idx] == nil {
		a.mu.Unlock()
		Logger().Warn("destroy on dead handle", zap.Uint64("handle", uint64(h)))
		return
	}
	inst := a.entries[idx]
	a.entries[idx] = nil
	a.freeList = append(a.freeList, h)
	if key, ok := ownerKey(inst.desc.Ref); ok {
		delete(a.owners, key)
	}
	a.mu.Unlock()

	// The slot is gone before teardown runs: any call arriving after this
	// point sees an unknown handle, never a half-destroyed instance.
	if err := inst.engine.Shutdown(context.Background()); err != nil {
		Logger().Warn("engine shutdown reported failure",
			zap.Uint64("handle", uint64(h)),
			zap.Error(err))
	}
	if err := inst.target.Close(); err != nil {
		Logger().Warn("surface target close failed",
			zap.Uint64("handle", uint64(h)),
			zap.Error(err))
	}

	Logger().Info("instance destroyed", zap.Uint64("handle", uint64(h)))
}

func (a *arena) touchEvent(h Handle, phase input.Phase, x, y float32, id uint64) {
	inst := a.get(h)
	if inst == nil {
		Logger().Warn("touch on dead handle", zap.Uint64("handle", uint64(h)))
		return
	}

	if _, ok := input.PhaseFromByte(uint8(phase)); !ok {
		Logger().Warn("dropping touch with unknown phase",
			zap.Uint64("handle", uint64(h)),
			zap.Uint8("phase", uint8(phase)))
		return
	}

	inst.input.Push(input.Touch{Phase: phase, X: x, Y: y, ID: id})
}

func (a *arena) sendMessage(h Handle, payload []byte) {
	inst := a.get(h)
	if inst == nil {
		Logger().Warn("send on dead handle", zap.Uint64("handle", uint64(h)))
		return
	}
	inst.host.Send(payload)
}

func (a *arena) receiveMessage(h Handle) ([]byte, bool) {
	inst := a.get(h)
	if inst == nil {
		return nil, false
	}
	return inst.host.Receive()
}

func (a *arena) lastError(h Handle) string {
	inst := a.get(h)
	if inst == nil {
		return ""
	}
	return inst.lastErr
}

// live reports the number of live instances.
func (a *arena) live() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	n := 0
	for _, inst := range a.entries {
		if inst != nil {
			n++
		}
	}
	return n
}
