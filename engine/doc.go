// Package engine defines the contract between the bridge and an embedded
// render/update core.
//
// An Engine receives a per-instance Env at startup (surface target,
// channel endpoint, touch queue, logger), one Frame call per host tick,
// Resize notifications, and a final Shutdown. The bridge serializes every
// call; engines need no locking against their own entry points.
//
// Application code usually implements App instead and lets Core handle the
// plumbing:
//
//	type game struct{ ... }
//
//	func (g *game) OnStart(env *engine.Env) error { ... }
//	func (g *game) OnFrame(env *engine.Env, tick engine.Tick) error { ... }
//	func (g *game) OnTouch(env *engine.Env, ev input.Touch) { ... }
//	func (g *game) OnMessage(env *engine.Env, payload []byte) { ... }
//	func (g *game) OnShutdown(env *engine.Env) { ... }
//
//	eng := engine.NewCore(&game{})
//
// Core delivers queued touches first (submission order), then pending host
// messages (submission order), then the frame hook, every frame.
//
// # Thread Safety
//
// An Engine instance belongs to one bridge instance and is never called
// concurrently. Env.Messages is safe to use from engine code at any point
// within a call; the queue behind Env.Input is drained only by Core.
package engine
