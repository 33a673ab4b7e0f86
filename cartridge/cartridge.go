package cartridge

import (
	"context"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/viewcell/engine-bridge/engine"
	"github.com/viewcell/engine-bridge/errors"
	"github.com/viewcell/engine-bridge/wire"
)

// Guest export names. All but allocExport are required.
const (
	startExport   = "start"
	frameExport   = "frame"
	resizeExport  = "resize"
	touchExport   = "touch"
	messageExport = "message"
	allocExport   = "alloc"
)

var requiredExports = []string{
	startExport, frameExport, resizeExport, touchExport, messageExport,
}

// Config holds cartridge engine configuration.
type Config struct {
	// MemoryLimitPages caps guest memory in 64KB pages.
	// 0 means the wazero default. 256 = 16MB, 1024 = 64MB.
	MemoryLimitPages uint32
}

// Engine runs one WASM cartridge as a bridge engine. Like every
// bridge-managed engine it is single-use: one Startup/Shutdown cycle.
type Engine struct {
	module []byte
	cfg    Config

	env     *engine.Env
	runtime wazero.Runtime
	guest   api.Module

	start   api.Function
	frame   api.Function
	resize  api.Function
	touch   api.Function
	message api.Function
	alloc   api.Function

	warnedNoAlloc bool
}

// New creates an engine for the given cartridge module bytes.
func New(module []byte) *Engine {
	return NewWithConfig(module, Config{})
}

// NewWithConfig creates an engine with a custom configuration.
func NewWithConfig(module []byte, cfg Config) *Engine {
	return &Engine{module: module, cfg: cfg}
}

// Load reads a cartridge module from disk.
func Load(path string) (*Engine, error) {
	module, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read cartridge module", err)
	}
	return New(module), nil
}

// Startup compiles and instantiates the cartridge, verifies its exports,
// and runs the guest's start(). Any failure is a load error: the bridge
// reports it as failed-to-start and no instance is registered.
func (e *Engine) Startup(ctx context.Context, env *engine.Env) error {
	if e.runtime != nil {
		return errors.InvalidInput(errors.PhaseCreate, "cartridge engine already started")
	}
	e.env = env

	runtimeCfg := wazero.NewRuntimeConfig()
	if e.cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(e.cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	ok := false
	defer func() {
		if !ok {
			r.Close(ctx)
			e.runtime = nil
			e.env = nil
		}
	}()

	if err := instantiateHostModule(ctx, r, e); err != nil {
		return errors.Load("instantiate host module", err)
	}

	compiled, err := r.CompileModule(ctx, e.module)
	if err != nil {
		return errors.Load("compile cartridge module", err)
	}

	// No start functions: the guest's entry point is the exported start(),
	// driven below, not a wasi _start.
	guest, err := r.InstantiateModule(ctx, compiled,
		wazero.NewModuleConfig().WithName("cartridge").WithStartFunctions())
	if err != nil {
		return errors.Load("instantiate cartridge module", err)
	}

	var missing []string
	for _, name := range requiredExports {
		if guest.ExportedFunction(name) == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.Load("verify cartridge exports", errors.NewMissingExportsError(missing))
	}

	e.runtime = r
	e.guest = guest
	e.start = guest.ExportedFunction(startExport)
	e.frame = guest.ExportedFunction(frameExport)
	e.resize = guest.ExportedFunction(resizeExport)
	e.touch = guest.ExportedFunction(touchExport)
	e.message = guest.ExportedFunction(messageExport)
	e.alloc = guest.ExportedFunction(allocExport)

	if _, err := e.start.Call(ctx); err != nil {
		return errors.Load("cartridge start trapped", err)
	}

	w, h := env.Target.Bounds()
	if _, err := e.resize.Call(ctx, uint64(w), uint64(h)); err != nil {
		return errors.Load("cartridge initial resize trapped", err)
	}

	Logger().Info("cartridge started",
		zap.Int("module_bytes", len(e.module)),
		zap.Uint32("width", w),
		zap.Uint32("height", h))
	ok = true
	return nil
}

// Frame delivers queued touches and pending host payloads to the guest,
// then drives one guest frame. A trap or a nonzero guest status is a
// per-frame engine failure.
func (e *Engine) Frame(ctx context.Context, tick engine.Tick) error {
	if e.runtime == nil {
		return errors.NotRunning(errors.PhaseFrame, 0, "stopped")
	}

	for _, ev := range e.env.Input.Drain() {
		_, err := e.touch.Call(ctx,
			uint64(ev.Phase),
			api.EncodeF32(ev.X),
			api.EncodeF32(ev.Y),
			ev.ID)
		if err != nil {
			return errors.New(errors.PhaseFrame, errors.KindEngineFailure).
				Detail("cartridge touch trapped").
				Cause(err).
				Build()
		}
	}

	for {
		payload, pending := e.env.Messages.Receive()
		if !pending {
			break
		}
		if err := e.deliver(ctx, payload); err != nil {
			return err
		}
	}

	results, err := e.frame.Call(ctx, tick.Index, uint64(tick.Delta.Milliseconds()))
	if err != nil {
		return errors.New(errors.PhaseFrame, errors.KindEngineFailure).
			Detail("cartridge frame trapped").
			Cause(err).
			Build()
	}
	if status := uint32(results[0]); status != 0 {
		return errors.New(errors.PhaseFrame, errors.KindEngineFailure).
			Detail("cartridge frame returned status %d", status).
			Build()
	}
	return nil
}

// deliver copies one host payload into guest memory via the optional
// alloc export and hands it to message(). Without alloc the payload is
// dropped with its byte count: the channel contract forbids erroring on
// any payload.
func (e *Engine) deliver(ctx context.Context, payload []byte) error {
	if e.alloc == nil {
		if !e.warnedNoAlloc {
			e.warnedNoAlloc = true
			e.env.Log.Warn("cartridge exports no alloc; dropping host payloads",
				zap.Int("bytes", len(payload)),
				zap.String("kind", wire.Classify(payload).String()))
		}
		return nil
	}

	if len(payload) == 0 {
		_, err := e.message.Call(ctx, 0, 0)
		if err != nil {
			return errors.New(errors.PhaseFrame, errors.KindEngineFailure).
				Detail("cartridge message trapped").
				Cause(err).
				Build()
		}
		return nil
	}

	results, err := e.alloc.Call(ctx, uint64(len(payload)))
	if err != nil {
		return errors.New(errors.PhaseFrame, errors.KindEngineFailure).
			Detail("cartridge alloc trapped").
			Cause(err).
			Build()
	}
	ptr := uint32(results[0])
	if !e.guest.Memory().Write(ptr, payload) {
		e.env.Log.Warn("cartridge alloc returned out-of-range pointer; dropping payload",
			zap.Uint32("ptr", ptr),
			zap.Int("bytes", len(payload)))
		return nil
	}

	if _, err := e.message.Call(ctx, uint64(ptr), uint64(len(payload))); err != nil {
		return errors.New(errors.PhaseFrame, errors.KindEngineFailure).
			Detail("cartridge message trapped").
			Cause(err).
			Build()
	}
	return nil
}

// Resize forwards the new surface dimensions to the guest.
func (e *Engine) Resize(width, height uint32, scale float32) {
	if e.runtime == nil {
		return
	}
	if _, err := e.resize.Call(context.Background(), uint64(width), uint64(height)); err != nil {
		e.env.Log.Warn("cartridge resize trapped", zap.Error(err))
	}
}

// Shutdown tears the wazero runtime down, releasing guest memory and
// compiled code.
func (e *Engine) Shutdown(ctx context.Context) error {
	if e.runtime == nil {
		return nil
	}
	err := e.runtime.Close(ctx)
	e.runtime = nil
	e.guest = nil
	e.env = nil
	Logger().Info("cartridge stopped")
	return err
}
