package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/viewcell/engine-bridge/bridge"
	"github.com/viewcell/engine-bridge/canvas"
	"github.com/viewcell/engine-bridge/cartridge"
	"github.com/viewcell/engine-bridge/engine"
	"github.com/viewcell/engine-bridge/input"
	"github.com/viewcell/engine-bridge/surface"
	"github.com/viewcell/engine-bridge/wire"
)

// Report is what a scenario run produced.
type Report struct {
	// Frames is the number of frames that completed.
	Frames uint64

	// Sent and Received count channel payloads per direction.
	Sent     int
	Received int

	// LastMatrix is the most recent 64-byte matrix the engine emitted,
	// when any.
	LastMatrix *wire.Matrix

	// Status is the terminal update status; nonzero means the run
	// stopped early and LastError holds the cause.
	Status    bridge.Status
	LastError string
}

// Runner executes one scenario over the real bridge. It binds the
// process-wide engine factory, so one runner runs at a time.
type Runner struct {
	cfg Config
	log *zap.Logger
}

// NewRunner creates a runner for a validated config.
func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg, log: zap.NewNop()}
}

// WithLogger attaches a logger for run progress.
func (r *Runner) WithLogger(log *zap.Logger) *Runner {
	r.log = log
	return r
}

// Run drives the scenario to its frame budget, a frame failure, or ctx
// cancellation, whichever is first. The returned error covers setup
// problems; frame failures land in the report instead.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	var report Report

	factory, err := r.factory()
	if err != nil {
		return report, err
	}
	bridge.Bind(factory)

	px := surface.NewPixels(r.cfg.View.Width, r.cfg.View.Height)
	h := bridge.Create(px, r.cfg.View.Width, r.cfg.View.Height, r.cfg.View.Scale)
	if h == 0 {
		return report, fmt.Errorf("create instance: %w", bridge.CreateError())
	}
	defer bridge.Destroy(h)

	events := r.eventsByFrame()

	for frame := uint64(0); frame < r.cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		for _, ev := range events[frame] {
			r.apply(h, ev, &report)
		}

		if st := bridge.Update(h); st != bridge.StatusOK {
			report.Status = st
			report.LastError = bridge.LastError(h)
			r.log.Error("scenario stopped on frame failure",
				zap.Uint64("frame", frame),
				zap.Stringer("status", st),
				zap.String("last_error", report.LastError))
			return report, nil
		}
		report.Frames++

		if payload, ok := bridge.ReceiveMessage(h); ok {
			report.Received++
			if m, err := wire.DecodeMatrix(payload); err == nil {
				report.LastMatrix = &m
			} else {
				r.log.Info("engine payload",
					zap.Int("bytes", len(payload)),
					zap.Stringer("kind", wire.Classify(payload)))
			}
		}
	}

	r.log.Info("scenario complete",
		zap.Uint64("frames", report.Frames),
		zap.Int("sent", report.Sent),
		zap.Int("received", report.Received))
	return report, nil
}

func (r *Runner) factory() (func() engine.Engine, error) {
	switch r.cfg.Engine.Kind {
	case EngineCartridge:
		module, err := cartridge.Load(r.cfg.Engine.Module)
		if err != nil {
			return nil, fmt.Errorf("load cartridge: %w", err)
		}
		used := false
		return func() engine.Engine {
			// Cartridge engines are single-use; a second instance gets a
			// fresh one from the same module bytes.
			if used {
				eng, _ := cartridge.Load(r.cfg.Engine.Module)
				return eng
			}
			used = true
			return module
		}, nil
	default:
		return func() engine.Engine {
			return canvas.New(canvas.DemoScene())
		}, nil
	}
}

func (r *Runner) eventsByFrame() map[uint64][]Event {
	byFrame := make(map[uint64][]Event, len(r.cfg.Events))
	for _, ev := range r.cfg.Events {
		byFrame[ev.Frame] = append(byFrame[ev.Frame], ev)
	}
	return byFrame
}

func (r *Runner) apply(h bridge.Handle, ev Event, report *Report) {
	switch {
	case ev.Touch != nil:
		phase, ok := input.PhaseFromByte(ev.Touch.Phase)
		if !ok {
			r.log.Warn("scenario touch with unknown phase",
				zap.Uint8("phase", ev.Touch.Phase))
			return
		}
		bridge.TouchEvent(h, phase, ev.Touch.X, ev.Touch.Y, ev.Touch.ID)
	case ev.Send != nil:
		payload, err := ev.Send.Payload()
		if err != nil {
			// Validate rejected these already; a runtime miss is log-worthy.
			r.log.Warn("scenario send skipped", zap.Error(err))
			return
		}
		bridge.SendMessage(h, payload)
		report.Sent++
	case ev.Resize != nil:
		scale := ev.Resize.Scale
		if scale == 0 {
			scale = r.cfg.View.Scale
		}
		bridge.Resize(h, ev.Resize.Width, ev.Resize.Height, scale)
	}
}
