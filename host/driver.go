package host

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/viewcell/engine-bridge/bridge"
)

// MessageFunc receives one engine-to-host payload. It runs on the driver
// goroutine, between frames; a slow callback delays the next frame.
type MessageFunc func(payload []byte)

// Driver drives one bridge instance at a fixed frame rate on its own
// goroutine. It is single-use: Start once, Stop once. The zero frame rate
// defaults to 60 frames per second.
type Driver struct {
	handle bridge.Handle
	period time.Duration
	onMsg  MessageFunc

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	frames  uint64
	status  bridge.Status
	lastErr string
}

// NewDriver creates a driver for the handle at the given frame rate.
// onMessage may be nil; pending engine payloads are then left queued.
func NewDriver(h bridge.Handle, fps int, onMessage MessageFunc) *Driver {
	if fps <= 0 {
		fps = 60
	}
	return &Driver{
		handle: h,
		period: time.Second / time.Duration(fps),
		onMsg:  onMessage,
	}
}

// Start launches the frame loop. Starting a running or stopped driver is
// a no-op.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stop != nil {
		return
	}
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.loop(d.stop, d.done)

	Logger().Info("driver started",
		zap.Uint64("handle", uint64(d.handle)),
		zap.Duration("period", d.period))
}

// Stop signals the loop and waits for it to fully exit. After Stop
// returns, no frame is in flight and the owner may destroy the handle.
// Stopping a never-started or already-stopped driver is a no-op.
func (d *Driver) Stop() {
	d.mu.Lock()
	stop, done := d.stop, d.done
	d.mu.Unlock()

	if stop == nil {
		return
	}
	select {
	case <-stop:
	default:
		close(stop)
	}
	<-done

	Logger().Info("driver stopped",
		zap.Uint64("handle", uint64(d.handle)),
		zap.Uint64("frames", d.Frames()))
}

// Run drives the loop on the calling goroutine until ctx is canceled or
// a frame fails, returning the final status. It is the blocking
// alternative to Start/Stop for hosts that own a goroutine already.
func (d *Driver) Run(ctx context.Context) bridge.Status {
	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return d.Status()
		case <-ticker.C:
			if !d.step() {
				return d.Status()
			}
		}
	}
}

func (d *Driver) loop(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !d.step() {
				return
			}
		}
	}
}

// step drives one frame and polls one message. It returns false when the
// loop should exit.
func (d *Driver) step() bool {
	st := bridge.Update(d.handle)
	if st != bridge.StatusOK {
		d.mu.Lock()
		d.status = st
		d.lastErr = bridge.LastError(d.handle)
		d.mu.Unlock()

		Logger().Error("driver stopping on frame failure",
			zap.Uint64("handle", uint64(d.handle)),
			zap.Stringer("status", st),
			zap.String("last_error", d.lastErr))
		return false
	}

	d.mu.Lock()
	d.frames++
	d.mu.Unlock()

	if payload, ok := bridge.ReceiveMessage(d.handle); ok && d.onMsg != nil {
		d.onMsg(payload)
	}
	return true
}

// Frames reports the number of completed frames.
func (d *Driver) Frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// Status reports the terminal status: StatusOK while the loop is healthy,
// the failing status after it stops on an error.
func (d *Driver) Status() bridge.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// LastError reports the bridge last-error text captured when the loop
// stopped on a failure, or "".
func (d *Driver) LastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}
