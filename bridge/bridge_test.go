package bridge

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/viewcell/engine-bridge/engine"
	"github.com/viewcell/engine-bridge/errors"
	"github.com/viewcell/engine-bridge/input"
	"github.com/viewcell/engine-bridge/surface"
)

// fakeEngine records lifecycle traffic and flags any call that arrives
// after Shutdown freed its state.
type fakeEngine struct {
	env      *engine.Env
	startErr error
	frameErr error

	frames    int
	resizes   []string
	touches   []input.Touch
	freed     bool
	postFreed int
}

func (f *fakeEngine) Startup(ctx context.Context, env *engine.Env) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.env = env
	return nil
}

func (f *fakeEngine) Frame(ctx context.Context, tick engine.Tick) error {
	if f.freed {
		f.postFreed++
		return nil
	}
	f.touches = append(f.touches, f.env.Input.Drain()...)
	f.frames++
	return f.frameErr
}

func (f *fakeEngine) Resize(width, height uint32, scale float32) {
	if f.freed {
		f.postFreed++
		return
	}
	f.resizes = append(f.resizes, fmt.Sprintf("%dx%d@%g", width, height, scale))
}

func (f *fakeEngine) Shutdown(ctx context.Context) error {
	f.freed = true
	return nil
}

func boundArena(t *testing.T, eng *fakeEngine) *arena {
	t.Helper()
	a := newArena()
	a.bind(func() engine.Engine { return eng })
	return a
}

func TestArena_CreateUnbound(t *testing.T) {
	a := newArena()

	h := a.create(nil, 100, 100, 1)
	if h != 0 {
		t.Fatalf("unbound create returned handle %d, want 0", h)
	}
	if !stderrors.Is(a.lastCreateErr(), errors.EngineUnbound()) {
		t.Errorf("create error = %v, want engine_unbound", a.lastCreateErr())
	}
}

func TestArena_CreateAndDestroy(t *testing.T) {
	eng := &fakeEngine{}
	a := boundArena(t, eng)

	h := a.create(nil, 320, 240, 2)
	if h == 0 {
		t.Fatalf("create failed: %v", a.lastCreateErr())
	}
	if a.lastCreateErr() != nil {
		t.Errorf("create error after success = %v, want nil", a.lastCreateErr())
	}
	if a.live() != 1 {
		t.Errorf("live = %d, want 1", a.live())
	}

	if st := a.update(h); st != StatusOK {
		t.Fatalf("update status = %v, want ok", st)
	}
	if eng.frames != 1 {
		t.Errorf("engine drove %d frames, want 1", eng.frames)
	}

	a.destroy(h)
	if !eng.freed {
		t.Error("destroy did not shut the engine down")
	}
	if a.live() != 0 {
		t.Errorf("live after destroy = %d, want 0", a.live())
	}
}

func TestArena_NoWritesAfterDestroy(t *testing.T) {
	eng := &fakeEngine{}
	a := boundArena(t, eng)

	h := a.create(nil, 64, 64, 1)
	if h == 0 {
		t.Fatalf("create failed: %v", a.lastCreateErr())
	}
	a.destroy(h)

	if st := a.update(h); st != StatusInvalidHandle {
		t.Errorf("update after destroy = %v, want invalid_handle", st)
	}
	a.resize(h, 128, 128, 1)
	a.touchEvent(h, input.PhaseStarted, 1, 2, 7)
	a.sendMessage(h, []byte("late"))
	a.destroy(h)
	if _, ok := a.receiveMessage(h); ok {
		t.Error("receive after destroy returned a payload")
	}
	if got := a.lastError(h); got != "" {
		t.Errorf("last error after destroy = %q, want empty", got)
	}

	if eng.postFreed != 0 {
		t.Errorf("%d engine calls arrived after free, want 0", eng.postFreed)
	}
}

func TestArena_FailedCreateNeverRuns(t *testing.T) {
	eng := &fakeEngine{startErr: stderrors.New("device lost")}
	a := boundArena(t, eng)

	h := a.create(nil, 64, 64, 1)
	if h != 0 {
		t.Fatalf("failed create returned handle %d, want 0", h)
	}
	var bridgeErr *errors.Error
	if !stderrors.As(a.lastCreateErr(), &bridgeErr) {
		t.Fatalf("create error = %v, want *errors.Error", a.lastCreateErr())
	}
	if bridgeErr.Kind != errors.KindInstantiation {
		t.Errorf("create error kind = %v, want instantiation", bridgeErr.Kind)
	}
	if a.live() != 0 {
		t.Errorf("live after failed create = %d, want 0", a.live())
	}

	// The failed handle value must not behave as live.
	if st := a.update(h); st != StatusInvalidHandle {
		t.Errorf("update on failed handle = %v, want invalid_handle", st)
	}
	a.destroy(h)
	if eng.frames != 0 {
		t.Errorf("failed instance drove %d frames, want 0", eng.frames)
	}
}

func TestArena_SurfaceUnavailable(t *testing.T) {
	type bogusRef struct{ id int }
	a := boundArena(t, &fakeEngine{})

	h := a.create(bogusRef{id: 1}, 64, 64, 1)
	if h != 0 {
		t.Fatalf("create with unsupported ref returned handle %d, want 0", h)
	}
	target := &errors.Error{Phase: errors.PhaseSurface, Kind: errors.KindSurfaceUnavailable}
	if !stderrors.Is(a.lastCreateErr(), target) {
		t.Errorf("create error = %v, want surface_unavailable", a.lastCreateErr())
	}
}

func TestArena_SurfaceConflict(t *testing.T) {
	a := newArena()
	a.bind(func() engine.Engine { return &fakeEngine{} })
	px := surface.NewPixels(64, 64)

	h := a.create(px, 64, 64, 1)
	if h == 0 {
		t.Fatalf("first create failed: %v", a.lastCreateErr())
	}

	if h2 := a.create(px, 64, 64, 1); h2 != 0 {
		t.Fatalf("second create on the same surface returned handle %d, want 0", h2)
	}
	target := &errors.Error{Phase: errors.PhaseCreate, Kind: errors.KindSurfaceConflict}
	if !stderrors.Is(a.lastCreateErr(), target) {
		t.Errorf("create error = %v, want surface_conflict", a.lastCreateErr())
	}

	// Destroy releases ownership: the same reference is creatable again.
	a.destroy(h)
	h3 := a.create(px, 64, 64, 1)
	if h3 == 0 {
		t.Fatalf("create after destroy failed: %v", a.lastCreateErr())
	}
	a.destroy(h3)
}

func TestArena_FrameFailureStatus(t *testing.T) {
	eng := &fakeEngine{frameErr: stderrors.New("shader blew up")}
	a := boundArena(t, eng)

	h := a.create(nil, 64, 64, 1)
	if h == 0 {
		t.Fatalf("create failed: %v", a.lastCreateErr())
	}
	defer a.destroy(h)

	if st := a.update(h); st != StatusEngineFailure {
		t.Fatalf("update status = %v, want engine_failure", st)
	}
	if msg := a.lastError(h); msg == "" {
		t.Error("last error is empty after a failed frame")
	}
}

func TestArena_ResizeIdempotent(t *testing.T) {
	eng := &fakeEngine{}
	a := boundArena(t, eng)
	px := surface.NewPixels(100, 100)

	h := a.create(px, 100, 100, 1)
	if h == 0 {
		t.Fatalf("create failed: %v", a.lastCreateErr())
	}
	defer a.destroy(h)
	gen := px.Generation()

	// Same dimensions twice: neither the engine nor the target observes
	// a reconfiguration.
	a.resize(h, 100, 100, 1)
	a.resize(h, 100, 100, 1)
	if len(eng.resizes) != 0 {
		t.Errorf("engine saw %d resizes for identical dimensions, want 0", len(eng.resizes))
	}
	if px.Generation() != gen {
		t.Errorf("surface generation advanced to %d on identical resize", px.Generation())
	}

	a.resize(h, 200, 150, 2)
	a.resize(h, 200, 150, 2)
	if len(eng.resizes) != 1 || eng.resizes[0] != "200x150@2" {
		t.Errorf("engine resizes = %v, want [200x150@2]", eng.resizes)
	}
	if px.Generation() != gen+1 {
		t.Errorf("surface generation = %d, want %d", px.Generation(), gen+1)
	}
}

func TestArena_TouchOrderAndUnknownPhase(t *testing.T) {
	eng := &fakeEngine{}
	a := boundArena(t, eng)

	h := a.create(nil, 64, 64, 1)
	if h == 0 {
		t.Fatalf("create failed: %v", a.lastCreateErr())
	}
	defer a.destroy(h)

	a.touchEvent(h, input.PhaseStarted, 10, 10, 1)
	a.touchEvent(h, input.PhaseMoved, 11, 11, 1)
	a.touchEvent(h, input.Phase(9), 0, 0, 2) // unknown, dropped
	a.touchEvent(h, input.PhaseEnded, 12, 12, 1)

	if st := a.update(h); st != StatusOK {
		t.Fatalf("update status = %v", st)
	}

	want := []input.Phase{input.PhaseStarted, input.PhaseMoved, input.PhaseEnded}
	if len(eng.touches) != len(want) {
		t.Fatalf("engine drained %d touches, want %d", len(eng.touches), len(want))
	}
	for i, ev := range eng.touches {
		if ev.Phase != want[i] {
			t.Errorf("touch %d phase = %v, want %v", i, ev.Phase, want[i])
		}
		if ev.ID != 1 {
			t.Errorf("touch %d id = %d, want 1", i, ev.ID)
		}
	}
}

func TestArena_MessageOrdering(t *testing.T) {
	eng := &fakeEngine{}
	a := boundArena(t, eng)

	h := a.create(nil, 64, 64, 1)
	if h == 0 {
		t.Fatalf("create failed: %v", a.lastCreateErr())
	}
	defer a.destroy(h)

	// Engine-to-host direction drains FIFO, one payload per poll.
	eng.env.Messages.Send([]byte("A"))
	eng.env.Messages.Send([]byte("B"))

	first, ok := a.receiveMessage(h)
	if !ok || string(first) != "A" {
		t.Fatalf("first poll = %q, %v; want A", first, ok)
	}
	second, ok := a.receiveMessage(h)
	if !ok || string(second) != "B" {
		t.Fatalf("second poll = %q, %v; want B", second, ok)
	}
	if _, ok := a.receiveMessage(h); ok {
		t.Error("third poll returned a payload, want none")
	}

	// Host-to-engine direction buffers until the engine polls.
	a.sendMessage(h, []byte("tint"))
	payload, ok := eng.env.Messages.Receive()
	if !ok || string(payload) != "tint" {
		t.Errorf("engine received %q, %v; want tint", payload, ok)
	}
}

func TestArena_SlotReuse(t *testing.T) {
	a := newArena()
	a.bind(func() engine.Engine { return &fakeEngine{} })

	h1 := a.create(nil, 64, 64, 1)
	if h1 == 0 {
		t.Fatalf("create failed: %v", a.lastCreateErr())
	}
	a.destroy(h1)

	h2 := a.create(nil, 64, 64, 1)
	if h2 != h1 {
		t.Errorf("freed slot not reused: second handle %d, first %d", h2, h1)
	}
	a.destroy(h2)
}

func TestBridge_PackageAPI(t *testing.T) {
	eng := &fakeEngine{}
	Bind(func() engine.Engine { return eng })

	px := surface.NewPixels(32, 32)
	h := Create(px, 32, 32, 1)
	if h == 0 {
		t.Fatalf("create failed: %v", CreateError())
	}
	if CreateError() != nil {
		t.Errorf("CreateError after success = %v, want nil", CreateError())
	}

	TouchEvent(h, input.PhaseStarted, 5, 5, 1)
	SendMessage(h, []byte("ping"))
	if st := Update(h); st != StatusOK {
		t.Fatalf("update status = %v: %s", st, LastError(h))
	}
	if _, ok := ReceiveMessage(h); ok {
		t.Error("received a payload the engine never sent")
	}

	Destroy(h)
	if st := Update(h); st != StatusInvalidHandle {
		t.Errorf("update after destroy = %v, want invalid_handle", st)
	}
}

func TestStatus_String(t *testing.T) {
	cases := map[Status]string{
		StatusOK:            "ok",
		StatusInvalidHandle: "invalid_handle",
		StatusEngineFailure: "engine_failure",
		Status(42):          "unknown",
	}
	for st, want := range cases {
		if got := st.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", uint32(st), got, want)
		}
	}
}
