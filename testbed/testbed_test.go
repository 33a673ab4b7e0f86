// Package testbed exercises the bridge end to end through its exported
// surface only: bind, create, drive, exchange payloads, destroy. These
// tests embed the real canvas engine; the cartridge variants pick up a
// compiled module from testdata when one is present.
package testbed

import (
	"os"
	"testing"
	"time"

	"github.com/viewcell/engine-bridge/bridge"
	"github.com/viewcell/engine-bridge/canvas"
	"github.com/viewcell/engine-bridge/cartridge"
	"github.com/viewcell/engine-bridge/engine"
	"github.com/viewcell/engine-bridge/host"
	"github.com/viewcell/engine-bridge/input"
	"github.com/viewcell/engine-bridge/surface"
	"github.com/viewcell/engine-bridge/wire"
)

func createCanvas(t *testing.T, width, height uint32) (bridge.Handle, *surface.Pixels) {
	t.Helper()

	bridge.Bind(func() engine.Engine { return canvas.New(canvas.DemoScene()) })
	px := surface.NewPixels(width, height)
	h := bridge.Create(px, width, height, 1)
	if h == 0 {
		t.Fatalf("create: %v", bridge.CreateError())
	}
	return h, px
}

func pixelAt(px *surface.Pixels, x, y uint32) [4]byte {
	w, _ := px.Bounds()
	pix := px.Pix()
	off := (int(y)*int(w) + int(x)) * 4
	return [4]byte{pix[off], pix[off+1], pix[off+2], pix[off+3]}
}

func TestBridge_CanvasLifecycle(t *testing.T) {
	h, px := createCanvas(t, 64, 64)

	if st := bridge.Update(h); st != bridge.StatusOK {
		t.Fatalf("first frame: %s (%s)", st, bridge.LastError(h))
	}
	if px.Generation() == 0 {
		t.Fatal("no frame presented to the surface")
	}

	// A drag produces a camera matrix on the engine-to-host channel.
	bridge.TouchEvent(h, input.PhaseStarted, 10, 10, 1)
	bridge.TouchEvent(h, input.PhaseMoved, 18, 6, 1)
	if st := bridge.Update(h); st != bridge.StatusOK {
		t.Fatalf("drag frame: %s", st)
	}
	payload, ok := bridge.ReceiveMessage(h)
	if !ok {
		t.Fatal("no payload after drag")
	}
	mat, err := wire.DecodeMatrix(payload)
	if err != nil {
		t.Fatalf("decode matrix: %v", err)
	}
	if mat[3] != 8 || mat[7] != -4 {
		t.Errorf("camera translation = (%g, %g), want (8, -4)", mat[3], mat[7])
	}

	// Recoloring changes the centerpiece pixels; a junk payload does not.
	// The camera is panned by (8, -4) now, so the centerpiece center sits
	// at (40, 31) instead of (32, 35).
	bridge.TouchEvent(h, input.PhaseEnded, 18, 6, 1)
	bridge.Update(h)
	before := pixelAt(px, 40, 31)
	bridge.SendMessage(h, wire.EncodeColor(wire.Color{1, 0, 0, 1}))
	if st := bridge.Update(h); st != bridge.StatusOK {
		t.Fatalf("recolor frame: %s", st)
	}
	after := pixelAt(px, 40, 31)
	if after == before {
		t.Errorf("centerpiece pixel %v unchanged by color payload", after)
	}
	bridge.SendMessage(h, []byte{0xff, 0xee})
	if st := bridge.Update(h); st != bridge.StatusOK {
		t.Fatalf("junk payload broke the frame: %s", st)
	}

	bridge.Resize(h, 48, 96, 2)
	if st := bridge.Update(h); st != bridge.StatusOK {
		t.Fatalf("post-resize frame: %s", st)
	}
	if w, hp := px.Bounds(); w != 48 || hp != 96 {
		t.Errorf("surface is %dx%d after resize, want 48x96", w, hp)
	}

	bridge.Destroy(h)
	if st := bridge.Update(h); st != bridge.StatusInvalidHandle {
		t.Errorf("update after destroy = %s, want %s", st, bridge.StatusInvalidHandle)
	}
}

func TestBridge_DriverLoop(t *testing.T) {
	h, _ := createCanvas(t, 32, 32)

	var payloads int
	driver := host.NewDriver(h, 240, func([]byte) { payloads++ })
	driver.Start()

	bridge.TouchEvent(h, input.PhaseStarted, 5, 5, 1)
	bridge.TouchEvent(h, input.PhaseMoved, 9, 9, 1)
	time.Sleep(80 * time.Millisecond)

	driver.Stop()
	bridge.Destroy(h)

	if driver.Frames() == 0 {
		t.Error("driver ran no frames")
	}
	if driver.Status() != bridge.StatusOK {
		t.Errorf("driver stopped with %s: %s", driver.Status(), driver.LastError())
	}
	if payloads == 0 {
		t.Error("drag produced no payloads through the driver")
	}
}

func TestBridge_TwoInstances(t *testing.T) {
	bridge.Bind(func() engine.Engine { return canvas.New(canvas.DemoScene()) })

	pxA := surface.NewPixels(32, 32)
	a := bridge.Create(pxA, 32, 32, 1)
	if a == 0 {
		t.Fatalf("create a: %v", bridge.CreateError())
	}
	pxB := surface.NewPixels(48, 48)
	b := bridge.Create(pxB, 48, 48, 1)
	if b == 0 {
		t.Fatalf("create b: %v", bridge.CreateError())
	}
	defer bridge.Destroy(b)
	defer bridge.Destroy(a)

	bridge.SendMessage(a, wire.EncodeColor(wire.Color{0, 1, 0, 1}))
	bridge.Update(a)
	bridge.Update(b)

	// Only instance A received the recolor.
	if got := pixelAt(pxA, 16, 17); got[1] <= got[0] {
		t.Errorf("instance a centerpiece %v not recolored green", got)
	}
	if got := pixelAt(pxB, 24, 26); got[1] > 200 {
		t.Errorf("instance b centerpiece %v recolored by a's payload", got)
	}
}

func TestBridge_CartridgeLifecycle(t *testing.T) {
	const fixture = "testdata/demo.wasm"
	if _, err := os.Stat(fixture); err != nil {
		t.Skipf("%s not found; build it with tinygo or rustc to run this test", fixture)
	}

	eng, err := cartridge.Load(fixture)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	bridge.Bind(func() engine.Engine { return eng })

	px := surface.NewPixels(64, 64)
	h := bridge.Create(px, 64, 64, 1)
	if h == 0 {
		t.Fatalf("create: %v", bridge.CreateError())
	}
	defer bridge.Destroy(h)

	bridge.TouchEvent(h, input.PhaseStarted, 8, 8, 1)
	bridge.SendMessage(h, wire.EncodeColor(wire.Color{1, 1, 1, 1}))
	for i := 0; i < 3; i++ {
		if st := bridge.Update(h); st != bridge.StatusOK {
			t.Fatalf("frame %d: %s (%s)", i, st, bridge.LastError(h))
		}
	}
}
