package canvas

import (
	"math"
	"time"

	"github.com/gogpu/gg"
	"go.uber.org/zap"

	"github.com/viewcell/engine-bridge/engine"
	"github.com/viewcell/engine-bridge/input"
	"github.com/viewcell/engine-bridge/wire"
)

// New creates a canvas engine rendering the scene. The returned engine is
// single-use: one Startup/Shutdown cycle per instance, like every
// bridge-managed engine.
func New(scene *Scene) engine.Engine {
	return engine.NewCore(&app{scene: scene})
}

// app implements engine.App: Core handles queue draining and delivery
// order, app handles drawing and the message contract.
type app struct {
	scene   *Scene
	dc      *gg.Context
	camX    float64
	camY    float64
	elapsed time.Duration
	dragAt  *[2]float32
}

func (a *app) OnStart(env *engine.Env) error {
	w, h := env.Target.Bounds()
	a.dc = gg.NewContext(int(w), int(h))
	env.Log.Info("canvas engine started",
		zap.Uint32("width", w),
		zap.Uint32("height", h),
		zap.Int("nodes", len(a.scene.Nodes)))
	return nil
}

// OnTouch pans the camera while a contact drags. A Started contact resets
// the drag origin; every subsequent event with a known origin moves the
// camera by the position delta and emits the camera matrix to the host.
func (a *app) OnTouch(env *engine.Env, ev input.Touch) {
	switch ev.Phase {
	case input.PhaseStarted:
		a.dragAt = nil
	case input.PhaseEnded, input.PhaseCanceled:
		if a.dragAt != nil {
			a.pan(env, ev)
		}
		a.dragAt = nil
		return
	default:
		if a.dragAt != nil {
			a.pan(env, ev)
		}
	}
	a.dragAt = &[2]float32{ev.X, ev.Y}
}

func (a *app) pan(env *engine.Env, ev input.Touch) {
	a.camX += float64(ev.X - a.dragAt[0])
	a.camY += float64(ev.Y - a.dragAt[1])
	env.Messages.Send(wire.EncodeMatrix(a.cameraMatrix()))
}

// cameraMatrix is the 2D camera pan embedded in a row-major 4x4: the
// translation sits in the last column.
func (a *app) cameraMatrix() wire.Matrix {
	m := wire.Identity()
	m[3] = float32(a.camX)
	m[7] = float32(a.camY)
	return m
}

// OnMessage applies the 16-byte RGBA contract: recolor every node marked
// Recolor. Anything else is reported with its byte count and ignored.
func (a *app) OnMessage(env *engine.Env, payload []byte) {
	if wire.Classify(payload) != wire.KindColor {
		env.Log.Warn("received message with unexpected length",
			zap.Int("bytes", len(payload)))
		return
	}

	color, err := wire.DecodeColor(payload)
	if err != nil {
		env.Log.Warn("color payload rejected", zap.Error(err))
		return
	}

	env.Log.Info("received color from host",
		zap.Float32("r", color[0]),
		zap.Float32("g", color[1]),
		zap.Float32("b", color[2]),
		zap.Float32("a", color[3]))

	for i := range a.scene.Nodes {
		if a.scene.Nodes[i].Recolor {
			a.scene.Nodes[i].Color = color
		}
	}
}

func (a *app) OnFrame(env *engine.Env, tick engine.Tick) error {
	a.elapsed += tick.Delta

	w, h := env.Target.Bounds()
	if a.dc.Width() != int(w) || a.dc.Height() != int(h) {
		if err := a.dc.Resize(int(w), int(h)); err != nil {
			return err
		}
	}

	bg := a.scene.Background
	a.dc.ClearWithColor(gg.RGBA{
		R: float64(bg[0]), G: float64(bg[1]), B: float64(bg[2]), A: float64(bg[3]),
	})

	a.dc.Push()
	a.dc.Translate(a.camX, a.camY)
	for i := range a.scene.Nodes {
		if err := a.drawNode(&a.scene.Nodes[i], float64(w), float64(h)); err != nil {
			a.dc.Pop()
			return err
		}
	}
	a.dc.Pop()

	return env.Target.Present(a.dc.ResizeTarget().Data())
}

func (a *app) drawNode(n *Node, w, h float64) error {
	short := math.Min(w, h)
	cx, cy := n.X*w, n.Y*h
	if n.OrbitR > 0 {
		angle := n.OrbitSpeed * a.elapsed.Seconds()
		cx += n.OrbitR * short * math.Cos(angle)
		cy += n.OrbitR * short * math.Sin(angle)
	}

	a.dc.SetRGBA(float64(n.Color[0]), float64(n.Color[1]), float64(n.Color[2]), float64(n.Color[3]))

	switch n.Shape {
	case ShapeRect:
		nw, nh := n.W*w, n.H*h
		a.dc.DrawRectangle(cx-nw/2, cy-nh/2, nw, nh)
	case ShapeCircle:
		a.dc.DrawCircle(cx, cy, n.R*short)
	case ShapePolygon:
		a.dc.DrawRegularPolygon(n.Sides, cx, cy, n.R*short, 0)
	}
	return a.dc.Fill()
}

func (a *app) OnShutdown(env *engine.Env) {
	if a.dc != nil {
		if err := a.dc.Close(); err != nil {
			env.Log.Warn("canvas context close failed", zap.Error(err))
		}
		a.dc = nil
	}
	env.Log.Info("canvas engine stopped")
}
