package canvas

import "github.com/viewcell/engine-bridge/wire"

// Shape selects a node's geometry.
type Shape uint8

const (
	ShapeRect Shape = iota
	ShapeCircle
	ShapePolygon
)

// Node is one drawable in a scene. X and Y are the node center as
// fractions of the view width and height; W and H (rects) are fractions
// of the view width and height, R (circles and polygons) a fraction of
// the smaller view dimension.
type Node struct {
	Name  string
	Shape Shape
	X, Y  float64
	W, H  float64
	R     float64
	Sides int
	Color wire.Color

	// Recolor marks the node 16-byte host payloads repaint.
	Recolor bool

	// OrbitR and OrbitSpeed animate the node on a circle around (X, Y):
	// OrbitR is the orbit radius as a fraction of the smaller view
	// dimension, OrbitSpeed the angular velocity in radians per second.
	OrbitR     float64
	OrbitSpeed float64
}

// Scene is a background color and the nodes drawn over it, in order.
type Scene struct {
	Background wire.Color
	Nodes      []Node
}

// DemoScene is the scene the examples ship: a ground plane, a recolorable
// centerpiece, and an orbiting accent.
func DemoScene() *Scene {
	return &Scene{
		Background: wire.Color{0.09, 0.09, 0.12, 1},
		Nodes: []Node{
			{
				Name:  "ground",
				Shape: ShapeRect,
				X:     0.5, Y: 0.85,
				W: 1.0, H: 0.3,
				Color: wire.Color{0.1, 0.2, 0.1, 1},
			},
			{
				Name:  "centerpiece",
				Shape: ShapeRect,
				X:     0.5, Y: 0.55,
				W: 0.25, H: 0.25,
				Color:   wire.Color{0.5, 0.4, 0.3, 1},
				Recolor: true,
			},
			{
				Name:  "accent",
				Shape: ShapeCircle,
				X:     0.5, Y: 0.55,
				R:     0.06,
				Color: wire.Color{0.1, 0.4, 0.8, 1},
				OrbitR: 0.25, OrbitSpeed: 1.2,
			},
		},
	}
}
