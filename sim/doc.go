// Package sim runs scripted scenarios against the real bridge: a YAML
// file selects the engine, the view dimensions, a frame budget, and
// events (touches, payloads, resizes) keyed by frame index; the Runner
// drives the whole thing headlessly and reports what happened.
//
// Scenarios are the test bench for embedded apps: the same engine a
// mobile host embeds can be exercised in CI or from the bridge-sim CLI
// without a device.
//
//	view:
//	  width: 390
//	  height: 844
//	  scale: 3.0
//	engine:
//	  kind: canvas
//	frames: 120
//	events:
//	  - frame: 10
//	    touch: {phase: 0, x: 100, y: 200, id: 1}
//	  - frame: 11
//	    touch: {phase: 1, x: 120, y: 200, id: 1}
//	  - frame: 30
//	    send: {color: [1, 0, 0, 1]}
package sim
