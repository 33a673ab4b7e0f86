// Package canvas is a software render engine for the bridge: a scene of
// colored shape nodes drawn with gogpu/gg into the surface target's pixel
// buffer, with a drag-to-pan camera.
//
// It is a complete engine.Engine built on engine.Core, and the reference
// implementation of the host/engine message contract: every camera pan
// emits a 64-byte 4x4 matrix to the host, and a 16-byte RGBA payload from
// the host recolors the scene's designated node. Payloads of any other
// length are logged with their byte count and ignored.
//
// Node geometry is fractional: positions are fractions of the view size
// and radii fractions of its smaller dimension, so a scene renders at any
// surface resolution without adjustment.
package canvas
