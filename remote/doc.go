// Package remote is a development viewer for embedded instances: an HTTP
// server that mirrors the live surface to websocket clients as PNG frames
// and injects their touch input back through the bridge.
//
// It fills the role a device screen fills in production: point a browser
// or a viewer tool at GET /view, watch the engine render, drag to pan.
// Frames flow downstream as binary websocket messages at a configurable
// rate, optionally downscaled; touches flow upstream as JSON
// {"phase":0,"x":12.5,"y":40,"id":1} messages, mapped through the same
// multi-touch fan-out the platform hosts use.
//
// The viewer is glue, not transport for the engine contract: it rides on
// the public bridge entry points and a host-owned surface.Pixels store.
package remote
