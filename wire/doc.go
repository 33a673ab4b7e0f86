// Package wire encodes and decodes the well-known channel payloads.
//
// The message channel carries opaque bytes; interpretation is a contract
// between specific host and engine code. Two payload kinds are part of
// that contract: a row-major 4x4 float32 matrix (64 bytes) and a float
// RGBA vector (16 bytes), both IEEE-754 little-endian.
//
// Classify maps a payload length to its kind so receivers can pick a
// decoder; unknown lengths decode to a bad-payload error carrying the byte
// count, which receivers report and skip rather than fail on. Transit is
// bit-exact in both directions.
package wire
