// Package channel is the bidirectional byte message channel between a host
// and its embedded engine.
//
// A Pair holds one unbounded FIFO queue per direction. Each side gets an
// Endpoint: Send is fire-and-forget, Receive polls at most one payload per
// call. Delivery is at-most-once in submission order, with no
// acknowledgment and no retries; this is a best-effort control channel,
// not a messaging protocol.
//
// Payloads are opaque bytes. The channel enforces no schema; the wire
// package holds the codecs for the well-known payload kinds.
//
// # Thread Safety
//
// Queues are mutex-guarded, so a host that sends from a thread other than
// the one driving frames does not corrupt the channel. The expected idiom
// is still single-thread confinement per side.
package channel
