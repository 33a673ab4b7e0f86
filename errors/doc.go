// Package errors provides structured error types for the engine-bridge SDK.
//
// Errors are categorized by Phase (which bridge operation failed) and Kind
// (error category). The Error type carries the offending handle when one is
// known, plus a detail message and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseFrame, errors.KindEngineFailure).
//		Handle(uint64(h)).
//		Cause(frameErr).
//		Detail("scene update failed at frame %d", tick.Index).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidHandle(errors.PhaseFrame, uint64(h))
//	err := errors.SurfaceUnavailable(cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// Matching with errors.Is compares Phase and Kind, so callers can test for a
// category without caring about handle or detail text.
package errors
