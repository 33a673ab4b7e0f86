package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which bridge operation the error occurred in
type Phase string

const (
	PhaseBind    Phase = "bind"    // engine factory registration
	PhaseCreate  Phase = "create"  // instance creation
	PhaseFrame   Phase = "frame"   // per-frame update
	PhaseResize  Phase = "resize"  // surface reconfiguration
	PhaseInput   Phase = "input"   // touch forwarding
	PhaseMessage Phase = "message" // channel send/receive
	PhaseDestroy Phase = "destroy" // instance teardown
	PhaseSurface Phase = "surface" // surface acquisition
	PhaseLoad    Phase = "load"    // cartridge module loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidHandle      Kind = "invalid_handle"
	KindNotRunning         Kind = "not_running"
	KindDestroyed          Kind = "destroyed"
	KindSurfaceUnavailable Kind = "surface_unavailable"
	KindSurfaceConflict    Kind = "surface_conflict"
	KindEngineUnbound      Kind = "engine_unbound"
	KindEngineFailure      Kind = "engine_failure"
	KindBadPayload         Kind = "bad_payload"
	KindInvalidData        Kind = "invalid_data"
	KindInvalidInput       Kind = "invalid_input"
	KindMissingExport      Kind = "missing_export"
	KindInstantiation      Kind = "instantiation"
	KindCanceled           Kind = "canceled"
)

// Error is the structured error type used throughout the SDK
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Handle uint64
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Handle != 0 {
		fmt.Fprintf(&b, " on handle %d", e.Handle)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Handle sets the offending handle
func (b *Builder) Handle(h uint64) *Builder {
	b.err.Handle = h
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidHandle creates an invalid/expired handle error
func InvalidHandle(phase Phase, handle uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Handle: handle,
		Detail: "handle does not name a live instance",
	}
}

// NotRunning creates a wrong-state error for calls outside the Running state
func NotRunning(phase Phase, handle uint64, state string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotRunning,
		Handle: handle,
		Detail: fmt.Sprintf("instance is %s, not running", state),
	}
}

// Destroyed creates an error for calls on an already-destroyed instance
func Destroyed(phase Phase, handle uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDestroyed,
		Handle: handle,
		Detail: "instance already destroyed",
	}
}

// SurfaceUnavailable creates a surface acquisition failure.
// This is the distinguishable failed-to-start cause: no instance exists.
func SurfaceUnavailable(cause error) *Error {
	return &Error{
		Phase:  PhaseSurface,
		Kind:   KindSurfaceUnavailable,
		Detail: "host did not provide a usable surface",
		Cause:  cause,
	}
}

// SurfaceConflict creates an error for a second create against a surface
// reference that already backs a live instance
func SurfaceConflict(handle uint64) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindSurfaceConflict,
		Handle: handle,
		Detail: "surface already owned by a live instance",
	}
}

// EngineUnbound creates an error for create before an engine factory is bound
func EngineUnbound() *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindEngineUnbound,
		Detail: "no engine factory bound",
	}
}

// EngineFailure wraps an error surfaced by the engine itself
func EngineFailure(phase Phase, handle uint64, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindEngineFailure,
		Handle: handle,
		Detail: "engine reported failure",
		Cause:  cause,
	}
}

// BadPayload creates an unrecognized-payload error carrying the byte count.
// Receivers report it and continue; it never aborts a frame.
func BadPayload(phase Phase, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBadPayload,
		Detail: fmt.Sprintf("unexpected payload length: %d bytes", got),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Instantiation creates an engine instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindInstantiation,
		Detail: "start engine instance",
		Cause:  cause,
	}
}

// Load creates a cartridge loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Canceled wraps a context cancellation observed during a bridge operation
func Canceled(phase Phase, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindCanceled,
		Cause: cause,
	}
}

// MissingExportsError is returned when a cartridge module lacks required
// lifecycle exports
type MissingExportsError struct {
	Exports []string
}

// NewMissingExportsError creates an error from the list of absent export names
func NewMissingExportsError(exports []string) *MissingExportsError {
	return &MissingExportsError{Exports: exports}
}

func (e *MissingExportsError) Error() string {
	if len(e.Exports) == 0 {
		return "[load] missing_export: no exports specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "missing %d required export(s):", len(e.Exports))
	for _, name := range e.Exports {
		b.WriteString("\n  - ")
		b.WriteString(name)
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *MissingExportsError) Is(target error) bool {
	_, ok := target.(*MissingExportsError)
	return ok
}
