package warp

import (
	"errors"
	"fmt"
)

// Kind classifies a failure returned from the core, per §7. Callers
// that need to branch on outcome should use errors.As against *Error
// and switch on Kind rather than matching message text.
type Kind int

const (
	// ConfigInvalid: options missing or out of range.
	ConfigInvalid Kind = iota
	// OutOfMemory: a buffer allocation failed.
	OutOfMemory
	// IOFailure: a raster read or write failed.
	IOFailure
	// TransformFailure: the transformer refused the whole batch, or
	// too many sample points failed (fewer than 10 survived).
	TransformFailure
	// Aborted: the progress callback requested cancellation.
	Aborted
	// Internal: an internal invariant was violated (e.g. an unknown
	// mask name was requested).
	Internal
)

func (k Kind) String() string {
	switch k {
	case ConfigInvalid:
		return "ConfigInvalid"
	case OutOfMemory:
		return "OutOfMemory"
	case IOFailure:
		return "IOFailure"
	case TransformFailure:
		return "TransformFailure"
	case Aborted:
		return "Aborted"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the diagnostic the core returns for every failure it
// detects itself. An error returned by the Kernel collaborator is
// passed back unchanged, so it carries a Kind only if the kernel built
// it with NewError.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("warp: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("warp: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// newErr builds an *Error, optionally wrapping cause.
func newErr(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// NewError is the exported form of newErr, for use by collaborator
// implementations (kernel, raster) that need to surface a diagnostic
// with one of the Kinds above rather than a bare error.
func NewError(kind Kind, cause error, format string, args ...any) *Error {
	return newErr(kind, cause, format, args...)
}

// KindOf extracts the Kind of err if it (or something it wraps) is a
// *Error, and false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
