package renderer

import (
	"errors"
	"fmt"
	"strings"
)

// SurfaceErrorKind classifies a failed frame.
type SurfaceErrorKind int

const (
	// SurfaceErrorOther is any failure that is not one of the kinds below.
	SurfaceErrorOther SurfaceErrorKind = iota

	// SurfaceErrorLost means the surface must be recreated.
	SurfaceErrorLost

	// SurfaceErrorOutdated means the surface no longer matches the window and must be recreated.
	SurfaceErrorOutdated

	// SurfaceErrorTimeout means no texture became available in time.
	SurfaceErrorTimeout

	// SurfaceErrorOutOfMemory means the driver ran out of memory.
	SurfaceErrorOutOfMemory
)

// Sentinels matched by SurfaceError.Is, one per kind.
var (
	ErrSurfaceLost        = errors.New("surface lost")
	ErrSurfaceOutdated    = errors.New("surface outdated")
	ErrSurfaceTimeout     = errors.New("surface timeout")
	ErrSurfaceOutOfMemory = errors.New("surface out of memory")
	ErrSurfaceOther       = errors.New("surface error")
)

func (k SurfaceErrorKind) String() string {
	return k.sentinel().Error()
}

// Recoverable reports whether recreating and reconfiguring the surface clears the error.
func (k SurfaceErrorKind) Recoverable() bool {
	return k == SurfaceErrorLost || k == SurfaceErrorOutdated
}

func (k SurfaceErrorKind) sentinel() error {
	switch k {
	case SurfaceErrorLost:
		return ErrSurfaceLost
	case SurfaceErrorOutdated:
		return ErrSurfaceOutdated
	case SurfaceErrorTimeout:
		return ErrSurfaceTimeout
	case SurfaceErrorOutOfMemory:
		return ErrSurfaceOutOfMemory
	default:
		return ErrSurfaceOther
	}
}

// SurfaceError is returned by SurfaceContext.RenderFrame. It matches the sentinel of its kind
// with errors.Is and unwraps to the backend error, if any.
type SurfaceError struct {
	Kind SurfaceErrorKind
	Err  error
}

func (e *SurfaceError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}

func (e *SurfaceError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newSurfaceError(kind SurfaceErrorKind, err error) *SurfaceError {
	return &SurfaceError{Kind: kind, Err: err}
}

// ClassifySurfaceError maps a texture acquisition failure to a SurfaceError.
// The wgpu binding reports the acquisition status only in the error text.
//
// Parameters:
//   - err: the error returned by the backend; must not be nil
//
// Returns:
//   - *SurfaceError: the classified error
func ClassifySurfaceError(err error) *SurfaceError {
	var se *SurfaceError
	if errors.As(err, &se) {
		return se
	}
	for _, kind := range []SurfaceErrorKind{SurfaceErrorLost, SurfaceErrorOutdated, SurfaceErrorTimeout, SurfaceErrorOutOfMemory} {
		if errors.Is(err, kind.sentinel()) {
			return newSurfaceError(kind, err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "outdated"):
		return newSurfaceError(SurfaceErrorOutdated, err)
	case strings.Contains(msg, "lost"):
		return newSurfaceError(SurfaceErrorLost, err)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return newSurfaceError(SurfaceErrorTimeout, err)
	case strings.Contains(msg, "out of memory"), strings.Contains(msg, "outofmemory"):
		return newSurfaceError(SurfaceErrorOutOfMemory, err)
	default:
		return newSurfaceError(SurfaceErrorOther, err)
	}
}
