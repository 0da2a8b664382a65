package pulse

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMapFailed is returned if a host visible buffer could not be mapped for reading.
	ErrMapFailed = errors.New("map buffer for reading")

	// ErrUnsupported is returned when the device lacks a feature.
	ErrUnsupported = errors.New("not supported by device")
)

type SurfaceErrorKind int

const (
	// SurfaceLost means the surface must be reconfigured before the next frame.
	SurfaceLost SurfaceErrorKind = iota

	// SurfaceOutOfMemory is fatal.
	SurfaceOutOfMemory

	// SurfaceOther covers timeouts and anything else that might go away on the next frame.
	SurfaceOther
)

func (k SurfaceErrorKind) String() string {
	switch k {
	case SurfaceLost:
		return "Lost"
	case SurfaceOutOfMemory:
		return "OutOfMemory"
	default:
		return "Other"
	}
}

// SurfaceError is returned when the next surface texture could not be acquired.
type SurfaceError struct {
	Kind SurfaceErrorKind
	Err  error
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("surface %s: %s", e.Kind, e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}

// SurfaceErrorKindOf returns the kind of the SurfaceError in err's chain.
// Errors that are not surface errors are reported as SurfaceOther.
func SurfaceErrorKindOf(err error) SurfaceErrorKind {
	var surfaceErr *SurfaceError
	if errors.As(err, &surfaceErr) {
		return surfaceErr.Kind
	}

	return SurfaceOther
}

// classifySurfaceError maps the status reported by the binding
// when acquiring the surface texture to a SurfaceError.
func classifySurfaceError(err error) *SurfaceError {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "device"):
		return &SurfaceError{Kind: SurfaceOther, Err: err}

	case strings.Contains(msg, "lost"), strings.Contains(msg, "outdated"):
		return &SurfaceError{Kind: SurfaceLost, Err: err}

	case strings.Contains(msg, "memory"):
		return &SurfaceError{Kind: SurfaceOutOfMemory, Err: err}

	default:
		return &SurfaceError{Kind: SurfaceOther, Err: err}
	}
}

// unusableSurfaceTexture reports a surface texture that was acquired without
// an error but cannot be used. The binding does not report a lost or outdated
// surface on acquisition, it hands out an invalid texture instead.
func unusableSurfaceTexture(err error) *SurfaceError {
	return &SurfaceError{Kind: SurfaceLost, Err: fmt.Errorf("create surface view: %w", err)}
}
