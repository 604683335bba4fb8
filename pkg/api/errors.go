package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the aborts a build step can end with.
type ErrorKind int

const (
	// ConfigurationError: missing installation, missing executable or
	// unusable step configuration.
	ConfigurationError ErrorKind = iota + 1
	// ExecutionError: the build tool ran and exited with a non-zero status.
	ExecutionError
)

func (k ErrorKind) String() string {
	switch k {
	case ConfigurationError:
		return "configuration error"
	case ExecutionError:
		return "execution error"
	default:
		return "unknown error"
	}
}

// AbortError terminates a build step with a user-facing message. Any other
// error returned by a build step is a launch error and is reported as-is.
type AbortError struct {
	Kind ErrorKind
	Msg  string
}

func (e *AbortError) Error() string {
	return e.Msg
}

// Abortf returns an AbortError of the given kind.
func Abortf(kind ErrorKind, format string, args ...interface{}) *AbortError {
	return &AbortError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IsAbort reports whether err is, or wraps, an AbortError.
func IsAbort(err error) bool {
	var ae *AbortError
	return errors.As(err, &ae)
}

// AbortKind returns the kind of the AbortError in err's chain, if any.
func AbortKind(err error) (ErrorKind, bool) {
	var ae *AbortError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}
