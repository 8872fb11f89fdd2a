package errors

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
)

// ClassifyError classifies raw platform adapter errors into power error codes
func ClassifyError(err error) ErrorCode {
	if err == nil {
		return ErrCodeUnknown
	}

	// First, try type assertions for more accurate classification
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return ErrCodePlatformCall
	}

	if errors.Is(err, exec.ErrNotFound) {
		// The inhibitor binary (systemd-inhibit, caffeinate) is absent;
		// the platform offers no usable mechanism.
		return ErrCodeUnsupported
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ErrCodePlatformCall
	}

	// Handle standard library errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeUnexpected
	case errors.Is(err, context.Canceled):
		return ErrCodeUnexpected
	}

	// Fall back to string-based classification for wrapped adapter errors
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "not found"):
		return ErrCodeUnsupported
	case strings.Contains(errStr, "not supported"):
		return ErrCodeUnsupported
	case strings.Contains(errStr, "not implemented"):
		return ErrCodeUnsupported
	case strings.Contains(errStr, "access is denied"):
		return ErrCodePlatformCall
	case strings.Contains(errStr, "permission denied"):
		return ErrCodePlatformCall
	case strings.Contains(errStr, "failed"):
		return ErrCodePlatformCall
	default:
		return ErrCodeUnknown
	}
}

// WrapPlatformError wraps a platform adapter error with power error context
func WrapPlatformError(op string, err error) error {
	if err == nil {
		return nil
	}

	code := ClassifyError(err)
	return NewPowerError(op, err, code)
}

// WrapPlatformErrorWithContext wraps a platform adapter error with power error context and additional context
func WrapPlatformErrorWithContext(op string, err error, contextMap map[string]string) error {
	if err == nil {
		return nil
	}

	code := ClassifyError(err)
	return NewPowerErrorWithContext(op, err, code, contextMap)
}

// PlatformErrorCode extracts the numeric OS error code from a platform error,
// formatted for log fields. The second return value reports whether a code
// was present.
func PlatformErrorCode(err error) (string, bool) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return fmt.Sprintf("%d", uintptr(errno)), true
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("%d", exitErr.ExitCode()), true
	}

	return "", false
}

// HandleInvalidArgument creates a standardized invalid argument error
func HandleInvalidArgument(op string, argument string, reason string) error {
	contextMap := map[string]string{
		"argument": argument,
		"reason":   reason,
	}
	return NewPowerErrorWithContext(op, errors.New("invalid argument"), ErrCodeInvalidArgument, contextMap)
}

// HandleUnexpectedFailure creates a standardized error for a recovered panic
func HandleUnexpectedFailure(op string, recovered interface{}) error {
	contextMap := map[string]string{
		"recovered": fmt.Sprintf("%v", recovered),
	}
	return NewPowerErrorWithContext(op, errors.New("unexpected failure"), ErrCodeUnexpected, contextMap)
}

// HandleUnsupported creates a standardized error for a missing platform mechanism
func HandleUnsupported(op string, mechanism string, details string) error {
	contextMap := map[string]string{
		"mechanism": mechanism,
		"details":   details,
	}
	return NewPowerErrorWithContext(op, errors.New("platform mechanism unavailable"), ErrCodeUnsupported, contextMap)
}
