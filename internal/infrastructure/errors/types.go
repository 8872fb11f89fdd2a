package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrorCode represents different types of power guard errors
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodePlatformCall
	ErrCodeInvalidArgument
	ErrCodeUnexpected
	ErrCodeUnsupported
)

// String returns a string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case ErrCodePlatformCall:
		return "PLATFORM_CALL"
	case ErrCodeInvalidArgument:
		return "INVALID_ARGUMENT"
	case ErrCodeUnexpected:
		return "UNEXPECTED"
	case ErrCodeUnsupported:
		return "UNSUPPORTED"
	default:
		return "UNKNOWN"
	}
}

// PowerError represents a guard or platform-specific error with context information
type PowerError struct {
	Op        string            // operation name
	Err       error             // underlying error
	Code      ErrorCode         // error classification
	Context   map[string]string // additional context information
	Timestamp time.Time         // when the error occurred
}

func (e *PowerError) Error() string {
	// Guard against nil receiver
	if e == nil {
		return "power error"
	}

	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	if e.Code != ErrCodeUnknown {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code.String()))
	}

	// Add context with deterministic order (treat nil Context as empty)
	if len(e.Context) > 0 {
		// Collect keys and sort them for deterministic output
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		// Append key=value pairs in sorted order
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, e.Context[k]))
		}
	}

	contextStr := ""
	if len(parts) > 0 {
		contextStr = fmt.Sprintf(" [%s]", strings.Join(parts, " "))
	}

	if e.Err != nil {
		return e.Err.Error() + contextStr
	}
	return "power error" + contextStr
}

func (e *PowerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements error matching for errors.Is
func (e *PowerError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*PowerError); ok {
		return e.Code == t.Code
	}
	// Also check if the target matches the underlying/wrapped error
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// GetCode returns the error code as a string (for logging interface compatibility)
func (e *PowerError) GetCode() string {
	if e == nil {
		return ErrCodeUnknown.String()
	}
	return e.Code.String()
}

// GetContext returns the error context (for logging interface compatibility)
func (e *PowerError) GetContext() map[string]string {
	if e == nil {
		return make(map[string]string)
	}
	if e.Context == nil {
		return make(map[string]string)
	}
	return e.Context
}

// GetTimestamp returns the error timestamp (for logging interface compatibility)
func (e *PowerError) GetTimestamp() time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.Timestamp
}

// WithContext adds context information to the error by mutating the receiver.
// This method is not concurrency-safe and should not be used after the error
// has been published to other goroutines without proper synchronization.
// For concurrent usage, create a new error with NewPowerErrorWithContext instead.
func (e *PowerError) WithContext(key, value string) *PowerError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// NewPowerError creates a new power error with the given parameters
func NewPowerError(op string, err error, code ErrorCode) *PowerError {
	return &PowerError{
		Op:        op,
		Err:       err,
		Code:      code,
		Context:   make(map[string]string),
		Timestamp: time.Now(),
	}
}

// NewPowerErrorWithContext creates a new power error with additional context
func NewPowerErrorWithContext(op string, err error, code ErrorCode, context map[string]string) *PowerError {
	powerErr := NewPowerError(op, err, code)
	if context != nil {
		// Clone the context map to avoid external mutation and data races
		powerErr.Context = make(map[string]string, len(context))
		for k, v := range context {
			powerErr.Context[k] = v
		}
	}
	return powerErr
}

// Error classification functions

// IsPlatformCallFailed checks if the error is a failed native platform call
func IsPlatformCallFailed(err error) bool {
	var powerErr *PowerError
	if errors.As(err, &powerErr) {
		return powerErr.Code == ErrCodePlatformCall
	}
	return false
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	var powerErr *PowerError
	if errors.As(err, &powerErr) {
		return powerErr.Code == ErrCodeInvalidArgument
	}
	return false
}

// IsUnexpected checks if the error is a recovered internal fault
func IsUnexpected(err error) bool {
	var powerErr *PowerError
	if errors.As(err, &powerErr) {
		return powerErr.Code == ErrCodeUnexpected
	}
	return false
}

// IsUnsupported checks if the error indicates the platform has no usable mechanism
func IsUnsupported(err error) bool {
	var powerErr *PowerError
	if errors.As(err, &powerErr) {
		return powerErr.Code == ErrCodeUnsupported
	}
	return false
}
