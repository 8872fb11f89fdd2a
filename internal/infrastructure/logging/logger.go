package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Logger interface for guard and platform operations
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// DefaultLogger provides a simple logger implementation
type DefaultLogger struct{}

// NewDefaultLogger creates a new default logger instance
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}

// logEntry represents a structured log entry
type logEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
}

// fieldsToMap converts the variadic fields slice to a map
// Expected format: key1, value1, key2, value2, ...
func fieldsToMap(fields []interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			if key, ok := fields[i].(string); ok {
				result[key] = fields[i+1]
			} else {
				// If key is not a string, use index as key
				result[fmt.Sprintf("field_%d", i/2)] = fields[i]
				if i+1 < len(fields) {
					result[fmt.Sprintf("field_%d_value", i/2)] = fields[i+1]
				}
			}
		} else {
			// Odd number of fields, add the last one with an index key
			result[fmt.Sprintf("field_%d", i/2)] = fields[i]
		}
	}

	return result
}

// logStructured logs a message with structured JSON format
func (l *DefaultLogger) logStructured(level, msg string, fields []interface{}) {
	entry := logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   msg,
		Fields:    fieldsToMap(fields),
	}

	// Try to marshal to JSON
	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		// Fallback to safe string representation
		fallbackFields := fmt.Sprintf("%v", fields)
		fallbackEntry := logEntry{
			Timestamp: entry.Timestamp,
			Level:     level,
			Message:   msg,
			Fields: map[string]interface{}{
				"original_fields": fallbackFields,
				"marshal_error":   err.Error(),
			},
		}

		if jsonBytes, err = json.Marshal(fallbackEntry); err != nil {
			// Last resort - simple text log
			log.Printf("[%s] %s %s", level, msg, fallbackFields)
			return
		}
	}

	log.Println(string(jsonBytes))
}

func (l *DefaultLogger) Debug(msg string, fields ...interface{}) {
	l.logStructured("DEBUG", msg, fields)
}

func (l *DefaultLogger) Info(msg string, fields ...interface{}) {
	l.logStructured("INFO", msg, fields)
}

func (l *DefaultLogger) Warn(msg string, fields ...interface{}) {
	l.logStructured("WARN", msg, fields)
}

func (l *DefaultLogger) Error(msg string, fields ...interface{}) {
	l.logStructured("ERROR", msg, fields)
}

// FilteredLogger wraps another logger and drops debug entries when debug
// diagnostics are disabled
type FilteredLogger struct {
	inner Logger
	debug bool
}

// NewFilteredLogger creates a logger that forwards to inner, suppressing
// Debug calls unless debug is true
func NewFilteredLogger(inner Logger, debug bool) Logger {
	if inner == nil {
		inner = NewDefaultLogger()
	}
	return &FilteredLogger{inner: inner, debug: debug}
}

func (f *FilteredLogger) Debug(msg string, fields ...interface{}) {
	if f.debug {
		f.inner.Debug(msg, fields...)
	}
}

func (f *FilteredLogger) Info(msg string, fields ...interface{}) {
	f.inner.Info(msg, fields...)
}

func (f *FilteredLogger) Warn(msg string, fields ...interface{}) {
	f.inner.Warn(msg, fields...)
}

func (f *FilteredLogger) Error(msg string, fields ...interface{}) {
	f.inner.Error(msg, fields...)
}

// ClassifiedError interface for error classification (to avoid circular imports)
type ClassifiedError interface {
	Error() string
	GetCode() string
	GetContext() map[string]string
	GetTimestamp() time.Time
}

// LogPowerError logs guard or platform errors with appropriate context
func LogPowerError(logger Logger, err error, operation string, context map[string]interface{}) {
	if logger == nil {
		logger = NewDefaultLogger()
	}

	// Try to cast to our ClassifiedError interface
	if powerErr, ok := err.(ClassifiedError); ok {
		fields := []interface{}{
			"operation", operation,
			"error_code", powerErr.GetCode(),
			"timestamp", powerErr.GetTimestamp(),
		}

		// Add classified error context
		for k, v := range powerErr.GetContext() {
			fields = append(fields, k, v)
		}

		// Add additional context
		for k, v := range context {
			fields = append(fields, k, v)
		}

		logger.Error(fmt.Sprintf("Power guard error: %s", err.Error()), fields...)
	} else {
		fields := []interface{}{
			"operation", operation,
			"error_type", fmt.Sprintf("%T", err),
		}

		// Add additional context
		for k, v := range context {
			fields = append(fields, k, v)
		}

		logger.Error(fmt.Sprintf("Unexpected error: %s", err.Error()), fields...)
	}
}

// LogGuardOperation logs successful guard operations for monitoring
func LogGuardOperation(logger Logger, operation string, duration time.Duration, context map[string]interface{}) {
	if logger == nil {
		logger = NewDefaultLogger()
	}

	fields := []interface{}{
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	}

	// Add additional context
	for k, v := range context {
		fields = append(fields, k, v)
	}

	logger.Info(fmt.Sprintf("Guard operation completed: %s", operation), fields...)
}
