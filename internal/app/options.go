package app

import (
	"os"
	"strconv"
	"time"
)

// parseBoolEnv reads an environment variable and parses it as a boolean.
// Returns the parsed value and a boolean indicating if the variable was present.
// Supports common boolean representations: true/false, 1/0, yes/no, on/off, t/f, y/n (case-insensitive).
func parseBoolEnv(key string) (bool, bool) {
	value := os.Getenv(key)
	if value == "" {
		return false, false
	}

	// First try strconv.ParseBool which handles: true/false, 1/0, t/f (case-insensitive)
	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed, true
	}

	// Handle additional common variants not supported by strconv.ParseBool
	switch value {
	case "yes", "YES", "Yes", "y", "Y", "on", "ON", "On":
		return true, true
	case "no", "NO", "No", "n", "N", "off", "OFF", "Off":
		return false, true
	default:
		return false, false
	}
}

// Options holds the widget's runtime configuration
type Options struct {
	// DefaultHoldMinutes is the duration preset for the widget's timed
	// keep-awake button.
	DefaultHoldMinutes int `json:"defaultHoldMinutes" yaml:"defaultHoldMinutes"`
	// KeepDisplayOn makes prevention requests also hold the display on.
	KeepDisplayOn bool `json:"keepDisplayOn" yaml:"keepDisplayOn"`
	// DebugLogging enables debug-level diagnostics from the guard.
	DebugLogging bool `json:"debugLogging" yaml:"debugLogging"`
}

// DefaultOptions returns the widget configuration defaults
func DefaultOptions() *Options {
	return &Options{
		DefaultHoldMinutes: 30,
		KeepDisplayOn:      false,
		DebugLogging:       false,
	}
}

// LoadFromEnvironment overrides options from environment variables
func (o *Options) LoadFromEnvironment() {
	if minutes := os.Getenv("WAKEGUARD_DEFAULT_HOLD_MINUTES"); minutes != "" {
		if val, err := strconv.Atoi(minutes); err == nil && val > 0 {
			o.DefaultHoldMinutes = val
		}
	}

	if keepDisplay, present := parseBoolEnv("WAKEGUARD_KEEP_DISPLAY_ON"); present {
		o.KeepDisplayOn = keepDisplay
	}

	if debug, present := parseBoolEnv("WAKEGUARD_DEBUG_LOGGING"); present {
		o.DebugLogging = debug
	}
}

// DefaultHoldDuration returns the configured hold preset as a duration
func (o *Options) DefaultHoldDuration() time.Duration {
	return time.Duration(o.DefaultHoldMinutes) * time.Minute
}
