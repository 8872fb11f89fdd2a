package platform

import "strings"

// PowerAPI defines the interface for platform-specific execution-state operations
type PowerAPI interface {
	// ApplyExecutionState asks the OS to suppress (or restore) the
	// power-saving behaviors named by the request. The platform applies
	// last-writer-wins semantics: each call fully replaces the previous
	// request.
	ApplyExecutionState(req PowerRequest) error
}

// PowerRequest describes which power-saving behaviors to suppress
type PowerRequest struct {
	// KeepSystemAwake prevents the machine from entering system sleep.
	KeepSystemAwake bool
	// KeepDisplayOn additionally prevents the display from turning off.
	// Callers only set it together with KeepSystemAwake.
	KeepDisplayOn bool
	// Continuous keeps the setting in force until replaced by another
	// request, rather than resetting an idle timer once.
	Continuous bool
}

// KeepAwakeRequest returns the request that holds the system awake
func KeepAwakeRequest(keepDisplayOn bool) PowerRequest {
	return PowerRequest{
		KeepSystemAwake: true,
		KeepDisplayOn:   keepDisplayOn,
		Continuous:      true,
	}
}

// ReleaseRequest returns the request that restores default power saving
func ReleaseRequest() PowerRequest {
	return PowerRequest{Continuous: true}
}

// String renders the request for log fields, e.g. "system+display,continuous"
func (r PowerRequest) String() string {
	var holds []string
	if r.KeepSystemAwake {
		holds = append(holds, "system")
	}
	if r.KeepDisplayOn {
		holds = append(holds, "display")
	}
	s := "none"
	if len(holds) > 0 {
		s = strings.Join(holds, "+")
	}
	if r.Continuous {
		s += ",continuous"
	}
	return s
}
