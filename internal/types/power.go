package types

import "time"

// PowerStatus represents the guard's current prevention state for the frontend
type PowerStatus struct {
	SleepPrevented   bool `json:"sleepPrevented"`
	DisplayPrevented bool `json:"displayPrevented"`
	HoldActive       bool `json:"holdActive"`
	// HoldRemaining is the time left on the active temporary hold in
	// seconds, zero when no hold is active.
	HoldRemaining int64 `json:"holdRemaining"`
}

// TemporaryHold describes an active time-boxed prevention request
type TemporaryHold struct {
	KeepDisplayOn bool      `json:"keepDisplayOn"`
	StartedAt     time.Time `json:"startedAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}
