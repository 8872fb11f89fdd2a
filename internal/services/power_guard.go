package services

import (
	"sync"
	"time"

	"wakeguard/internal/infrastructure/errors"
	"wakeguard/internal/infrastructure/logging"
	"wakeguard/internal/lifecycle"
	"wakeguard/internal/platform"
	"wakeguard/internal/types"
)

// PowerStateGuard owns the process-wide sleep/display prevention state.
// It tracks whether prevention is currently active, applies requests
// through the platform capability, and restores the default state when
// the hosting runtime reports process termination.
//
// All state fields are guarded by a single mutex. The platform call and
// logging happen outside the lock; only the state mutation and the
// exit-hook check-and-set run under it.
type PowerStateGuard struct {
	mutex                 sync.Mutex
	sleepPrevented        bool
	displayPrevented      bool
	exitHandlerRegistered bool
	hold                  *types.TemporaryHold
	powerAPI              platform.PowerAPI
	notifier              lifecycle.Notifier
	logger                logging.Logger
}

// NewPowerStateGuard creates a new power state guard with its collaborators.
// A nil powerAPI selects the platform default adapter; a nil logger falls
// back to the default structured logger. The notifier may be nil when no
// hosting runtime provides lifecycle events, in which case exit
// restoration is skipped.
func NewPowerStateGuard(powerAPI platform.PowerAPI, notifier lifecycle.Notifier, logger logging.Logger) *PowerStateGuard {
	if powerAPI == nil {
		powerAPI = platform.NewPowerAPI()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &PowerStateGuard{
		powerAPI: powerAPI,
		notifier: notifier,
		logger:   logger,
	}
}

// SetLogger replaces the active logging collaborator. This is the only
// guard operation whose error propagates to the caller.
func (g *PowerStateGuard) SetLogger(logger logging.Logger) error {
	if logger == nil {
		return errors.HandleInvalidArgument("SetLogger", "logger", "must not be nil")
	}

	g.mutex.Lock()
	g.logger = logger
	g.mutex.Unlock()

	logger.Info("Power guard logger reconfigured")
	return nil
}

// PreventSleep asks the platform to keep the system awake, and the display
// too when keepDisplayOn is set. It returns false on platform failure or
// any internal fault, leaving the tracked state unchanged.
func (g *PowerStateGuard) PreventSleep(keepDisplayOn bool) (ok bool) {
	defer g.recoverOperation("PreventSleep", &ok)
	start := time.Now()

	req := platform.KeepAwakeRequest(keepDisplayOn)
	if err := g.powerAPI.ApplyExecutionState(req); err != nil {
		g.logPlatformFailure("PreventSleep", err, req)
		return false
	}

	g.mutex.Lock()
	g.sleepPrevented = true
	g.displayPrevented = keepDisplayOn
	g.registerExitHandlerLocked()
	logger := g.logger
	g.mutex.Unlock()

	logging.LogGuardOperation(logger, "prevent_sleep", time.Since(start), map[string]interface{}{
		"keep_display_on": keepDisplayOn,
		"request":         req.String(),
	})
	return true
}

// AllowSleep restores the platform's default power-saving behavior. It
// returns false on platform failure or any internal fault, leaving the
// tracked state unchanged.
func (g *PowerStateGuard) AllowSleep() (ok bool) {
	defer g.recoverOperation("AllowSleep", &ok)
	start := time.Now()

	req := platform.ReleaseRequest()
	if err := g.powerAPI.ApplyExecutionState(req); err != nil {
		g.logPlatformFailure("AllowSleep", err, req)
		return false
	}

	g.mutex.Lock()
	g.sleepPrevented = false
	g.displayPrevented = false
	logger := g.logger
	g.mutex.Unlock()

	logging.LogGuardOperation(logger, "allow_sleep", time.Since(start), map[string]interface{}{
		"request": req.String(),
	})
	return true
}

// PreventSleepTemporarily enables prevention now and restores the prior
// state after the duration elapses. The call returns immediately; the
// delay and restore run on their own goroutine. The returned cancel
// function ends the hold early, performs the same restore, and returns
// once the restore has run; calling it after expiry, or again, returns
// immediately. Discarding it keeps the classic run-to-completion behavior.
func (g *PowerStateGuard) PreventSleepTemporarily(duration time.Duration, keepDisplayOn bool) (cancel func()) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.HandleUnexpectedFailure("PreventSleepTemporarily", r)
			logging.LogPowerError(g.currentLogger(), err, "PreventSleepTemporarily", nil)
			// A fault in this path must never leave the system stuck in
			// a prevented state, even before the delay starts.
			g.AllowSleep()
			cancel = func() {}
		}
	}()

	g.currentLogger().Info("Temporary sleep prevention starting",
		"duration", duration.String(),
		"keep_display_on", keepDisplayOn)

	// Snapshot the prior state before touching it, so the restore puts
	// back exactly what the caller interrupted.
	g.mutex.Lock()
	wasPrevented := g.sleepPrevented
	wasDisplayPrevented := g.displayPrevented
	g.mutex.Unlock()

	// Fire-and-forget: the delayed restore runs even when this fails.
	g.PreventSleep(keepDisplayOn)

	now := time.Now()
	hold := &types.TemporaryHold{
		KeepDisplayOn: keepDisplayOn,
		StartedAt:     now,
		ExpiresAt:     now.Add(duration),
	}
	g.setHold(hold)

	cancelCh := make(chan struct{})
	done := make(chan struct{})
	var once sync.Once
	cancel = func() {
		once.Do(func() { close(cancelCh) })
		<-done
	}

	go g.runHold(hold, duration, wasPrevented, wasDisplayPrevented, cancelCh, done)
	return cancel
}

// runHold waits out the hold duration, then restores the snapshotted state
func (g *PowerStateGuard) runHold(hold *types.TemporaryHold, duration time.Duration, wasPrevented, wasDisplayPrevented bool, cancelCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			err := errors.HandleUnexpectedFailure("PreventSleepTemporarily", r)
			logging.LogPowerError(g.currentLogger(), err, "PreventSleepTemporarily", nil)
			// A fault in this path must never leave the system stuck in
			// a prevented state.
			g.AllowSleep()
			g.clearHold(hold)
		}
	}()

	timer := time.NewTimer(duration)
	defer timer.Stop()

	canceled := false
	select {
	case <-timer.C:
	case <-cancelCh:
		canceled = true
	}

	if wasPrevented {
		g.PreventSleep(wasDisplayPrevented)
	} else {
		g.AllowSleep()
	}
	g.clearHold(hold)

	g.currentLogger().Info("Temporary sleep prevention finished",
		"canceled", canceled,
		"restored_prevented", wasPrevented,
		"restored_display_prevented", wasDisplayPrevented)
}

// IsSleepCurrentlyPrevented reports whether sleep prevention is active
func (g *PowerStateGuard) IsSleepCurrentlyPrevented() bool {
	g.mutex.Lock()
	prevented := g.sleepPrevented
	logger := g.logger
	g.mutex.Unlock()

	logger.Debug("Sleep prevention state queried", "sleep_prevented", prevented)
	return prevented
}

// IsDisplayCurrentlyPrevented reports whether the display is being held on
func (g *PowerStateGuard) IsDisplayCurrentlyPrevented() bool {
	g.mutex.Lock()
	prevented := g.displayPrevented
	logger := g.logger
	g.mutex.Unlock()

	logger.Debug("Display prevention state queried", "display_prevented", prevented)
	return prevented
}

// Status returns the guard's current state as a frontend DTO
func (g *PowerStateGuard) Status() types.PowerStatus {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	status := types.PowerStatus{
		SleepPrevented:   g.sleepPrevented,
		DisplayPrevented: g.displayPrevented,
	}
	if g.hold != nil {
		status.HoldActive = true
		if remaining := time.Until(g.hold.ExpiresAt); remaining > 0 {
			status.HoldRemaining = int64(remaining.Seconds())
		}
	}
	return status
}

// registerExitHandlerLocked installs the restore-on-termination observers.
// Callers must hold g.mutex; keeping the check-and-set under the lock
// stops concurrent PreventSleep calls from registering duplicates.
func (g *PowerStateGuard) registerExitHandlerLocked() {
	if g.exitHandlerRegistered {
		return
	}
	g.exitHandlerRegistered = true

	if g.notifier == nil {
		return
	}

	restore := func() {
		if g.IsSleepCurrentlyPrevented() {
			g.AllowSleep()
		}
	}
	g.notifier.OnExit(restore)
	g.notifier.OnFault(restore)
}

// currentLogger returns the logger configured at the time of the call
func (g *PowerStateGuard) currentLogger() logging.Logger {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.logger
}

// setHold records the active temporary hold
func (g *PowerStateGuard) setHold(hold *types.TemporaryHold) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.hold = hold
}

// clearHold removes the hold record unless a newer hold has replaced it
func (g *PowerStateGuard) clearHold(hold *types.TemporaryHold) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	if g.hold == hold {
		g.hold = nil
	}
}

// recoverOperation converts a panic inside an operation into an error log
// and a false return
func (g *PowerStateGuard) recoverOperation(op string, ok *bool) {
	if r := recover(); r != nil {
		err := errors.HandleUnexpectedFailure(op, r)
		logging.LogPowerError(g.currentLogger(), err, op, nil)
		*ok = false
	}
}

// logPlatformFailure logs a failed platform call with its error code
func (g *PowerStateGuard) logPlatformFailure(op string, err error, req platform.PowerRequest) {
	context := map[string]interface{}{
		"request": req.String(),
	}
	if code, present := errors.PlatformErrorCode(err); present {
		context["platform_error_code"] = code
	}
	logging.LogPowerError(g.currentLogger(), errors.WrapPlatformError(op, err), op, context)
}
