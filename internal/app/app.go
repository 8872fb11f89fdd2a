package app

import (
	"context"
	"sync"
	"time"

	"wakeguard/internal/infrastructure/logging"
	"wakeguard/internal/lifecycle"
	"wakeguard/internal/services"
	"wakeguard/internal/types"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// statusEvent is the runtime event carrying PowerStatus updates to the widget
const statusEvent = "wakeguard:status"

// App struct represents the main application
type App struct {
	ctx      context.Context
	guard    *services.PowerStateGuard
	notifier *lifecycle.SignalNotifier
	options  *Options
	logger   logging.Logger

	holdMu     sync.Mutex
	cancelHold func()
}

// NewApp creates a new App application struct with dependency injection
func NewApp() *App {
	// Initialize logger first (required by all other components)
	options := DefaultOptions()
	options.LoadFromEnvironment()

	logger := logging.NewFilteredLogger(logging.NewDefaultLogger(), options.DebugLogging)

	// The notifier delivers exit/fault events to the guard's restore hooks
	notifier := lifecycle.NewSignalNotifier(logger)

	// A nil platform API selects the OS-appropriate adapter
	guard := services.NewPowerStateGuard(nil, notifier, logger)

	return newApp(guard, notifier, options, logger)
}

// newApp wires an App from explicit collaborators
func newApp(guard *services.PowerStateGuard, notifier *lifecycle.SignalNotifier, options *Options, logger logging.Logger) *App {
	return &App{
		guard:    guard,
		notifier: notifier,
		options:  options,
		logger:   logger,
	}
}

// Startup is called at application startup
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	// Termination signals must restore the platform state even when the
	// window never gets a clean close.
	a.notifier.Start()

	// Reconfigure the guard with the app logger so everything reports
	// through one sink.
	if err := a.guard.SetLogger(a.logger); err != nil {
		a.logger.Error("Failed to configure guard logger", "error", err.Error())
	}

	a.logger.Info("Application started",
		"default_hold_minutes", a.options.DefaultHoldMinutes,
		"keep_display_on", a.options.KeepDisplayOn)
}

// DomReady is called after front-end resources have been loaded
func (a *App) DomReady(ctx context.Context) {
	a.emitStatus()
}

// BeforeClose is called when the application is about to quit
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	return false
}

// Shutdown is called at application termination
func (a *App) Shutdown(ctx context.Context) {
	a.logger.Info("Starting application shutdown sequence")

	// End any running temporary hold so its goroutine is not left racing
	// the exit restoration.
	a.CancelTemporaryHold()

	// Deliver the exit event; the guard's registered hook restores the
	// platform default state if prevention is still active.
	a.notifier.NotifyExit()
	a.notifier.Stop()

	a.logger.Info("Application shutdown completed")
}

// PreventSleep enables sleep prevention and reports success to the widget
func (a *App) PreventSleep(keepDisplayOn bool) bool {
	ok := a.guard.PreventSleep(keepDisplayOn)
	a.emitStatus()
	return ok
}

// AllowSleep restores default power saving and reports success to the widget
func (a *App) AllowSleep() bool {
	a.CancelTemporaryHold()
	ok := a.guard.AllowSleep()
	a.emitStatus()
	return ok
}

// PreventSleepTemporarily starts a timed keep-awake hold. A non-positive
// minutes value selects the configured default preset. A new hold replaces
// any hold already running.
func (a *App) PreventSleepTemporarily(minutes int, keepDisplayOn bool) {
	duration := time.Duration(minutes) * time.Minute
	if minutes <= 0 {
		duration = a.options.DefaultHoldDuration()
	}

	a.holdMu.Lock()
	if a.cancelHold != nil {
		a.cancelHold()
	}
	a.cancelHold = a.guard.PreventSleepTemporarily(duration, keepDisplayOn)
	a.holdMu.Unlock()

	a.emitStatus()
}

// CancelTemporaryHold ends the active timed hold, if any, restoring the
// state that preceded it
func (a *App) CancelTemporaryHold() {
	a.holdMu.Lock()
	cancel := a.cancelHold
	a.cancelHold = nil
	a.holdMu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// GetPowerStatus returns the guard's current state for the widget
func (a *App) GetPowerStatus() types.PowerStatus {
	return a.guard.Status()
}

// GetOptions returns the widget's runtime configuration
func (a *App) GetOptions() *Options {
	return a.options
}

// GetLogger returns the application's structured logger
func (a *App) GetLogger() logging.Logger {
	return a.logger
}

// emitStatus pushes the current status to the widget over runtime events
func (a *App) emitStatus() {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, statusEvent, a.guard.Status())
}
