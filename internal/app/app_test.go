package app

import (
	"testing"
	"time"

	"wakeguard/internal/infrastructure/logging"
	"wakeguard/internal/lifecycle"
	"wakeguard/internal/services"
)

// newTestApp builds an App wired to a mock platform API. The wails context
// is left unset so status events are skipped.
func newTestApp() (*App, *services.MockPowerAPI) {
	api := services.NewMockPowerAPI()
	logger := logging.NewFilteredLogger(logging.NewDefaultLogger(), false)
	notifier := lifecycle.NewSignalNotifier(logger)
	guard := services.NewPowerStateGuard(api, notifier, logger)
	return newApp(guard, notifier, DefaultOptions(), logger), api
}

// waitFor polls until the condition holds or the deadline passes
func waitFor(t *testing.T, timeout time.Duration, condition func() bool, desc string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", desc)
}

func TestNewApp(t *testing.T) {
	a := NewApp()

	if a.guard == nil {
		t.Error("NewApp() should wire a guard")
	}
	if a.notifier == nil {
		t.Error("NewApp() should wire a lifecycle notifier")
	}
	if a.options == nil {
		t.Error("NewApp() should wire options")
	}
	if a.logger == nil {
		t.Error("NewApp() should wire a logger")
	}
}

func TestApp_PreventAndAllow(t *testing.T) {
	a, _ := newTestApp()

	if !a.PreventSleep(true) {
		t.Fatal("PreventSleep returned false")
	}

	status := a.GetPowerStatus()
	if !status.SleepPrevented || !status.DisplayPrevented {
		t.Errorf("status after PreventSleep(true) = %+v", status)
	}

	if !a.AllowSleep() {
		t.Fatal("AllowSleep returned false")
	}

	status = a.GetPowerStatus()
	if status.SleepPrevented || status.DisplayPrevented {
		t.Errorf("status after AllowSleep = %+v", status)
	}
}

func TestApp_TemporaryHold(t *testing.T) {
	a, _ := newTestApp()

	a.PreventSleepTemporarily(1, false)

	status := a.GetPowerStatus()
	if !status.SleepPrevented || !status.HoldActive {
		t.Errorf("status during hold = %+v", status)
	}

	a.CancelTemporaryHold()

	waitFor(t, 2*time.Second, func() bool {
		return !a.GetPowerStatus().SleepPrevented
	}, "cancel to restore idle state")
}

func TestApp_TemporaryHold_DefaultPreset(t *testing.T) {
	a, _ := newTestApp()
	a.options.DefaultHoldMinutes = 60

	// Non-positive minutes selects the configured preset
	a.PreventSleepTemporarily(0, false)
	defer a.CancelTemporaryHold()

	status := a.GetPowerStatus()
	if !status.HoldActive {
		t.Fatal("hold should be active")
	}
	if status.HoldRemaining <= 55*60 || status.HoldRemaining > 60*60 {
		t.Errorf("HoldRemaining = %ds, want close to 60 minutes", status.HoldRemaining)
	}
}

func TestApp_NewHoldReplacesOldHold(t *testing.T) {
	a, _ := newTestApp()

	a.PreventSleepTemporarily(120, true)
	a.PreventSleepTemporarily(1, false)
	defer a.CancelTemporaryHold()

	// The replaced hold was fully unwound before the new one started
	status := a.GetPowerStatus()
	if status.DisplayPrevented {
		t.Error("replacement hold should drop the display lock")
	}
	if !status.SleepPrevented {
		t.Error("replacement hold should keep sleep prevented")
	}
	if !status.HoldActive {
		t.Error("replacement hold should be active")
	}
}

func TestApp_AllowSleepCancelsHold(t *testing.T) {
	a, _ := newTestApp()

	a.PreventSleepTemporarily(120, false)
	if !a.AllowSleep() {
		t.Fatal("AllowSleep returned false")
	}

	status := a.GetPowerStatus()
	if status.SleepPrevented || status.HoldActive {
		t.Errorf("status after AllowSleep = %+v, want idle with no hold", status)
	}
}

func TestApp_ShutdownRestoresState(t *testing.T) {
	a, api := newTestApp()

	a.PreventSleep(false)
	a.Shutdown(nil)

	if a.GetPowerStatus().SleepPrevented {
		t.Error("Shutdown should restore the idle state")
	}
	if api.ReleaseCount() != 1 {
		t.Errorf("Shutdown produced %d release calls, want 1", api.ReleaseCount())
	}

	// A second shutdown delivery is a no-op
	a.Shutdown(nil)
	if api.ReleaseCount() != 1 {
		t.Errorf("repeated Shutdown produced %d release calls, want 1", api.ReleaseCount())
	}
}

func TestApp_GetOptions(t *testing.T) {
	a, _ := newTestApp()
	if a.GetOptions() != a.options {
		t.Error("GetOptions should return the wired options")
	}
}
