package lifecycle

import (
	"sync"
	"testing"
	"time"
)

// countingLogger counts log calls without asserting on their content
type countingLogger struct {
	mu         sync.Mutex
	errorCalls int
	infoCalls  int
}

func (c *countingLogger) Debug(msg string, fields ...interface{}) {}
func (c *countingLogger) Info(msg string, fields ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.infoCalls++
}
func (c *countingLogger) Warn(msg string, fields ...interface{}) {}
func (c *countingLogger) Error(msg string, fields ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorCalls++
}

func TestSignalNotifier_NotifyExitRunsHooksOnce(t *testing.T) {
	n := NewSignalNotifier(&countingLogger{})

	calls := 0
	n.OnExit(func() { calls++ })

	n.NotifyExit()
	n.NotifyExit()

	if calls != 1 {
		t.Errorf("exit hook ran %d times, want 1", calls)
	}
}

func TestSignalNotifier_NotifyExitRunsAllHooks(t *testing.T) {
	n := NewSignalNotifier(&countingLogger{})

	var order []string
	n.OnExit(func() { order = append(order, "first") })
	n.OnExit(func() { order = append(order, "second") })

	n.NotifyExit()

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("exit hooks ran as %v, want [first second]", order)
	}
}

func TestSignalNotifier_NotifyFault(t *testing.T) {
	logger := &countingLogger{}
	n := NewSignalNotifier(logger)

	calls := 0
	n.OnFault(func() { calls++ })

	n.NotifyFault("boom")
	n.NotifyFault("boom again")

	if calls != 1 {
		t.Errorf("fault hook ran %d times, want 1", calls)
	}
	if logger.errorCalls != 1 {
		t.Errorf("fault logged %d times, want 1", logger.errorCalls)
	}
}

func TestSignalNotifier_FaultDoesNotConsumeExit(t *testing.T) {
	n := NewSignalNotifier(&countingLogger{})

	exitCalls := 0
	faultCalls := 0
	n.OnExit(func() { exitCalls++ })
	n.OnFault(func() { faultCalls++ })

	n.NotifyFault("boom")
	n.NotifyExit()

	if faultCalls != 1 {
		t.Errorf("fault hook ran %d times, want 1", faultCalls)
	}
	if exitCalls != 1 {
		t.Errorf("exit hook ran %d times, want 1", exitCalls)
	}
}

func TestSignalNotifier_PanickingHookDoesNotStopOthers(t *testing.T) {
	logger := &countingLogger{}
	n := NewSignalNotifier(logger)

	secondRan := false
	n.OnExit(func() { panic("observer failure") })
	n.OnExit(func() { secondRan = true })

	n.NotifyExit()

	if !secondRan {
		t.Error("second exit hook should run even when the first panics")
	}
	if logger.errorCalls != 1 {
		t.Errorf("panicking hook logged %d errors, want 1", logger.errorCalls)
	}
}

func TestSignalNotifier_HookMayNotifyWithoutDeadlock(t *testing.T) {
	n := NewSignalNotifier(&countingLogger{})

	n.OnExit(func() {
		// Re-entrant delivery from inside an observer must not deadlock.
		n.NotifyExit()
	})

	done := make(chan struct{})
	go func() {
		n.NotifyExit()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("NotifyExit deadlocked on re-entrant delivery")
	}
}

func TestSignalNotifier_StartStop(t *testing.T) {
	n := NewSignalNotifier(&countingLogger{})

	calls := 0
	n.OnExit(func() { calls++ })

	n.Start()
	n.Start() // repeated Start is a no-op
	n.Stop()
	n.Stop() // repeated Stop is a no-op

	if calls != 0 {
		t.Errorf("Stop must not fire exit hooks, got %d calls", calls)
	}

	// The notifier still delivers a host-driven exit after Stop.
	n.NotifyExit()
	if calls != 1 {
		t.Errorf("exit hook ran %d times after manual delivery, want 1", calls)
	}
}
