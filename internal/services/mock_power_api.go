package services

import (
	"fmt"
	"sync"
	"syscall"

	"wakeguard/internal/platform"
)

// MockPowerAPI implements the platform.PowerAPI interface for testing
type MockPowerAPI struct {
	mu          sync.RWMutex
	calls       []platform.PowerRequest
	shouldFail  bool
	shouldPanic bool
	failErr     error
}

// NewMockPowerAPI creates a new mock power API for testing
func NewMockPowerAPI() *MockPowerAPI {
	return &MockPowerAPI{}
}

// SetFailureMode configures the mock to fail every call. When err is nil a
// default errno-carrying failure is used so callers can exercise the
// platform error code extraction.
func (m *MockPowerAPI) SetFailureMode(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	if err == nil {
		err = fmt.Errorf("mock platform call failure: %w", syscall.Errno(5))
	}
	m.failErr = err
}

// SetPanicMode configures the mock to panic on the next call
func (m *MockPowerAPI) SetPanicMode(shouldPanic bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldPanic = shouldPanic
}

// ApplyExecutionState implements platform.PowerAPI
func (m *MockPowerAPI) ApplyExecutionState(req platform.PowerRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldPanic {
		panic("mock platform panic")
	}

	m.calls = append(m.calls, req)

	if m.shouldFail {
		return m.failErr
	}
	return nil
}

// Calls returns a copy of all requests the mock received
func (m *MockPowerAPI) Calls() []platform.PowerRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]platform.PowerRequest, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of requests the mock received
func (m *MockPowerAPI) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

// LastRequest returns the most recent request and whether one exists
func (m *MockPowerAPI) LastRequest() (platform.PowerRequest, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.calls) == 0 {
		return platform.PowerRequest{}, false
	}
	return m.calls[len(m.calls)-1], true
}

// ReleaseCount returns how many of the received requests released the hold
func (m *MockPowerAPI) ReleaseCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, req := range m.calls {
		if !req.KeepSystemAwake {
			count++
		}
	}
	return count
}

// MockNotifier implements the lifecycle.Notifier interface for testing
type MockNotifier struct {
	mu         sync.RWMutex
	exitHooks  []func()
	faultHooks []func()
}

// NewMockNotifier creates a new mock lifecycle notifier for testing
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// OnExit implements lifecycle.Notifier
func (m *MockNotifier) OnExit(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exitHooks = append(m.exitHooks, fn)
}

// OnFault implements lifecycle.Notifier
func (m *MockNotifier) OnFault(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faultHooks = append(m.faultHooks, fn)
}

// ExitHookCount returns the number of registered exit observers
func (m *MockNotifier) ExitHookCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.exitHooks)
}

// FaultHookCount returns the number of registered fault observers
func (m *MockNotifier) FaultHookCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.faultHooks)
}

// TriggerExit simulates a normal process exit by running the exit observers
func (m *MockNotifier) TriggerExit() {
	m.mu.RLock()
	hooks := make([]func(), len(m.exitHooks))
	copy(hooks, m.exitHooks)
	m.mu.RUnlock()

	for _, fn := range hooks {
		fn()
	}
}

// TriggerFault simulates an unhandled fault by running the fault observers
func (m *MockNotifier) TriggerFault() {
	m.mu.RLock()
	hooks := make([]func(), len(m.faultHooks))
	copy(hooks, m.faultHooks)
	m.mu.RUnlock()

	for _, fn := range hooks {
		fn()
	}
}
