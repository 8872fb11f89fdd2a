//go:build windows

package platform

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"

	"golang.org/x/sys/windows"
)

// Execution state flags accepted by SetThreadExecutionState.
// https://learn.microsoft.com/en-us/windows/win32/api/winbase/nf-winbase-setthreadexecutionstate
const (
	esSystemRequired  uintptr = 0x00000001
	esDisplayRequired uintptr = 0x00000002
	esContinuous      uintptr = 0x80000000
)

var (
	kernel32                    = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadExecutionState = kernel32.NewProc("SetThreadExecutionState")
)

// WindowsPowerAPI implements PowerAPI for Windows platform
//
// SetThreadExecutionState registers a continuous request on the calling
// thread, and the kernel drops it when that thread exits. Goroutines
// migrate between OS threads, so every call is funneled through a single
// dispatcher goroutine locked to its OS thread for the life of the
// process.
type WindowsPowerAPI struct {
	startOnce sync.Once
	requests  chan stateRequest
}

type stateRequest struct {
	flags uintptr
	reply chan error
}

// NewWindowsPowerAPI creates a new Windows power API instance
func NewWindowsPowerAPI() *WindowsPowerAPI {
	return &WindowsPowerAPI{
		requests: make(chan stateRequest),
	}
}

// NewPowerAPI creates a new PowerAPI instance for Windows
func NewPowerAPI() PowerAPI {
	return NewWindowsPowerAPI()
}

// ApplyExecutionState issues the request from the dedicated dispatcher thread
func (w *WindowsPowerAPI) ApplyExecutionState(req PowerRequest) error {
	w.startOnce.Do(w.startDispatcher)

	reply := make(chan error, 1)
	w.requests <- stateRequest{flags: executionStateFlags(req), reply: reply}
	return <-reply
}

// startDispatcher launches the goroutine that owns the execution-state
// thread. The channel is never closed; the thread must stay alive as long
// as a continuous request may be in force.
func (w *WindowsPowerAPI) startDispatcher() {
	go func() {
		runtime.LockOSThread()
		for req := range w.requests {
			req.reply <- setThreadExecutionState(req.flags)
		}
	}()
}

// executionStateFlags converts a PowerRequest to the native flag bits
func executionStateFlags(req PowerRequest) uintptr {
	var flags uintptr
	if req.KeepSystemAwake {
		flags |= esSystemRequired
	}
	if req.KeepDisplayOn {
		flags |= esDisplayRequired
	}
	if req.Continuous {
		flags |= esContinuous
	}
	return flags
}

// setThreadExecutionState performs the native call. The API returns the
// previous state on success and zero on failure; the last-error code is
// only meaningful in the failure case.
func setThreadExecutionState(flags uintptr) error {
	ret, _, callErr := procSetThreadExecutionState.Call(flags)
	if ret == 0 {
		if errno, ok := callErr.(syscall.Errno); ok && errno != 0 {
			return fmt.Errorf("SetThreadExecutionState(0x%X) failed: %w", flags, errno)
		}
		return fmt.Errorf("SetThreadExecutionState(0x%X) failed", flags)
	}
	return nil
}
