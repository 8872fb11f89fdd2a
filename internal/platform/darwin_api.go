//go:build darwin

package platform

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
)

// DarwinPowerAPI implements PowerAPI for macOS platform
//
// Holds a caffeinate child process while a keep-awake request is in
// force; killing the child restores the default state.
type DarwinPowerAPI struct {
	mu    sync.Mutex
	cmd   *exec.Cmd
	flags string
}

// NewDarwinPowerAPI creates a new macOS power API instance
func NewDarwinPowerAPI() *DarwinPowerAPI {
	return &DarwinPowerAPI{}
}

// NewPowerAPI creates a new PowerAPI instance for macOS
func NewPowerAPI() PowerAPI {
	return NewDarwinPowerAPI()
}

// ApplyExecutionState starts, replaces, or stops the caffeinate child so it
// matches the requested assertions
func (d *DarwinPowerAPI) ApplyExecutionState(req PowerRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !req.KeepSystemAwake {
		d.stopLocked()
		return nil
	}

	// -i: prevent idle sleep
	// -s: prevent system sleep (AC power)
	// -d: prevent the display from sleeping
	flags := "-is"
	if req.KeepDisplayOn {
		flags = "-dis"
	}

	if d.cmd != nil && d.flags == flags {
		return nil // already holding the wanted assertions
	}
	d.stopLocked()

	path, err := exec.LookPath("caffeinate")
	if err != nil {
		return fmt.Errorf("caffeinate not found: %w", err)
	}

	// -w <pid>: exit automatically when this process dies
	cmd := exec.Command(path, flags, "-w", strconv.Itoa(os.Getpid()))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start caffeinate: %w", err)
	}

	// Reap the child in background so it doesn't become a zombie.
	go cmd.Wait()

	d.cmd = cmd
	d.flags = flags
	return nil
}

func (d *DarwinPowerAPI) stopLocked() {
	if d.cmd != nil && d.cmd.Process != nil {
		d.cmd.Process.Kill()
	}
	d.cmd = nil
	d.flags = ""
}
