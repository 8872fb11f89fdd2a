//go:build linux

package platform

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"
)

// LinuxPowerAPI implements PowerAPI for Linux platform
//
// There is no direct execution-state syscall here; the adapter holds a
// systemd-inhibit child process while a keep-awake request is in force
// and kills it to restore the default state.
type LinuxPowerAPI struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	what string
}

// NewLinuxPowerAPI creates a new Linux power API instance
func NewLinuxPowerAPI() *LinuxPowerAPI {
	return &LinuxPowerAPI{}
}

// NewPowerAPI creates a new PowerAPI instance for Linux
func NewPowerAPI() PowerAPI {
	return NewLinuxPowerAPI()
}

// ApplyExecutionState starts, replaces, or stops the inhibitor child so it
// matches the requested lock set
func (l *LinuxPowerAPI) ApplyExecutionState(req PowerRequest) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !req.KeepSystemAwake {
		l.stopLocked()
		return nil
	}

	what := "sleep"
	if req.KeepDisplayOn {
		// Idle inhibition keeps the session active, which stops the
		// screen from blanking on the idle timeout.
		what = "sleep:idle"
	}

	if l.cmd != nil && l.what == what {
		return nil // already holding the wanted locks
	}
	l.stopLocked()

	path, err := exec.LookPath("systemd-inhibit")
	if err != nil {
		return fmt.Errorf("systemd-inhibit not found: %w", err)
	}

	cmd := exec.Command(path,
		"--what="+what,
		"--who=wakeguard",
		"--why=Keep awake requested",
		"sleep", "infinity",
	)
	// Kernel sends SIGTERM to the child when the parent dies, so it cannot be orphaned.
	cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: syscall.SIGTERM}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start systemd-inhibit: %w", err)
	}

	// Reap the child in background so it doesn't become a zombie.
	go cmd.Wait()

	l.cmd = cmd
	l.what = what
	return nil
}

func (l *LinuxPowerAPI) stopLocked() {
	if l.cmd != nil && l.cmd.Process != nil {
		l.cmd.Process.Kill()
	}
	l.cmd = nil
	l.what = ""
}
