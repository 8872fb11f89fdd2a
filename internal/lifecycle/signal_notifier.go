package lifecycle

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"wakeguard/internal/infrastructure/logging"
)

// SignalNotifier implements Notifier backed by OS termination signals.
// The hosting app can also deliver the exit event directly through
// NotifyExit when its own shutdown sequence runs, and report recovered
// panics through NotifyFault; each observer runs at most once either way.
type SignalNotifier struct {
	mu         sync.Mutex
	exitHooks  []func()
	faultHooks []func()
	exitFired  bool
	faultFired bool
	sigCh      chan os.Signal
	stopCh     chan struct{}
	started    bool
	logger     logging.Logger
}

// NewSignalNotifier creates a new signal-backed lifecycle notifier
func NewSignalNotifier(logger logging.Logger) *SignalNotifier {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SignalNotifier{
		logger: logger,
	}
}

// OnExit registers a callback to run on normal process exit
func (n *SignalNotifier) OnExit(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.exitHooks = append(n.exitHooks, fn)
}

// OnFault registers a callback to run on an unhandled fault
func (n *SignalNotifier) OnFault(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.faultHooks = append(n.faultHooks, fn)
}

// Start begins listening for termination signals. Repeated calls are no-ops.
func (n *SignalNotifier) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.started {
		return
	}
	n.started = true

	n.sigCh = make(chan os.Signal, 1)
	n.stopCh = make(chan struct{})
	signal.Notify(n.sigCh, os.Interrupt, syscall.SIGTERM)

	go n.watch(n.sigCh, n.stopCh)
}

// watch waits for a termination signal and delivers the exit event
func (n *SignalNotifier) watch(sigCh chan os.Signal, stopCh chan struct{}) {
	select {
	case sig := <-sigCh:
		n.logger.Info("Termination signal received", "signal", sig.String())
		n.NotifyExit()
	case <-stopCh:
	}
}

// Stop stops signal delivery without firing the exit hooks
func (n *SignalNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.started {
		return
	}
	n.started = false

	signal.Stop(n.sigCh)
	close(n.stopCh)
}

// NotifyExit runs the registered exit observers. Only the first call has
// any effect; later deliveries (a signal followed by the host's own
// shutdown, or repeated shutdowns) are no-ops.
func (n *SignalNotifier) NotifyExit() {
	n.mu.Lock()
	if n.exitFired {
		n.mu.Unlock()
		return
	}
	n.exitFired = true
	hooks := make([]func(), len(n.exitHooks))
	copy(hooks, n.exitHooks)
	n.mu.Unlock()

	// Hooks run outside the lock so they may register or notify freely.
	for _, fn := range hooks {
		n.runHook(fn, "exit")
	}
}

// NotifyFault runs the registered fault observers with the recovered value
func (n *SignalNotifier) NotifyFault(recovered interface{}) {
	n.mu.Lock()
	if n.faultFired {
		n.mu.Unlock()
		return
	}
	n.faultFired = true
	hooks := make([]func(), len(n.faultHooks))
	copy(hooks, n.faultHooks)
	n.mu.Unlock()

	n.logger.Error("Unhandled fault reported", "recovered", recovered)

	for _, fn := range hooks {
		n.runHook(fn, "fault")
	}
}

// runHook invokes a single observer, containing any panic it raises so the
// remaining observers still run
func (n *SignalNotifier) runHook(fn func(), event string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Lifecycle observer panicked", "event", event, "recovered", r)
		}
	}()
	fn()
}
