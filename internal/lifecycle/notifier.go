package lifecycle

// Notifier defines the interface for process-lifecycle hook registration.
// Observers registered through it are invoked when the hosting runtime
// reports a normal process exit or an unhandled fault.
type Notifier interface {
	// OnExit registers a callback to run on normal process exit.
	OnExit(fn func())
	// OnFault registers a callback to run when an unrecovered fault is
	// reported. Fault observers run before exit observers if the fault
	// terminates the process.
	OnFault(fn func())
}
