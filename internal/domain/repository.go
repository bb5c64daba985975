package domain

import (
	"context"
	"time"
)

// SnapshotProvider is the UI-introspection capability the scan loop consumes.
// Implementations must be synchronous and fast: there are no per-call timeouts,
// so a hang inside the provider blocks the whole loop.
type SnapshotProvider interface {
	// ListButtons returns the buttons currently visible under root, in UI order.
	// An error here means the root is unusable and stops the loop.
	ListButtons(ctx context.Context, root Handle) ([]ButtonObservation, error)

	// Invoke presses a button returned by ListButtons.
	Invoke(ctx context.Context, button Handle) error

	// ListOffscreenItems returns list items reachable from root.
	ListOffscreenItems(ctx context.Context, root Handle) ([]ListItem, error)

	// ScrollIntoView scrolls a list item returned by ListOffscreenItems into the viewport.
	ScrollIntoView(ctx context.Context, item Handle) error
}

// ChangeNotifier is implemented by providers that can signal structural UI changes.
type ChangeNotifier interface {
	// Changes receives a value whenever the UI tree may have changed.
	Changes() <-chan struct{}
}

// ActionStore resolves button names to actions and learns new ones.
// Implementation: policy.ActionRegistry.
type ActionStore interface {
	// Resolve looks up a name case-insensitively.
	Resolve(name string) (Action, bool)

	// Remember inserts or overwrites the action for name.
	Remember(name string, action Action) error
}

// Scanner runs one snapshot-filter-resolve-act pass.
type Scanner interface {
	// Scan runs a single cycle. Only snapshot failures are returned as errors.
	Scan(ctx context.Context) (*ScanOutcome, error)
}

// Trigger decides when the next scan cycle starts.
type Trigger interface {
	// Wait blocks for up to d, returning early with ctx.Err() on cancellation.
	Wait(ctx context.Context, d time.Duration) error
}

// ProcessManager handles OS process lookups for the target application.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// FindByName returns PIDs of processes matching the pattern.
	FindByName(pattern string) ([]int, error)

	// IsRunning checks if a PID exists and is running.
	IsRunning(pid int) bool

	// GetCurrentPID returns the current process PID.
	GetCurrentPID() int
}

// StatusStore publishes loop heartbeats for other autopress invocations.
// Implementation: hidden JSON file in the temp directory.
type StatusStore interface {
	// Write replaces the stored status.
	Write(status RunStatus) error

	// Read returns the stored status, or nil if none exists.
	Read() (*RunStatus, error)

	// Clear removes the status file.
	Clear() error

	// Path returns the status file path.
	Path() string
}
