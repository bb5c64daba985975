// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Action is what the scan loop does when it sees a button.
type Action int

const (
	ActionIgnore Action = iota
	ActionClick
	ActionScrollThenClick
)

// String returns the config spelling of the action.
func (a Action) String() string {
	switch a {
	case ActionIgnore:
		return "ignore"
	case ActionClick:
		return "click"
	case ActionScrollThenClick:
		return "scroll_then_click"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction converts a config value to an Action (case-insensitive).
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore":
		return ActionIgnore, nil
	case "click":
		return ActionClick, nil
	case "scroll_then_click", "scroll-then-click", "scrollthenclick":
		return ActionScrollThenClick, nil
	default:
		return ActionIgnore, fmt.Errorf("unknown action: %q (expected ignore, click, or scroll_then_click)", s)
	}
}

// Handle is an opaque reference to a UI element owned by a SnapshotProvider.
// Only the provider that produced a handle knows how to interpret it.
type Handle any

// ButtonObservation is one button seen during a single scan cycle.
// It must not be kept past the cycle that produced it.
type ButtonObservation struct {
	Name      string
	NameErr   error // Non-nil when the name property could not be read
	Enabled   bool
	Offscreen bool
	Handle    Handle
}

// ListItem is a list entry reachable from the scan root.
type ListItem struct {
	Name      string
	Offscreen bool
	Handle    Handle
}

// OutcomeKind classifies a scan cycle.
type OutcomeKind string

const (
	OutcomeNoButtonsFound OutcomeKind = "no_buttons_found"
	OutcomeButtonsHandled OutcomeKind = "buttons_handled"
)

// ScanOutcome captures what happened during a single scan cycle.
type ScanOutcome struct {
	Kind         OutcomeKind
	Count        int // Buttons that survived filtering and were processed
	Invoked      int
	Failed       int
	Deferred     int // Disabled buttons with a configured action
	Learned      []string
	InvokedNames []string // Names of successfully invoked buttons, in order
	Errors       []error
	ExecutedAt   time.Time
	DurationMs   int64
}

// LoopState is the lifecycle state of the scan loop.
type LoopState int32

const (
	StateIdle LoopState = iota
	StateRunning
	StateStopped
)

func (s LoopState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StopReason says why the scan loop ended.
type StopReason string

const (
	StopCancelled StopReason = "cancelled"
	StopCompleted StopReason = "completed"  // Terminal button was invoked
	StopIdleLimit StopReason = "idle_limit" // Too many consecutive empty cycles
	StopFatal     StopReason = "fatal"      // Snapshot could not be taken
)

// LoopReport summarises a finished scan loop run.
type LoopReport struct {
	Reason    StopReason
	Cycles    int
	Handled   int
	Invoked   int
	Failed    int
	Learned   int
	StartedAt time.Time
	StoppedAt time.Time
	Err       error
}

// RunStatus is the heartbeat record a running loop publishes for `autopress status`.
type RunStatus struct {
	Version       int    `json:"version"`
	PID           int    `json:"pid"`
	Target        string `json:"target,omitempty"`
	State         string `json:"state"`
	Cycles        int    `json:"cycles"`
	Handled       int    `json:"handled"`
	Invoked       int    `json:"invoked"`
	LastOutcome   string `json:"last_outcome,omitempty"`
	StopReason    string `json:"stop_reason,omitempty"`
	StartedAt     int64  `json:"started_at"`
	LastHeartbeat int64  `json:"last_heartbeat"`
}

var (
	// ErrSnapshotFailed wraps any failure to list buttons. It is fatal to the loop.
	ErrSnapshotFailed = errors.New("snapshot failed")

	// ErrTargetGone means the target application window or process no longer exists.
	ErrTargetGone = errors.New("target application is gone")
)
