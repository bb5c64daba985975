// Package daemon implements the scan loop that drives the target application.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
	"github.com/eliteGoblin/focusd/autopress/internal/policy"
)

// ErrAlreadyStarted is returned when Run is called on a loop that has left Idle.
var ErrAlreadyStarted = errors.New("scan loop already started")

// LoopPolicy holds the scan loop tuning knobs.
type LoopPolicy struct {
	BaseDelay          time.Duration // Sleep after a cycle that handled buttons
	MaxDelay           time.Duration // Backoff ceiling for empty cycles
	MissThreshold      int           // Stop after this many consecutive empty cycles (0 = never)
	TerminalButtonName string        // Stop after this button is invoked (empty = never)
}

// DefaultLoopPolicy returns default loop configuration.
func DefaultLoopPolicy() LoopPolicy {
	return LoopPolicy{
		BaseDelay: policy.DefaultBaseDelay,
		MaxDelay:  policy.DefaultMaxDelay,
	}
}

// Validate checks the policy for impossible values.
func (p LoopPolicy) Validate() error {
	if p.BaseDelay <= 0 {
		return fmt.Errorf("base delay must be positive, got %s", p.BaseDelay)
	}
	if p.MaxDelay < p.BaseDelay {
		return fmt.Errorf("max delay %s is below base delay %s", p.MaxDelay, p.BaseDelay)
	}
	if p.MissThreshold < 0 {
		return fmt.Errorf("miss threshold must not be negative, got %d", p.MissThreshold)
	}
	return nil
}

// Completes reports whether the cycle successfully invoked the terminal button.
func (p LoopPolicy) Completes(outcome domain.ScanOutcome) bool {
	if strings.TrimSpace(p.TerminalButtonName) == "" {
		return false
	}
	for _, name := range outcome.InvokedNames {
		if policy.SameName(name, p.TerminalButtonName) {
			return true
		}
	}
	return false
}

// Observer receives every cycle's outcome before the loop sleeps.
type Observer interface {
	OnCycle(cycle int, outcome domain.ScanOutcome, sleep time.Duration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(cycle int, outcome domain.ScanOutcome, sleep time.Duration)

func (f ObserverFunc) OnCycle(cycle int, outcome domain.ScanOutcome, sleep time.Duration) {
	f(cycle, outcome, sleep)
}

// Loop is the scan-and-dispatch daemon.
// It runs cycles sequentially on the calling goroutine until the context is
// canceled, the terminal button is pressed, the idle limit is reached, or a
// snapshot fails.
type Loop struct {
	policy   LoopPolicy
	scanner  domain.Scanner
	trigger  domain.Trigger
	status   domain.StatusStore
	observer Observer
	logger   *zap.Logger
	target   string
	state    atomic.Int32
}

// NewLoop creates a scan loop.
func NewLoop(
	policy LoopPolicy,
	scanner domain.Scanner,
	trigger domain.Trigger,
	logger *zap.Logger,
) *Loop {
	if trigger == nil {
		trigger = NewTimerTrigger()
	}
	return &Loop{
		policy:  policy,
		scanner: scanner,
		trigger: trigger,
		logger:  logger,
	}
}

// WithObserver sets the per-cycle observer.
func (l *Loop) WithObserver(o Observer) *Loop {
	l.observer = o
	return l
}

// WithStatus publishes heartbeats to the given store after every cycle.
func (l *Loop) WithStatus(store domain.StatusStore, target string) *Loop {
	l.status = store
	l.target = target
	return l
}

// State returns the current lifecycle state. Safe for concurrent use.
func (l *Loop) State() domain.LoopState {
	return domain.LoopState(l.state.Load())
}

// Run starts the loop. It blocks until the loop stops.
// Cancellation is reported as StopCancelled with a nil error; only snapshot
// failures return an error.
func (l *Loop) Run(ctx context.Context) (domain.LoopReport, error) {
	if !l.state.CompareAndSwap(int32(domain.StateIdle), int32(domain.StateRunning)) {
		return domain.LoopReport{}, ErrAlreadyStarted
	}

	report := domain.LoopReport{StartedAt: time.Now()}
	cooldown := NewCooldown(l.policy.BaseDelay, l.policy.MaxDelay)

	l.logger.Info("scan loop started",
		zap.Duration("base_delay", l.policy.BaseDelay),
		zap.Duration("max_delay", l.policy.MaxDelay),
		zap.Int("miss_threshold", l.policy.MissThreshold),
		zap.String("terminal_button", l.policy.TerminalButtonName))

	stop := func(reason domain.StopReason, err error) (domain.LoopReport, error) {
		report.Reason = reason
		report.Err = err
		report.StoppedAt = time.Now()
		l.state.Store(int32(domain.StateStopped))
		l.publish(report, "")
		l.logger.Info("scan loop stopped",
			zap.String("reason", string(reason)),
			zap.Int("cycles", report.Cycles),
			zap.Int("invoked", report.Invoked))
		return report, err
	}

	for {
		if ctx.Err() != nil {
			return stop(domain.StopCancelled, nil)
		}

		outcome, err := l.scanner.Scan(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Debug("snapshot interrupted by cancellation", zap.Error(err))
				return stop(domain.StopCancelled, nil)
			}
			l.logger.Error("snapshot failed, stopping", zap.Error(err))
			return stop(domain.StopFatal, err)
		}

		report.Cycles++
		report.Invoked += outcome.Invoked
		report.Failed += outcome.Failed
		report.Learned += len(outcome.Learned)
		if outcome.Kind == domain.OutcomeButtonsHandled {
			report.Handled += outcome.Count
		}

		sleep := cooldown.Next(*outcome)

		if l.observer != nil {
			l.observer.OnCycle(report.Cycles, *outcome, sleep)
		}
		l.publish(report, string(outcome.Kind))

		if l.policy.Completes(*outcome) {
			return stop(domain.StopCompleted, nil)
		}
		if l.policy.MissThreshold > 0 && cooldown.Misses() >= l.policy.MissThreshold {
			return stop(domain.StopIdleLimit, nil)
		}

		if outcome.Kind == domain.OutcomeButtonsHandled {
			l.logger.Debug("cycle handled buttons",
				zap.Int("cycle", report.Cycles),
				zap.Int("count", outcome.Count),
				zap.Duration("sleep", sleep))
		}

		// A cancelled wait is picked up at the top of the next iteration.
		_ = l.trigger.Wait(ctx, sleep)
	}
}

// publish writes a heartbeat if a status store is configured.
func (l *Loop) publish(report domain.LoopReport, lastOutcome string) {
	if l.status == nil {
		return
	}

	status := domain.RunStatus{
		Version:       1,
		PID:           os.Getpid(),
		Target:        l.target,
		State:         l.State().String(),
		Cycles:        report.Cycles,
		Handled:       report.Handled,
		Invoked:       report.Invoked,
		LastOutcome:   lastOutcome,
		StopReason:    string(report.Reason),
		StartedAt:     report.StartedAt.Unix(),
		LastHeartbeat: time.Now().Unix(),
	}
	if err := l.status.Write(status); err != nil {
		l.logger.Warn("failed to update status", zap.Error(err))
	}
}
