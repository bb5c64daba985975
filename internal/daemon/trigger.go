package daemon

import (
	"context"
	"time"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
)

// TimerTrigger starts the next cycle once the cooldown has elapsed.
type TimerTrigger struct{}

// NewTimerTrigger creates a polling trigger.
func NewTimerTrigger() *TimerTrigger {
	return &TimerTrigger{}
}

func (t *TimerTrigger) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// EventTrigger starts the next cycle on a UI change notification or when the
// cooldown elapses, whichever comes first. A closed change channel degrades
// it to a plain timer.
type EventTrigger struct {
	changes <-chan struct{}
}

// NewEventTrigger creates a trigger fed by change notifications.
func NewEventTrigger(changes <-chan struct{}) *EventTrigger {
	return &EventTrigger{changes: changes}
}

func (e *EventTrigger) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case _, ok := <-e.changes:
			if ok {
				return nil
			}
			// nil channel: never selected again
			e.changes = nil
		}
	}
}

var (
	_ domain.Trigger = (*TimerTrigger)(nil)
	_ domain.Trigger = (*EventTrigger)(nil)
)
