package daemon

import (
	"time"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
)

// Cooldown computes the sleep between scan cycles.
// Busy cycles sleep the base delay; empty cycles back off linearly up to max.
type Cooldown struct {
	base   time.Duration
	max    time.Duration
	misses int
}

// NewCooldown creates a cooldown schedule.
func NewCooldown(base, max time.Duration) *Cooldown {
	return &Cooldown{base: base, max: max}
}

// Next records the outcome and returns how long to sleep before the next cycle.
func (c *Cooldown) Next(outcome domain.ScanOutcome) time.Duration {
	if outcome.Kind == domain.OutcomeButtonsHandled {
		c.misses = 0
		return c.base
	}

	c.misses++
	return c.backoff()
}

// Misses returns the number of consecutive empty cycles.
func (c *Cooldown) Misses() int {
	return c.misses
}

func (c *Cooldown) backoff() time.Duration {
	if c.base <= 0 {
		return 0
	}
	// Compare before multiplying so long idle stretches cannot overflow.
	if time.Duration(c.misses) >= c.max/c.base+1 {
		return c.max
	}
	d := c.base * time.Duration(c.misses)
	if d > c.max {
		return c.max
	}
	return d
}
