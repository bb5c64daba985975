// Package policy holds the button action rules: which names are clicked,
// which are scrolled to first, and which are left alone.
package policy

import "time"

const (
	// DefaultBaseDelay is the cooldown after a cycle that handled buttons.
	DefaultBaseDelay = 200 * time.Millisecond

	// DefaultMaxDelay caps the linear backoff while the UI is idle.
	DefaultMaxDelay = 3 * time.Second
)

// SeedNames are window chrome and third-party sign-in buttons that are never
// pressed automatically, whatever the configuration says.
var SeedNames = []string{
	"Minimize",
	"Maximize",
	"Restore",
	"Close",
	"Cancel",
	"Sign in with Google",
	"Sign in with Apple",
	"Sign in with Microsoft",
}

// Origin records who wrote a registry entry.
type Origin int

const (
	OriginSeed Origin = iota
	OriginConfigured
	OriginLearned
)

func (o Origin) String() string {
	switch o {
	case OriginSeed:
		return "seed"
	case OriginConfigured:
		return "configured"
	case OriginLearned:
		return "learned"
	default:
		return "unknown"
	}
}
