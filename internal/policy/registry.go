package policy

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
)

var (
	// ErrEmptyName is returned when remembering a blank button name.
	ErrEmptyName = errors.New("button name is empty")

	// ErrSeedProtected is returned when a write would make a seed button clickable.
	ErrSeedProtected = errors.New("seed button can only be ignored")

	// ErrLearnedIgnore is returned when a write would un-ignore a learned button.
	ErrLearnedIgnore = errors.New("learned ignore cannot be reverted")
)

// RegistryOptions tunes how the initial mapping is layered with seeds.
type RegistryOptions struct {
	// AllowSeedOverride lets a clickable entry in the initial mapping replace
	// a seed. A configured Ignore keeps the seed, so runtime Remember calls
	// still cannot make it clickable.
	AllowSeedOverride bool
}

// Entry is a read-only view of one registry row.
type Entry struct {
	Name   string
	Action domain.Action
	Origin Origin
}

// ActionRegistry maps button names to actions case-insensitively.
// Each name is a small automaton: Unset, then Ignore, Click or ScrollThenClick,
// with seed and learned Ignore states being terminal for clickable writes.
// It is not safe for concurrent use; the scan loop owns it.
type ActionRegistry struct {
	entries map[string]Entry
}

// NewActionRegistry creates a registry from the configured mapping and layers
// the seed set on top.
func NewActionRegistry(initial map[string]domain.Action, opts RegistryOptions) *ActionRegistry {
	r := &ActionRegistry{
		entries: make(map[string]Entry, len(initial)+len(SeedNames)),
	}

	// Sorted so names that differ only in case resolve deterministically.
	names := make([]string, 0, len(initial))
	for name := range initial {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key := r.key(name)
		if key == "" {
			continue
		}
		r.entries[key] = Entry{Name: strings.TrimSpace(name), Action: initial[name], Origin: OriginConfigured}
	}

	for _, name := range SeedNames {
		key := r.key(name)
		if e, ok := r.entries[key]; ok && opts.AllowSeedOverride && e.Action != domain.ActionIgnore {
			continue
		}
		r.entries[key] = Entry{Name: name, Action: domain.ActionIgnore, Origin: OriginSeed}
	}

	return r
}

// Resolve returns the action for name, or false if the name was never seen.
func (r *ActionRegistry) Resolve(name string) (domain.Action, bool) {
	e, ok := r.entries[r.key(name)]
	if !ok {
		return domain.ActionIgnore, false
	}
	return e.Action, true
}

// Remember inserts or overwrites the action for name.
func (r *ActionRegistry) Remember(name string, action domain.Action) error {
	key := r.key(name)
	if key == "" {
		return ErrEmptyName
	}

	cur, ok := r.entries[key]
	if !ok {
		origin := OriginConfigured
		if action == domain.ActionIgnore {
			origin = OriginLearned
		}
		r.entries[key] = Entry{Name: strings.TrimSpace(name), Action: action, Origin: origin}
		return nil
	}

	switch cur.Origin {
	case OriginSeed:
		if action != domain.ActionIgnore {
			return ErrSeedProtected
		}
		return nil
	case OriginLearned:
		if action != domain.ActionIgnore {
			return ErrLearnedIgnore
		}
		return nil
	}

	cur.Action = action
	r.entries[key] = cur
	return nil
}

// Origin reports who wrote the entry for name.
func (r *ActionRegistry) Origin(name string) (Origin, bool) {
	e, ok := r.entries[r.key(name)]
	return e.Origin, ok
}

// Entries returns all rows sorted by folded name.
func (r *ActionRegistry) Entries() []Entry {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]Entry, len(keys))
	for i, k := range keys {
		result[i] = r.entries[k]
	}
	return result
}

// Len returns the number of known names, seeds included.
func (r *ActionRegistry) Len() int {
	return len(r.entries)
}

func (r *ActionRegistry) key(name string) string {
	return FoldName(name)
}

// FoldName returns the lookup key for a button name: trimmed and Unicode
// case folded. Every name comparison in autopress goes through it.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// SameName reports whether a and b name the same button.
func SameName(a, b string) bool {
	return FoldName(a) == FoldName(b)
}

// IsSeed reports whether name is in the seed set (case-insensitive).
func IsSeed(name string) bool {
	for _, s := range SeedNames {
		if SameName(s, name) {
			return true
		}
	}
	return false
}

// Ensure ActionRegistry implements domain.ActionStore.
var _ domain.ActionStore = (*ActionRegistry)(nil)
