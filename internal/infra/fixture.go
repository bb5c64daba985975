package infra

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
	"github.com/eliteGoblin/focusd/autopress/internal/policy"
	"github.com/eliteGoblin/focusd/autopress/internal/uitree"
)

// ScreenExit is the transition target that closes the fixture application.
const ScreenExit = "exit"

// ErrElementNotFound is returned for actions on IDs absent from the current screen.
var ErrElementNotFound = errors.New("element not found")

// Screen is one state of a fixture application.
type Screen struct {
	Elements []uitree.Element `yaml:"elements"`
	// OnPress maps a button label to the next screen name.
	OnPress map[string]string `yaml:"on_press,omitempty"`
	// FailPress lists button labels whose press reports an error.
	FailPress []string `yaml:"fail_press,omitempty"`
}

// Fixture is a scripted application: named screens and press transitions.
type Fixture struct {
	App     string            `yaml:"app"`
	Start   string            `yaml:"start"`
	Screens map[string]Screen `yaml:"screens"`
}

// ParseFixture decodes and validates fixture yaml.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	// IDs are unique across screens so a handle read before a transition
	// can never press an element of the next screen.
	names := make([]string, 0, len(f.Screens))
	for name := range f.Screens {
		names = append(names, name)
	}
	sort.Strings(names)
	next := 1
	for _, name := range names {
		screen := f.Screens[name]
		next = uitree.AssignIDsFrom(screen.Elements, next)
		f.Screens[name] = screen
	}
	return &f, nil
}

// LoadFixture reads a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return ParseFixture(data)
}

// Validate checks that the start screen and every transition target exist.
func (f *Fixture) Validate() error {
	if len(f.Screens) == 0 {
		return errors.New("fixture has no screens")
	}
	if _, ok := f.Screens[f.Start]; !ok {
		return fmt.Errorf("fixture start screen %q not defined", f.Start)
	}
	for name, screen := range f.Screens {
		for label, next := range screen.OnPress {
			if next == ScreenExit {
				continue
			}
			if _, ok := f.Screens[next]; !ok {
				return fmt.Errorf("screen %q: press %q goes to undefined screen %q", name, label, next)
			}
		}
	}
	return nil
}

// FixtureSource plays a Fixture as a uitree.ElementSource.
// Pressing a button with a transition swaps in a fresh copy of the next
// screen and sends a change notification.
type FixtureSource struct {
	mu      sync.Mutex
	fixture *Fixture
	screen  string
	current []uitree.Element
	presses []string
	changes chan struct{}
}

// NewFixtureSource starts the fixture on its start screen.
func NewFixtureSource(f *Fixture) *FixtureSource {
	s := &FixtureSource{
		fixture: f,
		changes: make(chan struct{}, 1),
	}
	s.enter(f.Start)
	return s
}

// ReadElements returns a copy of the current screen's tree.
func (s *FixtureSource) ReadElements(ctx context.Context, target uitree.Target) ([]uitree.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen == ScreenExit {
		return nil, fmt.Errorf("fixture %q exited: %w", s.fixture.App, domain.ErrTargetGone)
	}
	return uitree.Clone(s.current), nil
}

// PerformAction presses or scrolls an element of the current screen.
func (s *FixtureSource) PerformAction(ctx context.Context, target uitree.Target, id int, action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen == ScreenExit {
		return domain.ErrTargetGone
	}
	el := uitree.FindByID(s.current, id)
	if el == nil {
		return fmt.Errorf("screen %q id %d: %w", s.screen, id, ErrElementNotFound)
	}

	switch action {
	case uitree.ActionScrollToVisible:
		el.Offscreen = false
		return nil
	case uitree.ActionPress:
		return s.press(el)
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}

func (s *FixtureSource) press(el *uitree.Element) error {
	label := el.Label()
	if !el.IsEnabled() {
		return fmt.Errorf("button %q is disabled", label)
	}

	screen := s.fixture.Screens[s.screen]
	for _, failing := range screen.FailPress {
		if policy.SameName(failing, label) {
			return fmt.Errorf("button %q did not respond", label)
		}
	}

	s.presses = append(s.presses, label)
	for name, next := range screen.OnPress {
		if policy.SameName(name, label) {
			s.enter(next)
			s.notify()
			break
		}
	}
	return nil
}

func (s *FixtureSource) enter(name string) {
	s.screen = name
	if name == ScreenExit {
		s.current = nil
		return
	}
	s.current = uitree.Clone(s.fixture.Screens[name].Elements)
}

func (s *FixtureSource) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Changes receives a value after every screen transition.
func (s *FixtureSource) Changes() <-chan struct{} {
	return s.changes
}

// Screen returns the name of the current screen.
func (s *FixtureSource) Screen() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

// Presses returns the labels of all successful presses in order.
func (s *FixtureSource) Presses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.presses...)
}

var (
	_ uitree.ElementSource  = (*FixtureSource)(nil)
	_ domain.ChangeNotifier = (*FixtureSource)(nil)
)
