package uitree

import (
	"context"
	"errors"
	"fmt"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
)

// Accessibility actions understood by every ElementSource.
const (
	ActionPress           = "press"
	ActionScrollToVisible = "scrollToVisible"
)

// ErrNameUnreadable is attached to observations whose label could not be read.
var ErrNameUnreadable = errors.New("element name could not be read")

// Target identifies the application window the tree is read from.
type Target struct {
	App string
	PID int
}

// ElementRef is the handle TreeProvider hands out for buttons and list items.
type ElementRef struct {
	Target Target
	ID     int
	Path   string
}

// ElementSource reads the element tree of a target and performs accessibility
// actions on elements by the sequential ID assigned in the last read.
type ElementSource interface {
	ReadElements(ctx context.Context, target Target) ([]Element, error)
	PerformAction(ctx context.Context, target Target, id int, action string) error
}

// TreeProvider adapts an ElementSource to domain.SnapshotProvider.
// The root handle passed by the scan loop must be a Target.
type TreeProvider struct {
	source ElementSource
}

// NewTreeProvider creates a snapshot provider over an element source.
func NewTreeProvider(source ElementSource) *TreeProvider {
	return &TreeProvider{source: source}
}

func (p *TreeProvider) ListButtons(ctx context.Context, root domain.Handle) ([]domain.ButtonObservation, error) {
	target, flat, err := p.read(ctx, root)
	if err != nil {
		return nil, err
	}

	var result []domain.ButtonObservation
	for _, el := range flat {
		if !IsButton(el.Role) {
			continue
		}
		obs := domain.ButtonObservation{
			Name:      el.Label(),
			Enabled:   el.Enabled,
			Offscreen: el.Offscreen,
			Handle:    ElementRef{Target: target, ID: el.ID, Path: el.Path},
		}
		if el.Unreadable {
			obs.Name = ""
			obs.NameErr = ErrNameUnreadable
		}
		result = append(result, obs)
	}
	return result, nil
}

func (p *TreeProvider) Invoke(ctx context.Context, button domain.Handle) error {
	return p.perform(ctx, button, ActionPress)
}

func (p *TreeProvider) ListOffscreenItems(ctx context.Context, root domain.Handle) ([]domain.ListItem, error) {
	target, flat, err := p.read(ctx, root)
	if err != nil {
		return nil, err
	}

	var result []domain.ListItem
	for _, el := range flat {
		if !IsListItem(el.Role) {
			continue
		}
		result = append(result, domain.ListItem{
			Name:      el.Label(),
			Offscreen: el.Offscreen,
			Handle:    ElementRef{Target: target, ID: el.ID, Path: el.Path},
		})
	}
	return result, nil
}

func (p *TreeProvider) ScrollIntoView(ctx context.Context, item domain.Handle) error {
	return p.perform(ctx, item, ActionScrollToVisible)
}

// Changes forwards change notifications when the source supports them.
// It returns nil otherwise, which makes an event trigger poll.
func (p *TreeProvider) Changes() <-chan struct{} {
	if n, ok := p.source.(domain.ChangeNotifier); ok {
		return n.Changes()
	}
	return nil
}

func (p *TreeProvider) read(ctx context.Context, root domain.Handle) (Target, []FlatElement, error) {
	target, ok := root.(Target)
	if !ok {
		return Target{}, nil, fmt.Errorf("unsupported root handle %T", root)
	}
	elements, err := p.source.ReadElements(ctx, target)
	if err != nil {
		return target, nil, err
	}
	return target, FlattenElements(elements), nil
}

func (p *TreeProvider) perform(ctx context.Context, h domain.Handle, action string) error {
	ref, ok := h.(ElementRef)
	if !ok {
		return fmt.Errorf("unsupported element handle %T", h)
	}
	return p.source.PerformAction(ctx, ref.Target, ref.ID, action)
}
