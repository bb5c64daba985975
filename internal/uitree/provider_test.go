package uitree

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
)

type performed struct {
	target Target
	id     int
	action string
}

// mockSource is a test double for ElementSource
type mockSource struct {
	elements  []Element
	readErr   error
	actionErr error
	performed []performed
}

func (m *mockSource) ReadElements(ctx context.Context, target Target) ([]Element, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.elements, nil
}

func (m *mockSource) PerformAction(ctx context.Context, target Target, id int, action string) error {
	m.performed = append(m.performed, performed{target, id, action})
	return m.actionErr
}

type notifyingSource struct {
	mockSource
	changes chan struct{}
}

func (n *notifyingSource) Changes() <-chan struct{} { return n.changes }

var target = Target{App: "Launcher", PID: 4242}

func newSource() *mockSource {
	tree := sampleTree()
	tree[0].Children = append(tree[0].Children, Element{Role: "AXButton", Unreadable: true})
	AssignIDs(tree)
	return &mockSource{elements: tree}
}

func TestTreeProvider_ListButtons(t *testing.T) {
	p := NewTreeProvider(newSource())

	buttons, err := p.ListButtons(context.Background(), target)
	require.NoError(t, err)

	require.Len(t, buttons, 3)
	assert.Equal(t, "Continue", buttons[0].Name)
	assert.True(t, buttons[0].Enabled)
	assert.Equal(t, ElementRef{Target: target, ID: 2, Path: "window > btn"}, buttons[0].Handle)

	assert.Equal(t, "Close window", buttons[1].Name)
	assert.False(t, buttons[1].Enabled)

	assert.Empty(t, buttons[2].Name)
	assert.ErrorIs(t, buttons[2].NameErr, ErrNameUnreadable)
}

func TestTreeProvider_ListOffscreenItems(t *testing.T) {
	p := NewTreeProvider(newSource())

	items, err := p.ListOffscreenItems(context.Background(), target)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "clause 1", items[0].Name)
	assert.False(t, items[0].Offscreen)
	assert.Equal(t, "clause 2", items[1].Name)
	assert.True(t, items[1].Offscreen)
}

func TestTreeProvider_InvokeAndScroll(t *testing.T) {
	src := newSource()
	p := NewTreeProvider(src)
	ctx := context.Background()

	buttons, _ := p.ListButtons(ctx, target)
	items, _ := p.ListOffscreenItems(ctx, target)

	require.NoError(t, p.ScrollIntoView(ctx, items[1].Handle))
	require.NoError(t, p.Invoke(ctx, buttons[0].Handle))

	assert.Equal(t, []performed{
		{target, 6, ActionScrollToVisible},
		{target, 2, ActionPress},
	}, src.performed)
}

func TestTreeProvider_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("bad root", func(t *testing.T) {
		_, err := NewTreeProvider(newSource()).ListButtons(ctx, "not a target")
		assert.Error(t, err)
	})
	t.Run("bad handle", func(t *testing.T) {
		err := NewTreeProvider(newSource()).Invoke(ctx, 7)
		assert.Error(t, err)
	})
	t.Run("read error", func(t *testing.T) {
		src := newSource()
		src.readErr = domain.ErrTargetGone
		_, err := NewTreeProvider(src).ListButtons(ctx, target)
		assert.ErrorIs(t, err, domain.ErrTargetGone)
	})
	t.Run("action error", func(t *testing.T) {
		src := newSource()
		src.actionErr = errors.New("AXError -25204")
		err := NewTreeProvider(src).Invoke(ctx, ElementRef{Target: target, ID: 2})
		assert.EqualError(t, err, "AXError -25204")
	})
}

func TestTreeProvider_Changes(t *testing.T) {
	assert.Nil(t, NewTreeProvider(newSource()).Changes())

	changes := make(chan struct{})
	p := NewTreeProvider(&notifyingSource{changes: changes})
	assert.Equal(t, (<-chan struct{})(changes), p.Changes())
}

func TestNewSource_Unsupported(t *testing.T) {
	orig := NewSourceFunc
	NewSourceFunc = nil
	defer func() { NewSourceFunc = orig }()

	_, err := NewSource()
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestNewSource_Registered(t *testing.T) {
	orig := NewSourceFunc
	src := newSource()
	NewSourceFunc = func() (ElementSource, error) { return src, nil }
	defer func() { NewSourceFunc = orig }()

	got, err := NewSource()
	require.NoError(t, err)
	assert.Same(t, src, got)
}
