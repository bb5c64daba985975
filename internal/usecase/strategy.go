package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
)

// Strategy performs a configured action on one button.
type Strategy interface {
	Execute(ctx context.Context, button domain.ButtonObservation) error
}

// ClickStrategy invokes the button directly.
type ClickStrategy struct {
	provider domain.SnapshotProvider
}

func (c *ClickStrategy) Execute(ctx context.Context, button domain.ButtonObservation) error {
	return c.provider.Invoke(ctx, button.Handle)
}

// ScrollThenClickStrategy brings the last offscreen list item into view
// before invoking the button. Typical use: terms-of-service lists whose
// accept button stays inert until the end of the list has been shown.
type ScrollThenClickStrategy struct {
	provider domain.SnapshotProvider
	root     domain.Handle
	logger   *zap.Logger
}

func (s *ScrollThenClickStrategy) Execute(ctx context.Context, button domain.ButtonObservation) error {
	s.scrollLastOffscreen(ctx)
	return s.provider.Invoke(ctx, button.Handle)
}

// scrollLastOffscreen is best effort; the invoke is attempted regardless.
func (s *ScrollThenClickStrategy) scrollLastOffscreen(ctx context.Context) {
	items, err := s.provider.ListOffscreenItems(ctx, s.root)
	if err != nil {
		s.logger.Warn("failed to list offscreen items", zap.Error(err))
		return
	}

	var last *domain.ListItem
	for i := range items {
		if items[i].Offscreen {
			last = &items[i]
		}
	}
	if last == nil {
		return
	}

	if err := s.provider.ScrollIntoView(ctx, last.Handle); err != nil {
		s.logger.Warn("failed to scroll item into view",
			zap.String("item", last.Name),
			zap.Error(err))
		return
	}
	s.logger.Debug("scrolled item into view", zap.String("item", last.Name))
}

var (
	_ Strategy = (*ClickStrategy)(nil)
	_ Strategy = (*ScrollThenClickStrategy)(nil)
)
