// Package usecase contains application business logic.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
)

// ScannerImpl implements domain.Scanner.
type ScannerImpl struct {
	provider   domain.SnapshotProvider
	registry   domain.ActionStore
	root       domain.Handle
	strategies map[domain.Action]Strategy
	logger     *zap.Logger
}

// NewScanner creates a scanner over the given provider root.
func NewScanner(
	provider domain.SnapshotProvider,
	registry domain.ActionStore,
	root domain.Handle,
	logger *zap.Logger,
) domain.Scanner {
	return &ScannerImpl{
		provider: provider,
		registry: registry,
		root:     root,
		strategies: map[domain.Action]Strategy{
			domain.ActionClick:           &ClickStrategy{provider: provider},
			domain.ActionScrollThenClick: &ScrollThenClickStrategy{provider: provider, root: root, logger: logger},
		},
		logger: logger,
	}
}

// Scan runs one cycle against the current UI snapshot.
func (s *ScannerImpl) Scan(ctx context.Context) (*domain.ScanOutcome, error) {
	start := time.Now()

	buttons, err := s.provider.ListButtons(ctx, s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSnapshotFailed, err)
	}

	// A started cycle runs to completion; cancellation is honoured between cycles.
	ctx = context.WithoutCancel(ctx)

	candidates := s.filter(buttons)

	result := &domain.ScanOutcome{
		Kind:         domain.OutcomeNoButtonsFound,
		Count:        len(candidates),
		Learned:      make([]string, 0),
		InvokedNames: make([]string, 0),
		Errors:       make([]error, 0),
		ExecutedAt:   start,
	}
	if len(candidates) > 0 {
		result.Kind = domain.OutcomeButtonsHandled
	}

	for _, b := range candidates {
		s.handle(ctx, b, result)
	}

	result.DurationMs = time.Since(start).Milliseconds()

	return result, nil
}

// filter drops unreadable and blank names and anything already resolved to Ignore.
func (s *ScannerImpl) filter(buttons []domain.ButtonObservation) []domain.ButtonObservation {
	result := make([]domain.ButtonObservation, 0, len(buttons))
	for _, b := range buttons {
		if b.NameErr != nil || strings.TrimSpace(b.Name) == "" {
			continue
		}
		if action, ok := s.registry.Resolve(b.Name); ok && action == domain.ActionIgnore {
			continue
		}
		result = append(result, b)
	}
	return result
}

func (s *ScannerImpl) handle(ctx context.Context, b domain.ButtonObservation, result *domain.ScanOutcome) {
	action, ok := s.registry.Resolve(b.Name)
	if !ok {
		if err := s.registry.Remember(b.Name, domain.ActionIgnore); err != nil {
			s.logger.Warn("failed to remember unknown button",
				zap.String("button", b.Name),
				zap.Error(err))
			return
		}
		s.logger.Info("ignoring unknown button",
			zap.String("button", b.Name))
		result.Learned = append(result.Learned, b.Name)
		return
	}

	strategy, ok := s.strategies[action]
	if !ok {
		// Ignore, possibly learned earlier in this same cycle.
		return
	}

	if !b.Enabled {
		s.logger.Debug("button disabled, retrying next cycle",
			zap.String("button", b.Name),
			zap.String("action", action.String()))
		result.Deferred++
		return
	}

	if err := strategy.Execute(ctx, b); err != nil {
		s.logger.Warn("failed to invoke button",
			zap.String("button", b.Name),
			zap.String("action", action.String()),
			zap.Error(err))
		result.Failed++
		result.Errors = append(result.Errors, err)
		return
	}

	s.logger.Info("invoked button",
		zap.String("button", b.Name),
		zap.String("action", action.String()),
		zap.Bool("offscreen", b.Offscreen))
	result.Invoked++
	result.InvokedNames = append(result.InvokedNames, b.Name)
}

// Ensure ScannerImpl implements domain.Scanner.
var _ domain.Scanner = (*ScannerImpl)(nil)
