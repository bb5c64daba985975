// Package infra implements infrastructure concerns (process lookup, fixtures,
// config, status file, terminal input).
package infra

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
)

// ProcessManagerImpl implements domain.ProcessManager using gopsutil.
type ProcessManagerImpl struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() domain.ProcessManager {
	return &ProcessManagerImpl{}
}

// FindByName returns PIDs of processes matching the pattern (case-insensitive).
func (pm *ProcessManagerImpl) FindByName(pattern string) ([]int, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	var found []int
	patternLower := strings.ToLower(pattern)

	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // Process may have exited
		}
		if strings.Contains(strings.ToLower(name), patternLower) {
			found = append(found, int(p.Pid))
		}
	}

	return found, nil
}

// IsRunning checks if a PID exists.
func (pm *ProcessManagerImpl) IsRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	exists, err := process.PidExists(int32(pid))
	return err == nil && exists
}

// GetCurrentPID returns the current process PID.
func (pm *ProcessManagerImpl) GetCurrentPID() int {
	return os.Getpid()
}

// WaitForProcess polls until a process matching name appears, returning the
// first PID found. A zero timeout waits until ctx is done.
func WaitForProcess(ctx context.Context, pm domain.ProcessManager, name string, interval, timeout time.Duration) (int, error) {
	if interval <= 0 {
		interval = time.Second
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		pids, err := pm.FindByName(name)
		if err != nil {
			return 0, err
		}
		for _, pid := range pids {
			if pid != pm.GetCurrentPID() {
				return pid, nil
			}
		}

		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("waiting for %q: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}
}

// GuardedProvider fails snapshots with domain.ErrTargetGone once the target
// process exits, so the loop stops instead of scanning a dead window.
type GuardedProvider struct {
	domain.SnapshotProvider
	pm  domain.ProcessManager
	pid int
}

// NewGuardedProvider wraps provider with a liveness check on pid.
func NewGuardedProvider(provider domain.SnapshotProvider, pm domain.ProcessManager, pid int) *GuardedProvider {
	return &GuardedProvider{SnapshotProvider: provider, pm: pm, pid: pid}
}

func (g *GuardedProvider) ListButtons(ctx context.Context, root domain.Handle) ([]domain.ButtonObservation, error) {
	if !g.pm.IsRunning(g.pid) {
		return nil, fmt.Errorf("pid %d: %w", g.pid, domain.ErrTargetGone)
	}
	return g.SnapshotProvider.ListButtons(ctx, root)
}

// Changes forwards the wrapped provider's notifications, if any.
func (g *GuardedProvider) Changes() <-chan struct{} {
	if n, ok := g.SnapshotProvider.(domain.ChangeNotifier); ok {
		return n.Changes()
	}
	return nil
}

// Ensure ProcessManagerImpl implements domain.ProcessManager.
var _ domain.ProcessManager = (*ProcessManagerImpl)(nil)
