package infra

import (
	"context"
	"os"
	"sync"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
)

// mockProcessManager is a test double for ProcessManager
type mockProcessManager struct {
	mu          sync.Mutex
	runningPIDs map[int]bool
	byName      map[string][]int
	findCalls   int
	findErr     error
}

func newMockProcessManager() *mockProcessManager {
	return &mockProcessManager{
		runningPIDs: make(map[int]bool),
		byName:      make(map[string][]int),
	}
}

func (m *mockProcessManager) FindByName(pattern string) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.byName[pattern], nil
}

func (m *mockProcessManager) IsRunning(pid int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runningPIDs[pid]
}

func (m *mockProcessManager) GetCurrentPID() int {
	return os.Getpid()
}

func (m *mockProcessManager) SetRunning(pid int, running bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runningPIDs[pid] = running
}

func (m *mockProcessManager) SetProcess(name string, pids ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byName[name] = pids
	for _, pid := range pids {
		m.runningPIDs[pid] = true
	}
}

func (m *mockProcessManager) FindCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findCalls
}

var _ domain.ProcessManager = (*mockProcessManager)(nil)

// stubProvider is a SnapshotProvider that returns a fixed button list.
type stubProvider struct {
	buttons []domain.ButtonObservation
	calls   int
	changes chan struct{}
}

func (s *stubProvider) ListButtons(ctx context.Context, root domain.Handle) ([]domain.ButtonObservation, error) {
	s.calls++
	return s.buttons, nil
}

func (s *stubProvider) Invoke(ctx context.Context, button domain.Handle) error { return nil }

func (s *stubProvider) ListOffscreenItems(ctx context.Context, root domain.Handle) ([]domain.ListItem, error) {
	return nil, nil
}

func (s *stubProvider) ScrollIntoView(ctx context.Context, item domain.Handle) error { return nil }

func (s *stubProvider) Changes() <-chan struct{} { return s.changes }

// onboardingFixture is a three-screen installer flow used across infra tests.
const onboardingFixture = `
app: Launcher
start: welcome
screens:
  welcome:
    elements:
      - role: AXWindow
        title: Welcome
        children:
          - role: AXButton
            title: Minimize
          - role: AXButton
            title: Continue
    on_press:
      Continue: terms
  terms:
    elements:
      - role: AXWindow
        title: Terms
        children:
          - role: AXTable
            children:
              - role: AXRow
                title: clause 1
              - role: AXRow
                title: clause 9
                offscreen: true
          - role: AXButton
            title: I Agree
            enabled: false
          - role: AXButton
            title: Accept
    on_press:
      Accept: done
  done:
    elements:
      - role: AXWindow
        title: Done
        children:
          - role: AXButton
            title: Finish
          - role: AXButton
            title: Help
    on_press:
      Finish: exit
    fail_press:
      - Help
`
