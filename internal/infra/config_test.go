package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
	"github.com/eliteGoblin/focusd/autopress/internal/policy"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "autopress.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfigFrom(NewViper(""))
	require.NoError(t, err)

	assert.Equal(t, policy.DefaultBaseDelay, cfg.Loop.BaseDelay)
	assert.Equal(t, policy.DefaultMaxDelay, cfg.Loop.MaxDelay)
	assert.Equal(t, 30*time.Second, cfg.Target.WaitTimeout)
	assert.Equal(t, time.Second, cfg.Target.PollInterval)
	assert.Zero(t, cfg.Loop.MissThreshold)
	assert.False(t, cfg.Registry.AllowSeedOverride)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
target:
  process: Launcher
  wait_timeout: 5s
loop:
  base_delay: 150ms
  max_delay: 2s
  miss_threshold: 20
  terminal_button: Finish
registry:
  allow_seed_override: true
buttons:
  - name: Continue
    action: click
  - name: I Agree
    action: scroll_then_click
  - name: Remind Me Later
    action: ignore
log:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "Launcher", cfg.Target.Process)
	assert.Equal(t, 5*time.Second, cfg.Target.WaitTimeout)
	assert.Equal(t, 150*time.Millisecond, cfg.Loop.BaseDelay)
	assert.Equal(t, 2*time.Second, cfg.Loop.MaxDelay)
	assert.Equal(t, 20, cfg.Loop.MissThreshold)
	assert.Equal(t, "Finish", cfg.Loop.TerminalButton)
	assert.True(t, cfg.Registry.AllowSeedOverride)
	assert.Equal(t, "debug", cfg.Log.Level)

	actions, err := cfg.ButtonActions()
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Action{
		"Continue":        domain.ActionClick,
		"I Agree":         domain.ActionScrollThenClick,
		"Remind Me Later": domain.ActionIgnore,
	}, actions)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("AUTOPRESS_LOOP_BASE_DELAY", "500ms")
	t.Setenv("AUTOPRESS_TARGET_PROCESS", "Installer")

	cfg, err := LoadConfigFrom(NewViper(""))
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Loop.BaseDelay)
	assert.Equal(t, "Installer", cfg.Target.Process)
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"unknown action": "buttons:\n  - name: Continue\n    action: doubleclick\n",
		"empty name":     "buttons:\n  - name: \"  \"\n    action: click\n",
		"zero base":      "loop:\n  base_delay: 0s\n",
		"max below base": "loop:\n  base_delay: 2s\n  max_delay: 1s\n",
		"negative miss":  "loop:\n  miss_threshold: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestButtonActions_LaterRuleWins(t *testing.T) {
	cfg := &Config{Buttons: []ButtonRule{
		{Name: "Continue", Action: "ignore"},
		{Name: " Continue ", Action: "click"},
	}}

	actions, err := cfg.ButtonActions()
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Action{"Continue": domain.ActionClick}, actions)
}
