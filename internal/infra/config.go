package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
	"github.com/eliteGoblin/focusd/autopress/internal/policy"
)

// ConfigName is the config file base name searched in the config paths.
const ConfigName = "autopress"

// ButtonRule maps one button name to an action.
// Buttons are a list rather than a map because viper lowercases map keys.
type ButtonRule struct {
	Name   string `mapstructure:"name"`
	Action string `mapstructure:"action"`
}

// TargetConfig selects the application to attach to.
type TargetConfig struct {
	Process      string        `mapstructure:"process"`
	WaitTimeout  time.Duration `mapstructure:"wait_timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// LoopConfig tunes the scan loop.
type LoopConfig struct {
	BaseDelay      time.Duration `mapstructure:"base_delay"`
	MaxDelay       time.Duration `mapstructure:"max_delay"`
	MissThreshold  int           `mapstructure:"miss_threshold"`
	TerminalButton string        `mapstructure:"terminal_button"`
}

type RegistryConfig struct {
	AllowSeedOverride bool `mapstructure:"allow_seed_override"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Config is the full autopress configuration.
type Config struct {
	Target   TargetConfig   `mapstructure:"target"`
	Loop     LoopConfig     `mapstructure:"loop"`
	Registry RegistryConfig `mapstructure:"registry"`
	Buttons  []ButtonRule   `mapstructure:"buttons"`
	Log      LogConfig      `mapstructure:"log"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// NewViper creates a viper instance with autopress defaults, env binding
// (AUTOPRESS_LOOP_BASE_DELAY etc.) and search paths.
func NewViper(explicitPath string) *viper.Viper {
	v := viper.New()

	v.SetDefault("target.process", "")
	v.SetDefault("target.wait_timeout", 30*time.Second)
	v.SetDefault("target.poll_interval", time.Second)
	v.SetDefault("loop.base_delay", policy.DefaultBaseDelay)
	v.SetDefault("loop.max_delay", policy.DefaultMaxDelay)
	v.SetDefault("loop.miss_threshold", 0)
	v.SetDefault("loop.terminal_button", "")
	v.SetDefault("registry.allow_seed_override", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("AUTOPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if explicitPath != "" {
		v.SetConfigFile(ExpandHome(explicitPath))
		return v
	}

	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	for _, path := range []string{".", "$HOME/.autopress", "/etc/autopress"} {
		v.AddConfigPath(os.ExpandEnv(path))
	}
	return v
}

// LoadConfig reads and validates configuration. A missing config file is not
// an error unless explicitPath was given.
func LoadConfig(explicitPath string) (*Config, error) {
	return LoadConfigFrom(NewViper(explicitPath))
}

// LoadConfigFrom reads configuration from a prepared viper instance.
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks delays and button actions.
func (c *Config) Validate() error {
	if c.Loop.BaseDelay <= 0 {
		return fmt.Errorf("loop.base_delay must be positive, got %s", c.Loop.BaseDelay)
	}
	if c.Loop.MaxDelay <= 0 {
		return fmt.Errorf("loop.max_delay must be positive, got %s", c.Loop.MaxDelay)
	}
	if c.Loop.MaxDelay < c.Loop.BaseDelay {
		return fmt.Errorf("loop.max_delay (%s) is less than loop.base_delay (%s)", c.Loop.MaxDelay, c.Loop.BaseDelay)
	}
	if c.Loop.MissThreshold < 0 {
		return fmt.Errorf("loop.miss_threshold must not be negative, got %d", c.Loop.MissThreshold)
	}
	_, err := c.ButtonActions()
	return err
}

// ButtonActions converts the button rules into the registry's initial mapping.
// Later rules win over earlier ones for the same name.
func (c *Config) ButtonActions() (map[string]domain.Action, error) {
	actions := make(map[string]domain.Action, len(c.Buttons))
	for i, rule := range c.Buttons {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return nil, fmt.Errorf("buttons[%d]: name is empty", i)
		}
		action, err := domain.ParseAction(rule.Action)
		if err != nil {
			return nil, fmt.Errorf("buttons[%d] %q: %w", i, name, err)
		}
		actions[name] = action
	}
	return actions, nil
}
