// Package config loads engine configuration from the environment or from
// YAML profiles.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/zacharyburnett/TypePigeon/pkg/capabilities"
	"github.com/zacharyburnett/TypePigeon/pkg/coerce"
	"github.com/zacharyburnett/TypePigeon/pkg/descriptor"
)

// maxMaxDepth caps MaxDepth well below the point where recursion would
// exhaust the goroutine stack.
const maxMaxDepth = 10_000

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// Config holds engine settings.
type Config struct {
	// MaxDepth bounds descriptor nesting. ENV: TYPEPIGEON_MAX_DEPTH
	MaxDepth int `env:"TYPEPIGEON_MAX_DEPTH,default=64,strict" yaml:"max_depth"`
	// Capabilities is "all", "none" or a comma separated list of names.
	// ENV: TYPEPIGEON_CAPABILITIES
	Capabilities string `env:"TYPEPIGEON_CAPABILITIES,default=all" yaml:"capabilities"`
	// DayFirst reads ambiguous dates such as 02/01/2021 as 2 January.
	// ENV: TYPEPIGEON_DAY_FIRST
	DayFirst bool `env:"TYPEPIGEON_DAY_FIRST,default=false,strict" yaml:"day_first"`

	// Profile names a profile_<name>.yaml in ProfileDir that replaces the
	// settings above. ENV: TYPEPIGEON_PROFILE, TYPEPIGEON_PROFILE_DIR
	Profile    string `env:"TYPEPIGEON_PROFILE" yaml:"-"`
	ProfileDir string `env:"TYPEPIGEON_PROFILE_DIR,default=." yaml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		MaxDepth:     descriptor.DefaultMaxDepth,
		Capabilities: "all",
		ProfileDir:   ".",
	}
}

// Load reads the configuration from environment variables, then from the
// named profile when TYPEPIGEON_PROFILE is set.
func Load() (*Config, error) {
	cfg := Default()
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	if cfg.Profile != "" {
		profile, err := LoadProfile(cfg.ProfileDir, cfg.Profile)
		if err != nil {
			return nil, err
		}
		cfg = profile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("config: loaded",
		"max_depth", cfg.MaxDepth,
		"capabilities", cfg.Capabilities,
		"day_first", cfg.DayFirst,
		"profile", cfg.Profile,
	)
	return cfg, nil
}

// LoadProfile loads profile_<name>.yaml from dir. Settings the file leaves
// out keep their defaults.
func LoadProfile(dir, name string) (*Config, error) {
	name = strings.ToLower(name)
	path := filepath.Join(dir, fmt.Sprintf("profile_%s.yaml", name))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load profile %q: %w", name, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse profile %q: %w", name, err)
	}
	cfg.Profile = name
	cfg.ProfileDir = dir
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: profile %q: %w", name, err)
	}
	return cfg, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.MaxDepth < 1 || c.MaxDepth > maxMaxDepth {
		return fmt.Errorf("%w: max_depth %d outside [1, %d]", ErrInvalidConfig, c.MaxDepth, maxMaxDepth)
	}
	for _, name := range c.Probe().Names() {
		if !slices.Contains(capabilities.Known, name) {
			slog.Warn("config: unknown capability ignored", "capability", name, "known", capabilities.Known)
		}
	}
	return nil
}

// Probe returns the capability set the configuration enables.
func (c *Config) Probe() capabilities.Set {
	return capabilities.Parse(c.Capabilities)
}

// EngineOptions turns the configuration into coercion engine options.
func (c *Config) EngineOptions() []coerce.Option {
	return []coerce.Option{
		coerce.WithMaxDepth(c.MaxDepth),
		coerce.WithCapabilities(c.Probe()),
		coerce.WithDayFirst(c.DayFirst),
	}
}
