// Package config loads and saves budget-simulator settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/drubhattacharya/budget-simulator/internal/engine"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v9"
)

// Config holds all budget-simulator configuration.
type Config struct {
	Baseline   BaselineConfig              `toml:"baseline"`
	Proposed   ProposedConfig              `toml:"proposed"`
	BreakEven  BreakEvenConfig             `toml:"breakeven"`
	Appearance AppearanceConfig            `toml:"appearance"`
	Server     ServerConfig                `toml:"server"`
	History    HistoryConfig               `toml:"history"`
	RateCards  map[string]RateCardOverride `toml:"rate_cards,omitempty"`
}

// BaselineConfig describes the volume and contract before renegotiation.
type BaselineConfig struct {
	Minutes      float64 `toml:"minutes"`
	GrowthFactor float64 `toml:"growth_factor"`
	VRIPercent   float64 `toml:"vri_percent"`
	RateCard     string  `toml:"rate_card"`
}

// ProposedConfig describes the renegotiated rates and the current split.
type ProposedConfig struct {
	Mode        string  `toml:"mode"` // "blended" or "separate"
	BlendedRate float64 `toml:"blended_rate"`
	VRIRate     float64 `toml:"vri_rate"`
	PhoneRate   float64 `toml:"phone_rate"`
	VRIPercent  float64 `toml:"vri_percent"`
}

// BreakEvenConfig holds break-even preferences.
type BreakEvenConfig struct {
	ShareBasis string `toml:"share_basis"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	LogLevel string `toml:"log_level"`
}

// HistoryConfig controls the saved-scenario database.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	DBPath  string `toml:"db_path,omitempty"`
}

// envOverrides are applied on top of the file. Nil numeric fields are
// unset, so an explicit 0 still overrides.
type envOverrides struct {
	BaseMinutes *float64 `env:"BUDGETSIM_BASE_MINUTES"`
	Growth      *float64 `env:"BUDGETSIM_GROWTH"`
	VRIPercent  *float64 `env:"BUDGETSIM_VRI_PERCENT"`
	Theme       string   `env:"BUDGETSIM_THEME"`
	Addr        string   `env:"BUDGETSIM_ADDR"`
	LogLevel    string   `env:"BUDGETSIM_LOG_LEVEL"`
	DBPath      string   `env:"BUDGETSIM_DB"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Baseline: BaselineConfig{
			Minutes:      20000,
			GrowthFactor: engine.DefaultGrowthFactor,
			VRIPercent:   50,
			RateCard:     DefaultRateCard,
		},
		Proposed: ProposedConfig{
			Mode:        "blended",
			BlendedRate: 0.75,
			VRIRate:     0.85,
			PhoneRate:   0.80,
			VRIPercent:  50,
		},
		BreakEven: BreakEvenConfig{
			ShareBasis: "current",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:     "127.0.0.1:8788",
			LogLevel: "info",
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budget-simulator")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budget-simulator")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the directory for the scenario history database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "budget-simulator")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "budget-simulator")
}

// HistoryPath returns the configured database path or the default location.
func (c Config) HistoryPath() string {
	if c.History.DBPath != "" {
		return c.History.DBPath
	}
	return filepath.Join(DataDir(), "history.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
		if err := cfg.validateRateCards(); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	if ov.BaseMinutes != nil {
		cfg.Baseline.Minutes = *ov.BaseMinutes
	}
	if ov.Growth != nil {
		cfg.Baseline.GrowthFactor = *ov.Growth
	}
	if ov.VRIPercent != nil {
		cfg.Baseline.VRIPercent = *ov.VRIPercent
		cfg.Proposed.VRIPercent = *ov.VRIPercent
	}
	if ov.Theme != "" {
		cfg.Appearance.Theme = ov.Theme
	}
	if ov.Addr != "" {
		cfg.Server.Addr = ov.Addr
	}
	if ov.LogLevel != "" {
		cfg.Server.LogLevel = ov.LogLevel
	}
	if ov.DBPath != "" {
		cfg.History.DBPath = ov.DBPath
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// ProposedMode returns the configured renegotiated rates as a RateMode.
func (c Config) ProposedMode() engine.RateMode {
	if strings.EqualFold(c.Proposed.Mode, "separate") {
		return engine.Separate{VRI: c.Proposed.VRIRate, Phone: c.Proposed.PhoneRate}
	}
	return engine.Blended{Rate: c.Proposed.BlendedRate}
}

// Scenario builds an engine scenario from the configuration. Reference
// rates come from the baseline rate card as of at.
func (c Config) Scenario(at time.Time) (engine.Scenario, error) {
	if err := c.validateRateCards(); err != nil {
		return engine.Scenario{}, fmt.Errorf("%w: %v", engine.ErrInvalidInput, err)
	}
	card, ok := c.LookupRateCardAt(c.Baseline.RateCard, at)
	if !ok {
		return engine.Scenario{}, fmt.Errorf("%w: unknown rate card %q", engine.ErrInvalidInput, c.Baseline.RateCard)
	}

	basis, err := engine.ParseShareBasis(c.BreakEven.ShareBasis)
	if err != nil {
		return engine.Scenario{}, err
	}

	return engine.Scenario{
		BaseMinutes:   c.Baseline.Minutes,
		GrowthFactor:  c.Baseline.GrowthFactor,
		BaselineSplit: engine.NewSplit(c.Baseline.VRIPercent),
		Split:         engine.NewSplit(c.Proposed.VRIPercent),
		Reference:     card.Mode(),
		Proposed:      c.ProposedMode(),
		Basis:         basis,
	}, nil
}
