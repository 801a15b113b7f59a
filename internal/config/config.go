package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/trackstars/trackstars/internal/currency"
)

// FileName is the config file looked for in the data directory.
const FileName = "trackstars.yaml"

// Config represents the top-level trackstars.yaml configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Display DisplayConfig `yaml:"display"`
	Git     GitConfig     `yaml:"git"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend    string `yaml:"backend" env:"TRACKSTARS_STORAGE_BACKEND"` // "flatfile" or "sqlite"
	SQLitePath string `yaml:"sqlite_path,omitempty" env:"TRACKSTARS_SQLITE_PATH"`
}

// LogConfig controls the diagnostic log file.
type LogConfig struct {
	File  string `yaml:"file" env:"TRACKSTARS_LOG_FILE"`
	Level string `yaml:"level" env:"TRACKSTARS_LOG_LEVEL"`
}

// DisplayConfig controls how results are presented.
type DisplayConfig struct {
	Currency    string `yaml:"currency" env:"TRACKSTARS_DISPLAY_CURRENCY"` // global summaries convert to this
	RecentLimit int    `yaml:"recent_limit" env:"TRACKSTARS_RECENT_LIMIT"`
}

// GitConfig controls committing the data directory after each change.
type GitConfig struct {
	Enabled bool `yaml:"enabled" env:"TRACKSTARS_GIT"`
}

// Load reads a trackstars.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, falling back to Default when the file does not
// exist. Environment overrides are applied and the result validated.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TRACKSTARS_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "flatfile",
		},
		Log: LogConfig{
			File:  "trackstars.log",
			Level: "info",
		},
		Display: DisplayConfig{
			Currency:    string(currency.Base),
			RecentLimit: 10,
		},
	}
}

// Validate checks enumerated and numeric fields.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "flatfile", "sqlite":
	default:
		return fmt.Errorf("config: storage.backend must be flatfile or sqlite, got %q", c.Storage.Backend)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if _, err := currency.Parse(c.Display.Currency); err != nil {
		return fmt.Errorf("config: display.currency: %w", err)
	}
	if c.Display.RecentLimit <= 0 {
		return fmt.Errorf("config: display.recent_limit must be positive, got %d", c.Display.RecentLimit)
	}
	return nil
}

// DisplayCurrency returns the validated display currency.
func (c *Config) DisplayCurrency() currency.Code {
	code, err := currency.Parse(c.Display.Currency)
	if err != nil {
		return currency.Base
	}
	return code
}
