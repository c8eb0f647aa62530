package util

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings read from the environment. Empty values
// leave the settings file in charge.
type Config struct {
	SettingsPath string `env:"QUESTLOG_CONFIG" envDefault:"questlog.yaml"`
	Driver       string `env:"QUESTLOG_DRIVER"`
	DSN          string `env:"QUESTLOG_DSN"`
	DatabaseURL  string `env:"DATABASE_URL"`
	Slot         string `env:"QUESTLOG_SLOT"`
	Seed         string `env:"QUESTLOG_SEED"`
	Debug        bool   `env:"QUESTLOG_DEBUG"`
	Theme        string `env:"QUESTLOG_THEME"`
	LogPath      string `env:"QUESTLOG_LOG"`
}

// LoadConfig parses the environment. Load .env first if you want it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Apply overrides file settings with whatever the environment set.
// QUESTLOG_DSN wins over DATABASE_URL.
func (c Config) Apply(s *Settings) {
	if c.Driver != "" {
		s.Store.Driver = c.Driver
	}
	if c.DatabaseURL != "" {
		s.Store.DSN = c.DatabaseURL
	}
	if c.DSN != "" {
		s.Store.DSN = c.DSN
	}
	if c.Slot != "" {
		s.Store.Slot = c.Slot
	}
	if c.Theme != "" {
		s.UI.Theme = c.Theme
	}
	if c.LogPath != "" {
		s.Log.Path = c.LogPath
	}
	if c.Debug {
		s.Log.Debug = true
	}
}
