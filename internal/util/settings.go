package util

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/DaanHessen/questlog-tui/internal/engine"
	"github.com/spf13/viper"
)

// Settings is the YAML settings file.
type Settings struct {
	Rules engine.Rules  `mapstructure:"rules"`
	Store StoreSettings `mapstructure:"store"`
	UI    UISettings    `mapstructure:"ui"`
	Log   LogSettings   `mapstructure:"log"`
	Save  SaveSettings  `mapstructure:"save"`
}

type StoreSettings struct {
	Driver string `mapstructure:"driver"` // sqlite|postgres
	DSN    string `mapstructure:"dsn"`
	Slot   string `mapstructure:"slot"`
}

type UISettings struct {
	Theme string `mapstructure:"theme"`
}

type LogSettings struct {
	Path  string `mapstructure:"path"`
	Debug bool   `mapstructure:"debug"`
}

type SaveSettings struct {
	Debounce time.Duration `mapstructure:"debounce"`
	MaxWait  time.Duration `mapstructure:"max_wait"`
}

func setDefaults(v *viper.Viper) {
	r := engine.DefaultRules()
	v.SetDefault("rules.max_active_side", r.MaxActiveSide)
	v.SetDefault("rules.max_active_focus", r.MaxActiveFocus)
	v.SetDefault("rules.max_daily_side_accepts", r.MaxDailySideAccepts)
	v.SetDefault("rules.max_daily_rerolls", r.MaxDailyRerolls)
	v.SetDefault("rules.reroll_cost", r.RerollCost)
	v.SetDefault("rules.risk_reroll_cost", r.RiskRerollCost)
	v.SetDefault("rules.risk_gold_bonus", r.RiskGoldBonus)
	v.SetDefault("rules.board_size", r.BoardSize)
	v.SetDefault("rules.reward_variance", r.RewardVariance)
	v.SetDefault("rules.due_min_days", r.DueMinDays)
	v.SetDefault("rules.due_max_days", r.DueMaxDays)
	v.SetDefault("rules.archive_policy", string(r.ArchivePolicy))
	v.SetDefault("rules.activity_log_limit", r.ActivityLogLimit)

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.slot", "default")
	v.SetDefault("ui.theme", "catppuccin")
	v.SetDefault("log.path", "questlog.log")
	v.SetDefault("log.debug", false)
	v.SetDefault("save.debounce", "1s")
	v.SetDefault("save.max_wait", "5s")
}

// LoadSettings reads the settings file at path. A missing file is not an
// error: every key has a default.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !missing(err) {
			return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Rules.Validate(); err != nil {
		return Settings{}, err
	}
	if s.Store.Driver != "sqlite" && s.Store.Driver != "postgres" {
		return Settings{}, fmt.Errorf("unknown store driver %q", s.Store.Driver)
	}
	return s, nil
}

func missing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
