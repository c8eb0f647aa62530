package engine

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Rules are the tunable limits and costs of the game loop.
type Rules struct {
	MaxActiveSide       int           `mapstructure:"max_active_side" validate:"gte=1"`
	MaxActiveFocus      int           `mapstructure:"max_active_focus" validate:"gte=1"`
	MaxDailySideAccepts int           `mapstructure:"max_daily_side_accepts" validate:"gte=0"`
	MaxDailyRerolls     int           `mapstructure:"max_daily_rerolls" validate:"gte=0"`
	RerollCost          int           `mapstructure:"reroll_cost" validate:"gte=0"`
	RiskRerollCost      int           `mapstructure:"risk_reroll_cost" validate:"gte=0"`
	RiskGoldBonus       int           `mapstructure:"risk_gold_bonus" validate:"gte=0"`
	BoardSize           int           `mapstructure:"board_size" validate:"gte=1"`
	RewardVariance      float64       `mapstructure:"reward_variance" validate:"gte=0,lt=1"`
	DueMinDays          int           `mapstructure:"due_min_days" validate:"gte=0"`
	DueMaxDays          int           `mapstructure:"due_max_days" validate:"gtefield=DueMinDays"`
	ArchivePolicy       ArchivePolicy `mapstructure:"archive_policy" validate:"oneof=all stale"`
	ActivityLogLimit    int           `mapstructure:"activity_log_limit" validate:"gte=0"`
}

// DefaultRules returns the stock game balance.
func DefaultRules() Rules {
	return Rules{
		MaxActiveSide:       5,
		MaxActiveFocus:      3,
		MaxDailySideAccepts: 2,
		MaxDailyRerolls:     2,
		RerollCost:          15,
		RiskRerollCost:      30,
		RiskGoldBonus:       6,
		BoardSize:           3,
		RewardVariance:      0.2,
		DueMinDays:          3,
		DueMaxDays:          7,
		ArchivePolicy:       ArchiveAll,
		ActivityLogLimit:    500,
	}
}

// Validate checks the rule bounds.
func (r Rules) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}
	return nil
}

// rerollCost is the gold price of swapping out offer q.
func (r Rules) rerollCost(q Quest) int {
	if q.FailRisk {
		return r.RiskRerollCost
	}
	return r.RerollCost
}
