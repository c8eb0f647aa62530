package engine

import "math"

var rewardMultipliers = map[Difficulty]float64{
	DifficultyEasy:   0.5,
	DifficultyMedium: 1.0,
	DifficultyHard:   2.0,
}

// DifficultyMultiplier returns the reward factor for d. Unset difficulty counts as MEDIUM.
func DifficultyMultiplier(d Difficulty) float64 {
	if m, ok := rewardMultipliers[d]; ok {
		return m
	}
	return 1.0
}

// BaseReward is the unscaled reward before difficulty is applied.
type BaseReward struct {
	XP   float64
	Gold float64
	QP   float64
}

// ComputeReward scales base by the difficulty table. Risk adds the flat
// gold bonus before scaling. Every channel rounds up and never goes below zero.
func (r Rules) ComputeReward(base BaseReward, d Difficulty, risk bool) Reward {
	mult := DifficultyMultiplier(d)
	gold := base.Gold
	if risk {
		gold += float64(r.RiskGoldBonus)
	}
	return Reward{
		XP:   nonNegCeil(base.XP * mult),
		Gold: nonNegCeil(gold * mult),
		QP:   nonNegCeil(base.QP * mult),
	}
}

// ApplyStreak scales XP and gold by the streak multiplier, flooring. QP is untouched.
func ApplyStreak(r Reward, multiplier float64) Reward {
	return Reward{
		XP:   int(math.Floor(float64(r.XP) * multiplier)),
		Gold: int(math.Floor(float64(r.Gold) * multiplier)),
		QP:   r.QP,
	}
}

// applyVariance draws uniformly from [v*(1-frac), v*(1+frac)) and floors.
func applyVariance(rng Rand, v int, frac float64) int {
	lo := float64(v) * (1 - frac)
	hi := float64(v) * (1 + frac)
	return int(math.Floor(rng.Float64()*(hi-lo) + lo))
}

// nonNegCeil tolerates float noise such as 2.0000000000000004.
func nonNegCeil(v float64) int {
	c := int(math.Ceil(v - 1e-9))
	if c < 0 {
		return 0
	}
	return c
}

func atLeast(v, min int) int {
	if v < min {
		return min
	}
	return v
}
