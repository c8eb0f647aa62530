package engine

import (
	"math"
	"time"
)

// StreakMultiplier is 1.0 below a three day streak, then 1.1 growing by 0.1 per day, capped at 1.5.
func StreakMultiplier(streak int) float64 {
	if streak < 3 {
		return 1.0
	}
	m := 1.0 + 0.1 + 0.1*float64(streak-3)
	// 0.1 steps accumulate float error; keep two decimals.
	m = math.Round(m*100) / 100
	return math.Min(1.5, m)
}

// GlobalStreak counts consecutive marked days ending today, or ending
// yesterday when today is not marked yet.
func GlobalStreak(history map[string]bool, today time.Time) int {
	day := today
	if !history[DayKey(day)] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for history[DayKey(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// allDailiesDone reports whether at least one daily exists and all are complete.
func allDailiesDone(quests []Quest) bool {
	n := 0
	for _, q := range quests {
		if q.Type != QuestDaily {
			continue
		}
		n++
		if !q.Completed {
			return false
		}
	}
	return n > 0
}

// markCompletion recomputes today's completion flag and the global streak.
func markCompletion(st *State, now time.Time) {
	if st.Stats.CompletionHistory == nil {
		st.Stats.CompletionHistory = map[string]bool{}
	}
	key := DayKey(now)
	if allDailiesDone(st.Quests) {
		st.Stats.CompletionHistory[key] = true
	} else {
		delete(st.Stats.CompletionHistory, key)
	}
	st.Stats.GlobalStreak = GlobalStreak(st.Stats.CompletionHistory, now)
}
