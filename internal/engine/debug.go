package engine

// Debug commands. They bypass the normal reward flow.

func (t *txn) testAddXP(c TestAddXP) *Rejection {
	if c.Amount <= 0 {
		return rejectf(CodeInvalidPayload, "amount must be positive")
	}
	stats := &t.st.Stats
	stats.LifetimeXP += c.Amount
	levels, titles := stats.gainXP(c.Amount)
	t.notify("Added %d XP", c.Amount)
	for _, lvl := range levels {
		t.emit(GameEvent{Type: EventLevelUp, Message: levelUpMessage(lvl)})
	}
	for _, title := range titles {
		t.emit(GameEvent{Type: EventAchievement, Message: "Title unlocked: " + title})
	}
	return nil
}

func (t *txn) testAddGold(c TestAddGold) *Rejection {
	if c.Amount <= 0 {
		return rejectf(CodeInvalidPayload, "amount must be positive")
	}
	t.st.Stats.Gold += c.Amount
	t.st.Stats.LifetimeGold += c.Amount
	t.notify("Added %d Gold", c.Amount)
	return nil
}

// testAddStreak marks the three days just before the current run as complete.
func (t *txn) testAddStreak() *Rejection {
	stats := &t.st.Stats
	if stats.CompletionHistory == nil {
		stats.CompletionHistory = map[string]bool{}
	}
	day := t.env.Now
	if !stats.CompletionHistory[DayKey(day)] {
		day = day.AddDate(0, 0, -1)
	}
	for stats.CompletionHistory[DayKey(day)] {
		day = day.AddDate(0, 0, -1)
	}
	for i := 0; i < 3; i++ {
		stats.CompletionHistory[DayKey(day)] = true
		day = day.AddDate(0, 0, -1)
	}
	stats.GlobalStreak = GlobalStreak(stats.CompletionHistory, t.env.Now)
	t.notify("Streak boosted.")
	return nil
}

func (t *txn) testFailAll() *Rejection {
	t.transition()
	t.st.Stats.GlobalStreak = 0
	t.st.Stats.CompletionHistory = map[string]bool{}
	t.notify("Forced Fail triggered.")
	return nil
}
