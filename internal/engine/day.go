package engine

// dailyReset runs the transition unless it already ran for today.
func (t *txn) dailyReset() *Rejection {
	if !t.st.NeedsRollover(t.env.Now) {
		return rejectf(CodeAlreadyProcessed, "day %s already processed", t.today())
	}
	t.transition()
	return nil
}

// riskyFailures counts incomplete daily and side quests that carry fail risk.
func riskyFailures(quests []Quest) int {
	n := 0
	for _, q := range quests {
		if q.Completed || !q.FailRisk {
			continue
		}
		if q.Type == QuestDaily || q.Type == QuestSide {
			n++
		}
	}
	return n
}

// keepOnRollover decides whether a non-daily quest survives into the new day.
func (t *txn) keepOnRollover(q Quest) bool {
	if t.rules.ArchivePolicy != ArchiveStale {
		return false
	}
	if q.Completed || q.overdue(t.env.Now) {
		return false
	}
	// Failed risky side quests go to the archive either way.
	return !(q.Type == QuestSide && q.FailRisk)
}

// transition is the nightly rollover. The order of the steps matters.
func (t *txn) transition() {
	st := t.st
	stats := &st.Stats

	fails := riskyFailures(st.Quests)
	if fails > 0 {
		yesterday := DayKey(t.env.Now.AddDate(0, 0, -1))
		stats.book(yesterday, func(r *HistoryRecord) { r.Fails = fails })
	}

	kept := make([]Quest, 0, len(st.Quests))
	var archived []Quest
	for _, q := range st.Quests {
		if q.Type == QuestDaily {
			q.Completed = false
			q.DueDate = nil
			q.Grant = nil
			q.Progress = nil
			kept = append(kept, q)
			continue
		}
		if t.keepOnRollover(q) {
			kept = append(kept, q)
			continue
		}
		archived = append(archived, q)
	}
	// Newest first, matching delete.
	for i, j := 0, len(archived)-1; i < j; i, j = i+1, j-1 {
		archived[i], archived[j] = archived[j], archived[i]
	}
	st.Archived = append(archived, st.Archived...)
	st.Quests = append(kept, t.rules.GenerateEventOffers(t.env, st.EventTemplates)...)

	st.Offers = t.rules.generateBoard(t.env, *st)

	stats.resetDaily()
	st.SideQuestsChosenCount = 0
	st.LastProcessedDate = t.today()
	stats.LastLoginDate = t.today()

	stats.GlobalStreak = GlobalStreak(stats.CompletionHistory, t.env.Now)

	t.record("DAY_TRANSITION", "Daily reset performed. %d failures recorded.", fails)
	t.notify("A new day begins. Dailies reset.")
}
