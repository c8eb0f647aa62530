package engine

import (
	"strings"
)

func (t *txn) hasOpenGrandmaster(except string) bool {
	for _, q := range t.st.Quests {
		if q.Type == QuestGrandmaster && !q.Completed && q.ID != except {
			return true
		}
	}
	return false
}

// checkDraft validates the caller-supplied fields shared by add and edit.
func checkDraft(q Quest) *Rejection {
	if strings.TrimSpace(q.Title) == "" {
		return rejectf(CodeInvalidPayload, "quest title is required")
	}
	if !q.Type.Validate() {
		return rejectf(CodeInvalidPayload, "unknown quest type %q", q.Type)
	}
	if q.Difficulty != "" && !q.Difficulty.Validate() {
		return rejectf(CodeInvalidPayload, "unknown difficulty %q", q.Difficulty)
	}
	if q.Reward.XP < 0 || q.Reward.Gold < 0 || q.Reward.QP < 0 {
		return rejectf(CodeInvalidPayload, "rewards must not be negative")
	}
	if !validSteps(q.Steps()) {
		return rejectf(CodeStepsMalformed, "steps need unique ids and must complete in order")
	}
	if f, ok := q.Focus(); ok && f.DurationMinutes <= 0 {
		return rejectf(CodeInvalidPayload, "focus duration must be positive")
	}
	return nil
}

// shapeQuest derives the fields that follow from type, steps and focus duration.
func shapeQuest(q *Quest) {
	q.normalizeDetail()
	q.enforceRisk()
	switch d := q.Detail.(type) {
	case HeroDetail:
		q.Progress = intPtr(stepProgress(d.Steps))
	case FocusDetail:
		if d.SecondsRemaining <= 0 || d.SecondsRemaining > d.DurationMinutes*60 {
			d.SecondsRemaining = d.DurationMinutes * 60
		}
		q.Detail = d
	}
}

func (t *txn) addQuest(c AddQuest) *Rejection {
	q := c.Quest.Clone()
	q.normalizeDetail()
	if rej := checkDraft(q); rej != nil {
		return rej
	}
	if q.Type == QuestGrandmaster && t.hasOpenGrandmaster("") {
		return rejectf(CodeGrandmasterActive, "a grandmaster quest is already active")
	}
	q.ID = t.env.newID(strings.ToLower(string(q.Type)))
	q.CreatedAt = t.env.Now
	q.Completed = false
	q.Grant = nil
	shapeQuest(&q)
	t.st.Quests = append(t.st.Quests, q)
	t.record("QUEST_CREATED", "Created %s quest: %q", q.Type, q.Title)
	return nil
}

func (t *txn) editQuest(c EditQuest) *Rejection {
	i := findQuest(t.st.Quests, c.Quest.ID)
	if i < 0 {
		return rejectf(CodeQuestNotFound, "quest %s not found", c.Quest.ID)
	}
	q := c.Quest.Clone()
	q.normalizeDetail()
	if rej := checkDraft(q); rej != nil {
		return rej
	}
	if q.Type == QuestGrandmaster && !q.Completed && t.hasOpenGrandmaster(q.ID) {
		return rejectf(CodeGrandmasterActive, "a grandmaster quest is already active")
	}
	old := t.st.Quests[i]
	if q.CreatedAt.IsZero() {
		q.CreatedAt = old.CreatedAt
	}
	// Completion state and its booked grant only change through toggle.
	q.Completed = old.Completed
	q.Grant = old.Grant
	if q.Type == QuestGrandmaster && q.Completed {
		if h, ok := q.Detail.(HeroDetail); ok && stepProgress(h.Steps) < 100 {
			return rejectf(CodeStepsIncomplete, "a completed grandmaster quest needs every step done")
		}
	}
	shapeQuest(&q)
	t.st.Quests[i] = q
	t.record("QUEST_EDITED", "Edited quest: %q", q.Title)
	return nil
}

func (t *txn) deleteQuest(c DeleteQuest) *Rejection {
	i := findQuest(t.st.Quests, c.ID)
	if i < 0 {
		return rejectf(CodeQuestNotFound, "quest %s not found", c.ID)
	}
	q := t.st.Quests[i]
	t.st.Quests = append(t.st.Quests[:i:i], t.st.Quests[i+1:]...)
	t.st.Archived = append([]Quest{q}, t.st.Archived...)
	t.record("QUEST_ARCHIVED", "Moved to trash: %q", q.Title)
	t.emit(GameEvent{
		Type:      EventSystemMessage,
		Message:   "Quest moved to archive.",
		QuestType: q.Type,
		Undo:      RestoreQuest{ID: q.ID},
	})
	return nil
}

func (t *txn) restoreQuest(c RestoreQuest) *Rejection {
	i := findQuest(t.st.Archived, c.ID)
	if i < 0 {
		return rejectf(CodeQuestNotFound, "archived quest %s not found", c.ID)
	}
	q := t.st.Archived[i]
	if q.Type == QuestGrandmaster && !q.Completed && t.hasOpenGrandmaster("") {
		return rejectf(CodeGrandmasterActive, "a grandmaster quest is already active")
	}
	t.st.Archived = append(t.st.Archived[:i:i], t.st.Archived[i+1:]...)
	t.st.Quests = append(t.st.Quests, q)
	t.record("QUEST_RESTORED", "Restored from trash: %q", q.Title)
	t.notify("Quest restored.")
	return nil
}

func (t *txn) permanentDelete(c PermanentDeleteQuest) *Rejection {
	i := findQuest(t.st.Archived, c.ID)
	if i < 0 {
		return rejectf(CodeQuestNotFound, "archived quest %s not found", c.ID)
	}
	q := t.st.Archived[i]
	t.st.Archived = append(t.st.Archived[:i:i], t.st.Archived[i+1:]...)
	t.record("QUEST_DELETED_FOREVER", "Permanently deleted: %q", q.Title)
	return nil
}

func (t *txn) toggleQuest(c ToggleQuest) *Rejection {
	i := findQuest(t.st.Quests, c.ID)
	if i < 0 {
		return rejectf(CodeQuestNotFound, "quest %s not found", c.ID)
	}
	q := t.st.Quests[i]
	if q.Type == QuestGrandmaster {
		for _, s := range q.Steps() {
			if !s.Completed {
				return rejectf(CodeStepsIncomplete, "finish every step of %q first", q.Title)
			}
		}
	}
	if q.Completed {
		t.uncomplete(&q)
		t.record("QUEST_UNCOMPLETED", "Unchecked quest: %q", q.Title)
	} else {
		t.complete(&q)
		t.record("QUEST_COMPLETED", "Completed quest: %q", q.Title)
	}
	t.st.Quests[i] = q
	markCompletion(t.st, t.env.Now)
	return nil
}

// complete books the streak-scaled reward and remembers it on the quest.
func (t *txn) complete(q *Quest) {
	stats := &t.st.Stats
	reward := ApplyStreak(q.Reward, StreakMultiplier(stats.GlobalStreak))
	g := &Grant{XP: reward.XP, Gold: reward.Gold, QP: reward.QP, Date: t.today(), PriorProgress: q.Progress}
	if f, ok := q.Focus(); ok {
		g.FocusMinutes = f.DurationMinutes
	}

	stats.Gold += g.Gold
	stats.QuestPoints += g.QP
	stats.LifetimeXP += g.XP
	stats.LifetimeGold += g.Gold
	stats.TotalQuestsCompleted++
	stats.DailyXP += g.XP
	stats.DailyGold += g.Gold
	stats.DailyQP += g.QP
	stats.DailyQuestsCompleted++
	stats.FocusScore += g.FocusMinutes
	stats.book(g.Date, func(r *HistoryRecord) {
		r.XP += g.XP
		r.Gold += g.Gold
		r.QP += g.QP
		r.Completed++
		r.FocusMinutes += g.FocusMinutes
	})

	levels, titles := stats.gainXP(g.XP)
	g.LevelsGained = len(levels)
	g.TitlesUnlocked = titles
	for _, lvl := range levels {
		t.emit(GameEvent{Type: EventLevelUp, Message: levelUpMessage(lvl)})
	}
	for _, title := range titles {
		t.emit(GameEvent{Type: EventAchievement, Message: "Title unlocked: " + title})
	}

	q.Completed = true
	q.Grant = g
	q.Progress = intPtr(100)
	if d, ok := q.Detail.(DailyDetail); ok {
		d.Streak++
		q.Detail = d
	}
	t.emit(GameEvent{
		Type:      EventQuestCompleted,
		Message:   completedMessage(reward),
		Payload:   &EventPayload{QuestID: q.ID, XP: g.XP, Gold: g.Gold},
		QuestType: q.Type,
		Undo:      ToggleQuest{ID: q.ID},
	})
}

// uncomplete reverses the grant booked at completion. Quests completed
// before grants were recorded fall back to the current multiplier.
func (t *txn) uncomplete(q *Quest) {
	stats := &t.st.Stats
	g := q.Grant
	if g == nil {
		r := ApplyStreak(q.Reward, StreakMultiplier(stats.GlobalStreak))
		g = &Grant{XP: r.XP, Gold: r.Gold, QP: r.QP, Date: t.today()}
		if f, ok := q.Focus(); ok {
			g.FocusMinutes = f.DurationMinutes
		}
	}

	stats.loseXP(g.XP, g.LevelsGained)
	stats.dropTitles(g.TitlesUnlocked)
	stats.Gold = floorSub(stats.Gold, g.Gold)
	stats.QuestPoints = floorSub(stats.QuestPoints, g.QP)
	stats.LifetimeXP = floorSub(stats.LifetimeXP, g.XP)
	stats.LifetimeGold = floorSub(stats.LifetimeGold, g.Gold)
	stats.TotalQuestsCompleted = floorSub(stats.TotalQuestsCompleted, 1)
	stats.FocusScore = floorSub(stats.FocusScore, g.FocusMinutes)
	if g.Date == t.today() {
		stats.DailyXP = floorSub(stats.DailyXP, g.XP)
		stats.DailyGold = floorSub(stats.DailyGold, g.Gold)
		stats.DailyQP = floorSub(stats.DailyQP, g.QP)
		stats.DailyQuestsCompleted = floorSub(stats.DailyQuestsCompleted, 1)
	}
	stats.book(g.Date, func(r *HistoryRecord) {
		r.XP = floorSub(r.XP, g.XP)
		r.Gold = floorSub(r.Gold, g.Gold)
		r.QP = floorSub(r.QP, g.QP)
		r.Completed = floorSub(r.Completed, 1)
		r.FocusMinutes = floorSub(r.FocusMinutes, g.FocusMinutes)
	})
	if stats.History[g.Date] == (HistoryRecord{}) {
		delete(stats.History, g.Date)
	}

	q.Completed = false
	q.Progress = g.PriorProgress
	if d, ok := q.Detail.(HeroDetail); ok {
		// Reopening a hero quest reopens its whole chain.
		for i := range d.Steps {
			d.Steps[i].Completed = false
		}
		q.Detail = d
		q.Progress = intPtr(stepProgress(d.Steps))
	}
	q.Grant = nil
	if d, ok := q.Detail.(DailyDetail); ok {
		d.Streak = floorSub(d.Streak, 1)
		q.Detail = d
	}
}

func (t *txn) toggleStep(c ToggleQuestStep) *Rejection {
	i := findQuest(t.st.Quests, c.QuestID)
	if i < 0 {
		return rejectf(CodeQuestNotFound, "quest %s not found", c.QuestID)
	}
	q := t.st.Quests[i]
	h, ok := q.Detail.(HeroDetail)
	if !ok {
		return rejectf(CodeStepNotFound, "quest %q has no steps", q.Title)
	}
	idx := -1
	for j, s := range h.Steps {
		if s.ID == c.StepID {
			idx = j
			break
		}
	}
	if idx < 0 {
		return rejectf(CodeStepNotFound, "step %s not found", c.StepID)
	}
	completing := !h.Steps[idx].Completed
	if !completing && q.Completed {
		return rejectf(CodeQuestCompleted, "un-complete %q before reopening its steps", q.Title)
	}
	if completing && idx > 0 && !h.Steps[idx-1].Completed {
		return rejectf(CodeStepLocked, "step %q is locked", h.Steps[idx].Title)
	}

	steps := h.Steps
	steps[idx].Completed = completing
	if !completing {
		for j := idx + 1; j < len(steps); j++ {
			steps[j].Completed = false
		}
	}
	q.Detail = HeroDetail{Steps: steps}
	q.Progress = intPtr(stepProgress(steps))
	t.st.Quests[i] = q
	if completing {
		t.notify("Step Complete: %s", steps[idx].Title)
	}
	return nil
}

func (t *txn) updateProgress(c UpdateQuestProgress) *Rejection {
	i := findQuest(t.st.Quests, c.ID)
	if i < 0 {
		return rejectf(CodeQuestNotFound, "quest %s not found", c.ID)
	}
	if len(t.st.Quests[i].Steps()) > 0 {
		return rejectf(CodeProgressDerived, "progress of %q follows its steps", t.st.Quests[i].Title)
	}
	p := c.Progress
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	t.st.Quests[i].Progress = intPtr(p)
	return nil
}

func (t *txn) updateFocusTimer(c UpdateFocusTimer) *Rejection {
	i := findQuest(t.st.Quests, c.ID)
	if i < 0 {
		return rejectf(CodeQuestNotFound, "quest %s not found", c.ID)
	}
	f, ok := t.st.Quests[i].Focus()
	if !ok {
		return rejectf(CodeNotFocusQuest, "quest %q is not a focus session", t.st.Quests[i].Title)
	}
	secs := c.RemainingSeconds
	if secs < 0 {
		secs = 0
	}
	if limit := f.DurationMinutes * 60; secs > limit {
		secs = limit
	}
	f.SecondsRemaining = secs
	t.st.Quests[i].Detail = f
	return nil
}
