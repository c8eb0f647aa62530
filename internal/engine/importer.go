package engine

// MergeOntoDefaults back-fills everything a decoded document left empty
// from the canonical defaults. Quests keep their content; only their
// typed detail is made consistent with their type.
func (e *Engine) MergeOntoDefaults(doc State, env Env) State {
	env = env.normalize()
	out := doc.Clone()
	stats := &out.Stats
	def := DefaultStats(env.Now)

	if stats.Name == "" {
		stats.Name = def.Name
	}
	if stats.Level < 1 {
		stats.Level = 1
	}
	if !stats.XPModifier.Validate() {
		stats.XPModifier = def.XPModifier
	}
	if len(stats.Titles) == 0 {
		stats.Titles = def.Titles
	}
	if stats.WakeUpTime == "" {
		stats.WakeUpTime = def.WakeUpTime
	}
	if stats.IdealDays == nil {
		stats.IdealDays = def.IdealDays
	}
	if stats.CompletionHistory == nil {
		stats.CompletionHistory = map[string]bool{}
	}
	if stats.History == nil {
		stats.History = map[string]HistoryRecord{}
	}

	if out.SideQuestTemplates == nil {
		out.SideQuestTemplates = DefaultSideQuestTemplates()
	}
	if out.EventTemplates == nil {
		out.EventTemplates = DefaultEventTemplates()
	}
	if out.FocusTemplates == nil {
		out.FocusTemplates = DefaultFocusTemplates()
	}
	if out.Quests == nil {
		out.Quests = []Quest{}
	}
	if out.Archived == nil {
		out.Archived = []Quest{}
	}
	if out.ActivityLog == nil {
		out.ActivityLog = []LogEntry{}
	}
	for _, list := range [][]Quest{out.Quests, out.Archived, out.Offers} {
		for i := range list {
			list[i].normalizeDetail()
		}
	}
	if out.Offers == nil {
		out.Offers = e.rules.generateBoard(env, out)
	}
	return out
}
