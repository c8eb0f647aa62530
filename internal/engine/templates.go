package engine

import (
	"strings"
)

func invalid(err error) *Rejection {
	return rejectf(CodeInvalidPayload, "%v", err)
}

func (t *txn) saveSideTemplate(c SaveSideQuestTemplate) *Rejection {
	tmpl := c.Template
	if err := validate.Struct(tmpl); err != nil {
		return invalid(err)
	}
	if tmpl.ID == "" {
		tmpl.ID = t.env.newID("sqt")
	}
	t.st.SideQuestTemplates = upsert(t.st.SideQuestTemplates, tmpl, func(x SideQuestTemplate) string { return x.ID })
	t.record("TEMPLATE_SAVED", "Side quest template saved: %q", tmpl.Template)
	t.notify("Side quest template saved.")
	return nil
}

func (t *txn) deleteSideTemplate(c DeleteSideQuestTemplate) *Rejection {
	out, ok := remove(t.st.SideQuestTemplates, c.ID, func(x SideQuestTemplate) string { return x.ID })
	if !ok {
		return rejectf(CodeInvalidPayload, "side quest template %s not found", c.ID)
	}
	t.st.SideQuestTemplates = out
	t.record("TEMPLATE_DELETED", "Side quest template removed.")
	t.notify("Side quest template deleted.")
	return nil
}

func (t *txn) saveEventTemplate(c SaveEventTemplate) *Rejection {
	tmpl := c.Template
	if err := validate.Struct(tmpl); err != nil {
		return invalid(err)
	}
	if tmpl.ID == "" {
		tmpl.ID = t.env.newID("evt-tmpl")
	}
	t.st.EventTemplates = upsert(t.st.EventTemplates, tmpl, func(x EventTemplate) string { return x.ID })
	t.record("TEMPLATE_SAVED", "Event template saved: %q", tmpl.Title)
	t.notify("Event template saved.")
	return nil
}

func (t *txn) deleteEventTemplate(c DeleteEventTemplate) *Rejection {
	out, ok := remove(t.st.EventTemplates, c.ID, func(x EventTemplate) string { return x.ID })
	if !ok {
		return rejectf(CodeInvalidPayload, "event template %s not found", c.ID)
	}
	t.st.EventTemplates = out
	t.record("TEMPLATE_DELETED", "Event template removed.")
	t.notify("Event template deleted.")
	return nil
}

func (t *txn) saveFocusTemplate(c SaveFocusTemplate) *Rejection {
	tmpl := c.Template
	if err := validate.Struct(tmpl); err != nil {
		return invalid(err)
	}
	if tmpl.ID == "" {
		tmpl.ID = t.env.newID("foc-tmpl")
	}
	t.st.FocusTemplates = upsert(t.st.FocusTemplates, tmpl, func(x FocusTemplate) string { return x.ID })
	t.record("TEMPLATE_SAVED", "Focus template saved: %q", tmpl.Title)
	t.notify("Focus template saved.")
	return nil
}

func (t *txn) deleteFocusTemplate(c DeleteFocusTemplate) *Rejection {
	out, ok := remove(t.st.FocusTemplates, c.ID, func(x FocusTemplate) string { return x.ID })
	if !ok {
		return rejectf(CodeInvalidPayload, "focus template %s not found", c.ID)
	}
	t.st.FocusTemplates = out
	t.record("TEMPLATE_DELETED", "Focus template removed.")
	t.notify("Focus template deleted.")
	return nil
}

func upsert[T any](list []T, item T, key func(T) string) []T {
	for i, x := range list {
		if key(x) == key(item) {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}

func remove[T any](list []T, id string, key func(T) string) ([]T, bool) {
	for i, x := range list {
		if key(x) == id {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}

type profileInput struct {
	Name       string `validate:"required,max=64"`
	WakeUpTime string `validate:"omitempty,max=16"`
	IdealDays  []int  `validate:"dive,gte=0,lte=6"`
}

func (t *txn) updateProfile(c UpdateProfile) *Rejection {
	in := profileInput{Name: strings.TrimSpace(c.Name), WakeUpTime: c.WakeUpTime, IdealDays: c.IdealDays}
	if err := validate.Struct(in); err != nil {
		return invalid(err)
	}
	stats := &t.st.Stats
	stats.Name = in.Name
	stats.WakeUpTime = in.WakeUpTime
	stats.IdealDays = append([]int(nil), in.IdealDays...)
	t.record("PROFILE_UPDATE", "Updated profile settings.")
	t.notify("Profile updated.")
	return nil
}

func (t *txn) updateSettings(c UpdateSettings) *Rejection {
	next := t.st.Settings
	if c.DailyFailPenalty != nil {
		next.DailyFailPenalty = *c.DailyFailPenalty
	}
	if c.SideQuestRiskChance != nil {
		next.SideQuestRiskChance = *c.SideQuestRiskChance
	}
	if err := validate.Struct(next); err != nil {
		return invalid(err)
	}
	t.st.Settings = next
	t.record("SETTINGS_UPDATE", "Game modifiers updated.")
	return nil
}

func (t *txn) completeOnboarding(c CompleteOnboarding) *Rejection {
	name := strings.TrimSpace(c.Name)
	first := strings.TrimSpace(c.FirstQuest)
	if name == "" || first == "" {
		return rejectf(CodeInvalidPayload, "name and first quest are required")
	}
	mod := c.XPModifier
	if mod == 0 {
		mod = ModifierNormal
	}
	if !mod.Validate() {
		return rejectf(CodeInvalidPayload, "unknown xp modifier %v", c.XPModifier)
	}
	st := t.st
	st.HasOnboarded = true
	st.Stats.Name = name
	st.Stats.WakeUpTime = c.WakeUpTime
	st.Stats.XPModifier = mod
	st.Quests = []Quest{heroQuest(t.env), firstDaily(t.env, first)}
	st.Offers = t.rules.generateBoard(t.env, *st)
	st.LastProcessedDate = t.today()
	t.record("ONBOARDING_COMPLETE", "Hero %s awakened.", name)
	t.notify("Welcome, %s. Your journey begins.", name)
	return nil
}
