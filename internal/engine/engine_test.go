package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var testNow = time.Date(2024, time.March, 6, 9, 30, 0, 0, time.UTC)

var envSeq uint64

func envAt(now time.Time) Env {
	return NewEnv(now, NewStream(atomic.AddUint64(&envSeq, 1)))
}

func testEnv() Env { return envAt(testNow) }

func newTestGame(t *testing.T) (*Engine, State) {
	t.Helper()
	e := New(DefaultRules())
	return e, e.DefaultState(testEnv())
}

func mustApply(t *testing.T, e *Engine, st State, cmd Command) Result {
	t.Helper()
	res := e.Apply(st, cmd, testEnv())
	require.Nil(t, res.Rejection, "unexpected rejection of %s", cmd.Kind())
	return res
}

func requireRejected(t *testing.T, e *Engine, st State, cmd Command, code string) Result {
	t.Helper()
	res := e.Apply(st, cmd, testEnv())
	require.NotNil(t, res.Rejection, "%s should be rejected", cmd.Kind())
	assert.Equal(t, code, res.Rejection.Code)
	assert.Empty(t, res.Events)
	return res
}

func firstOfType(t *testing.T, st State, typ QuestType) Quest {
	t.Helper()
	for _, q := range st.Quests {
		if q.Type == typ {
			return q
		}
	}
	t.Fatalf("no %s quest in state", typ)
	return Quest{}
}

func eventsOf(events []GameEvent, typ EventType) []GameEvent {
	var out []GameEvent
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func TestDefaultState(t *testing.T) {
	e, st := newTestGame(t)

	require.Len(t, st.Quests, 2)
	hero := firstOfType(t, st, QuestGrandmaster)
	assert.Equal(t, "The Path of Awakening", hero.Title)
	assert.Len(t, hero.Steps(), 4)
	daily := firstOfType(t, st, QuestDaily)
	assert.True(t, daily.FailRisk)
	assert.Equal(t, Reward{XP: 50, Gold: 10, QP: 5}, daily.Reward)

	assert.Len(t, st.Offers, e.Rules().BoardSize+1)
	assert.Equal(t, DayKey(testNow), st.LastProcessedDate)
	assert.Equal(t, 0.15, st.Settings.SideQuestRiskChance)
	assert.Equal(t, 1, st.Stats.Level)
	assert.Equal(t, []string{"The Awakened"}, st.Stats.Titles)
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	e, st := newTestGame(t)
	before := st.Clone()
	daily := firstOfType(t, st, QuestDaily)

	res := mustApply(t, e, st, ToggleQuest{ID: daily.ID})

	assert.Equal(t, before, st)
	assert.NotEqual(t, before.Stats.Gold, res.State.Stats.Gold)
}

func TestUnsupportedCommandRejected(t *testing.T) {
	type bogus struct{ AcknowledgeEvents }
	e, st := newTestGame(t)
	requireRejected(t, e, st, bogus{}, CodeUnsupported)
}

func TestAcknowledgeIsNoop(t *testing.T) {
	e, st := newTestGame(t)
	res := mustApply(t, e, st, AcknowledgeEvents{})
	assert.Equal(t, st, res.State)
	assert.Empty(t, res.Events)
}

func TestSaveSideQuestTemplate(t *testing.T) {
	e, st := newTestGame(t)

	requireRejected(t, e, st, SaveSideQuestTemplate{Template: SideQuestTemplate{Template: "Run {n} km", Min: 5, Max: 2}}, CodeInvalidPayload)

	res := mustApply(t, e, st, SaveSideQuestTemplate{Template: SideQuestTemplate{Template: "Run {n} km", Min: 1, Max: 5, UnitXP: 10, UnitGold: 2, BaseQP: 1}})
	require.Len(t, res.State.SideQuestTemplates, len(st.SideQuestTemplates)+1)
	added := res.State.SideQuestTemplates[len(res.State.SideQuestTemplates)-1]
	assert.NotEmpty(t, added.ID)
	assert.Len(t, eventsOf(res.Events, EventSystemMessage), 1)

	added.Max = 9
	res = mustApply(t, e, res.State, SaveSideQuestTemplate{Template: added})
	require.Len(t, res.State.SideQuestTemplates, len(st.SideQuestTemplates)+1)
	assert.Equal(t, 9, res.State.SideQuestTemplates[len(res.State.SideQuestTemplates)-1].Max)

	res = mustApply(t, e, res.State, DeleteSideQuestTemplate{ID: added.ID})
	assert.Len(t, res.State.SideQuestTemplates, len(st.SideQuestTemplates))
	requireRejected(t, e, res.State, DeleteSideQuestTemplate{ID: added.ID}, CodeInvalidPayload)
}

func TestEventAndFocusTemplates(t *testing.T) {
	e, st := newTestGame(t)

	requireRejected(t, e, st, SaveEventTemplate{Template: EventTemplate{Title: "Bad", AllowedDays: []int{7}}}, CodeInvalidPayload)
	res := mustApply(t, e, st, SaveEventTemplate{Template: EventTemplate{Title: "Midweek Sprint", AllowedDays: []int{3}, SpawnChance: 1, XPReward: 40}})
	require.Len(t, res.State.EventTemplates, 2)
	res = mustApply(t, e, res.State, DeleteEventTemplate{ID: res.State.EventTemplates[1].ID})
	assert.Len(t, res.State.EventTemplates, 1)

	requireRejected(t, e, st, SaveFocusTemplate{Template: FocusTemplate{Title: "Zero", Duration: 0}}, CodeInvalidPayload)
	res = mustApply(t, e, st, SaveFocusTemplate{Template: FocusTemplate{ID: "foc-tmpl-0", Title: "Long Pomodoro", Duration: 50}})
	require.Len(t, res.State.FocusTemplates, len(st.FocusTemplates))
	assert.Equal(t, "Long Pomodoro", res.State.FocusTemplates[0].Title)
	res = mustApply(t, e, res.State, DeleteFocusTemplate{ID: "foc-tmpl-0"})
	assert.Len(t, res.State.FocusTemplates, len(st.FocusTemplates)-1)
}

func TestUpdateProfileAndSettings(t *testing.T) {
	e, st := newTestGame(t)

	requireRejected(t, e, st, UpdateProfile{Name: " "}, CodeInvalidPayload)
	requireRejected(t, e, st, UpdateProfile{Name: "Ada", IdealDays: []int{1, 9}}, CodeInvalidPayload)
	res := mustApply(t, e, st, UpdateProfile{Name: "Ada", WakeUpTime: "06:30", IdealDays: []int{1, 3, 5}})
	assert.Equal(t, "Ada", res.State.Stats.Name)
	assert.Equal(t, "06:30", res.State.Stats.WakeUpTime)
	assert.Equal(t, []int{1, 3, 5}, res.State.Stats.IdealDays)

	chance := 0.5
	res = mustApply(t, e, res.State, UpdateSettings{SideQuestRiskChance: &chance})
	assert.Equal(t, 0.5, res.State.Settings.SideQuestRiskChance)
	assert.Equal(t, 0.75, res.State.Settings.DailyFailPenalty)

	bad := 1.5
	requireRejected(t, e, res.State, UpdateSettings{SideQuestRiskChance: &bad}, CodeInvalidPayload)
}

func TestCompleteOnboarding(t *testing.T) {
	e, st := newTestGame(t)

	requireRejected(t, e, st, CompleteOnboarding{Name: "Ada"}, CodeInvalidPayload)
	requireRejected(t, e, st, CompleteOnboarding{Name: "Ada", FirstQuest: "Stretch", XPModifier: 3}, CodeInvalidPayload)

	res := mustApply(t, e, st, CompleteOnboarding{Name: "Ada", WakeUpTime: "07:00", XPModifier: ModifierHard, FirstQuest: "Stretch"})
	assert.True(t, res.State.HasOnboarded)
	assert.Equal(t, ModifierHard, res.State.Stats.XPModifier)
	require.Len(t, res.State.Quests, 2)
	assert.Equal(t, "Stretch", firstOfType(t, res.State, QuestDaily).Title)
	hero := firstOfType(t, res.State, QuestGrandmaster)
	steps := hero.Steps()
	require.Len(t, steps, 4)
	assert.Equal(t, EndOfDay(testNow.AddDate(0, 0, 3)), *steps[3].DueDate)
	assert.Equal(t, "Welcome, Ada. Your journey begins.", res.Events[0].Message)
}

func TestMergeOntoDefaultsBackfills(t *testing.T) {
	e := New(DefaultRules())
	doc := State{
		Stats:  UserStats{Gold: 42},
		Quests: []Quest{{ID: "d1", Title: "Floss", Type: QuestDaily}},
	}

	out := e.MergeOntoDefaults(doc, testEnv())

	assert.Equal(t, 42, out.Stats.Gold)
	assert.Equal(t, 1, out.Stats.Level)
	assert.Equal(t, ModifierNormal, out.Stats.XPModifier)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, out.Stats.IdealDays)
	assert.NotNil(t, out.Stats.History)
	assert.Len(t, out.SideQuestTemplates, 6)
	assert.Len(t, out.EventTemplates, 1)
	assert.Len(t, out.FocusTemplates, 6)
	assert.NotEmpty(t, out.Offers)
	assert.Equal(t, DailyDetail{}, out.Quests[0].Detail)
}

func TestMergeKeepsDeliberatelyEmptyTemplates(t *testing.T) {
	e := New(DefaultRules())
	out := e.MergeOntoDefaults(State{FocusTemplates: []FocusTemplate{}}, testEnv())
	assert.Empty(t, out.FocusTemplates)
	assert.NotNil(t, out.FocusTemplates)
}

func TestImportDataReplacesState(t *testing.T) {
	e, st := newTestGame(t)
	doc := State{Stats: UserStats{Name: "Imported", Level: 7, XPModifier: ModifierEasy}}

	res := mustApply(t, e, st, ImportData{Document: doc})

	assert.Equal(t, "Imported", res.State.Stats.Name)
	assert.Equal(t, 7, res.State.Stats.Level)
	assert.Empty(t, res.State.Quests)
	require.NotEmpty(t, res.State.ActivityLog)
	assert.Equal(t, string(KindImportData), res.State.ActivityLog[len(res.State.ActivityLog)-1].Action)
	assert.Equal(t, KindInitSave, ImportData{Init: true}.Kind())
}

func TestFullReset(t *testing.T) {
	e, st := newTestGame(t)
	st = mustApply(t, e, st, TestAddGold{Amount: 500}).State

	res := mustApply(t, e, st, FullReset{})

	assert.Equal(t, 0, res.State.Stats.Gold)
	assert.Len(t, res.State.Quests, 2)
	assert.Equal(t, "System Reset Complete.", res.Events[0].Message)
}

func TestActivityLogCapped(t *testing.T) {
	rules := DefaultRules()
	rules.ActivityLogLimit = 3
	e := New(rules)
	st := e.DefaultState(testEnv())
	for i := 0; i < 5; i++ {
		st = mustApply(t, e, st, UpdateProfile{Name: "Ada"}).State
	}
	assert.Len(t, st.ActivityLog, 3)
}

func TestRulesValidate(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())
	r := DefaultRules()
	r.DueMaxDays = 1
	assert.Error(t, r.Validate())
	r = DefaultRules()
	r.ArchivePolicy = "sometimes"
	assert.Error(t, r.Validate())
}

func TestNewFallsBackToDefaultRules(t *testing.T) {
	assert.Equal(t, DefaultRules(), New(Rules{}).Rules())
}
