// Package engine is the quest game state machine. Every command is a pure
// transformation of State; the caller owns the state value and the clock.
package engine

import (
	"time"

	"github.com/google/uuid"
)

// Env is everything a transition may observe besides the state: the
// current time and a deterministic entropy stream.
type Env struct {
	Now  time.Time
	Rand *Stream
}

// NewEnv pairs a clock reading with a stream.
func NewEnv(now time.Time, rng *Stream) Env { return Env{Now: now, Rand: rng} }

func (e Env) normalize() Env {
	if e.Now.IsZero() {
		e.Now = time.Now()
	}
	if e.Rand == nil {
		e.Rand = NewStream(uint64(e.Now.UnixNano()))
	}
	return e
}

func (e Env) newID(prefix string) string {
	id, err := uuid.NewRandomFromReader(e.Rand)
	if err != nil {
		id = uuid.New()
	}
	return prefix + "-" + id.String()
}

// Engine applies commands under a fixed set of rules.
type Engine struct {
	rules Rules
}

// New returns an engine. Zero-valued rules fall back to DefaultRules.
func New(rules Rules) *Engine {
	if rules == (Rules{}) {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Rules returns the engine's rules.
func (e *Engine) Rules() Rules { return e.rules }

type txn struct {
	rules  Rules
	env    Env
	st     *State
	events []GameEvent
}

func (t *txn) today() string { return DayKey(t.env.Now) }

// Apply runs cmd against st. st is never modified.
func (e *Engine) Apply(st State, cmd Command, env Env) Result {
	env = env.normalize()
	next := st.Clone()
	t := &txn{rules: e.rules, env: env, st: &next}

	var rej *Rejection
	switch c := cmd.(type) {
	case AddQuest:
		rej = t.addQuest(c)
	case EditQuest:
		rej = t.editQuest(c)
	case DeleteQuest:
		rej = t.deleteQuest(c)
	case RestoreQuest:
		rej = t.restoreQuest(c)
	case PermanentDeleteQuest:
		rej = t.permanentDelete(c)
	case ToggleQuest:
		rej = t.toggleQuest(c)
	case ToggleQuestStep:
		rej = t.toggleStep(c)
	case UpdateQuestProgress:
		rej = t.updateProgress(c)
	case UpdateFocusTimer:
		rej = t.updateFocusTimer(c)
	case AcceptSideQuest:
		rej = t.acceptOffer(c)
	case RerollSlot:
		rej = t.rerollSlot(c)
	case RefreshNoticeBoard:
		rej = t.refreshBoard()
	case SaveSideQuestTemplate:
		rej = t.saveSideTemplate(c)
	case DeleteSideQuestTemplate:
		rej = t.deleteSideTemplate(c)
	case SaveEventTemplate:
		rej = t.saveEventTemplate(c)
	case DeleteEventTemplate:
		rej = t.deleteEventTemplate(c)
	case SaveFocusTemplate:
		rej = t.saveFocusTemplate(c)
	case DeleteFocusTemplate:
		rej = t.deleteFocusTemplate(c)
	case UpdateProfile:
		rej = t.updateProfile(c)
	case UpdateSettings:
		rej = t.updateSettings(c)
	case CompleteOnboarding:
		rej = t.completeOnboarding(c)
	case DailyReset:
		rej = t.dailyReset()
	case TestAddXP:
		rej = t.testAddXP(c)
	case TestAddGold:
		rej = t.testAddGold(c)
	case TestAddStreak:
		rej = t.testAddStreak()
	case TestFailAll:
		rej = t.testFailAll()
	case FullReset:
		next = e.DefaultState(env)
		t.notify("System Reset Complete.")
	case ImportData:
		next = e.MergeOntoDefaults(c.Document, env)
		t.record(string(c.Kind()), "Save data loaded.")
	case AcknowledgeEvents:
		// Queue state lives with the caller.
	default:
		rej = rejectf(CodeUnsupported, "unsupported command %T", cmd)
	}
	if rej != nil {
		return Result{State: st, Rejection: rej}
	}
	return Result{State: next, Events: t.events}
}
