package engine

import (
	"strings"
	"time"
)

// Reward is the amount of XP, gold and quest points a quest pays out.
type Reward struct {
	XP   int
	Gold int
	QP   int
}

// Step is one milestone of a hero quest. Steps are strictly ordered.
type Step struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	Completed bool       `json:"completed"`
}

// Detail carries the fields that only make sense for one quest type.
type Detail interface {
	questType() QuestType
	clone() Detail
}

// DailyDetail tracks the per-quest streak of a recurring daily.
type DailyDetail struct {
	Streak int
}

// HeroDetail holds the ordered steps of a grandmaster quest.
type HeroDetail struct {
	Steps []Step
}

// FocusDetail describes a timed focus session.
type FocusDetail struct {
	DurationMinutes  int
	SecondsRemaining int
}

func (DailyDetail) questType() QuestType { return QuestDaily }
func (HeroDetail) questType() QuestType  { return QuestGrandmaster }
func (FocusDetail) questType() QuestType { return QuestFocus }

func (d DailyDetail) clone() Detail { return d }
func (d FocusDetail) clone() Detail { return d }
func (d HeroDetail) clone() Detail {
	steps := make([]Step, len(d.Steps))
	for i, s := range d.Steps {
		steps[i] = s
		if s.DueDate != nil {
			t := *s.DueDate
			steps[i].DueDate = &t
		}
	}
	return HeroDetail{Steps: steps}
}

// Grant is the reward actually booked when a quest was completed.
// Un-completing reverses exactly this grant.
type Grant struct {
	XP             int      `json:"xp"`
	Gold           int      `json:"gold"`
	QP             int      `json:"qp"`
	FocusMinutes   int      `json:"focusMinutes,omitempty"`
	Date           string   `json:"date"`
	LevelsGained   int      `json:"levelsGained,omitempty"`
	TitlesUnlocked []string `json:"titlesUnlocked,omitempty"`
	PriorProgress  *int     `json:"priorProgress,omitempty"`
}

// Quest is a trackable task. Detail is nil for SIDE and EVENT quests.
type Quest struct {
	ID          string
	Title       string
	Description string
	Type        QuestType
	Completed   bool
	Reward      Reward
	CreatedAt   time.Time
	DueDate     *time.Time
	Difficulty  Difficulty
	FailRisk    bool
	Progress    *int
	Detail      Detail
	Grant       *Grant
}

// Steps returns the steps of a hero quest, or nil for other types.
func (q Quest) Steps() []Step {
	if h, ok := q.Detail.(HeroDetail); ok {
		return h.Steps
	}
	return nil
}

// Streak returns the daily streak, zero for non-daily quests.
func (q Quest) Streak() int {
	if d, ok := q.Detail.(DailyDetail); ok {
		return d.Streak
	}
	return 0
}

// Focus returns the focus session fields if q is a focus quest.
func (q Quest) Focus() (FocusDetail, bool) {
	f, ok := q.Detail.(FocusDetail)
	return f, ok
}

// Clone returns a deep copy.
func (q Quest) Clone() Quest {
	out := q
	if q.DueDate != nil {
		t := *q.DueDate
		out.DueDate = &t
	}
	if q.Progress != nil {
		p := *q.Progress
		out.Progress = &p
	}
	if q.Detail != nil {
		out.Detail = q.Detail.clone()
	}
	if q.Grant != nil {
		g := *q.Grant
		g.TitlesUnlocked = append([]string(nil), q.Grant.TitlesUnlocked...)
		if q.Grant.PriorProgress != nil {
			p := *q.Grant.PriorProgress
			g.PriorProgress = &p
		}
		out.Grant = &g
	}
	return out
}

// normalizeDetail makes Detail agree with Type, keeping compatible data.
func (q *Quest) normalizeDetail() {
	switch q.Type {
	case QuestDaily:
		if _, ok := q.Detail.(DailyDetail); !ok {
			q.Detail = DailyDetail{}
		}
	case QuestGrandmaster:
		if _, ok := q.Detail.(HeroDetail); !ok {
			q.Detail = HeroDetail{}
		}
	case QuestFocus:
		if _, ok := q.Detail.(FocusDetail); !ok {
			q.Detail = FocusDetail{}
		}
	default:
		q.Detail = nil
	}
}

// enforceRisk applies the rule that dailies and hard quests always carry fail risk.
func (q *Quest) enforceRisk() {
	if q.Type == QuestDaily || q.Difficulty == DifficultyHard {
		q.FailRisk = true
	}
}

func (q Quest) overdue(now time.Time) bool {
	return q.DueDate != nil && q.DueDate.Before(now)
}

// stepProgress is floor(done/total*100).
func stepProgress(steps []Step) int {
	if len(steps) == 0 {
		return 0
	}
	done := 0
	for _, s := range steps {
		if s.Completed {
			done++
		}
	}
	return done * 100 / len(steps)
}

// validSteps reports whether step ids are unique and no completed step follows an incomplete one.
func validSteps(steps []Step) bool {
	seen := make(map[string]bool, len(steps))
	open := false
	for _, s := range steps {
		if strings.TrimSpace(s.ID) == "" || seen[s.ID] {
			return false
		}
		seen[s.ID] = true
		if s.Completed && open {
			return false
		}
		if !s.Completed {
			open = true
		}
	}
	return true
}

func intPtr(v int) *int { return &v }

func findQuest(list []Quest, id string) int {
	for i, q := range list {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func cloneQuests(in []Quest) []Quest {
	if in == nil {
		return nil
	}
	out := make([]Quest, len(in))
	for i, q := range in {
		out[i] = q.Clone()
	}
	return out
}
