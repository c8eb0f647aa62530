package engine

import (
	"math"
	"time"
)

// Titles unlock every ten levels.
var Titles = []string{
	"The Awakened",
	"Novice Adventurer",
	"Apprentice of Order",
	"Journeyman of Focus",
	"Warrior of Will",
	"Knight of Routine",
	"Master of Discipline",
	"Grandmaster of Habits",
	"Legend of Productivity",
	"Demigod of Getting Things Done",
	"Ascended Entity",
}

// HistoryRecord is one day of the ledger.
type HistoryRecord struct {
	XP           int `json:"xp"`
	Gold         int `json:"gold"`
	QP           int `json:"qp"`
	Completed    int `json:"completed"`
	Fails        int `json:"fails"`
	FocusMinutes int `json:"focusMinutes"`
}

// UserStats is the player's progression and the day-scoped counters.
type UserStats struct {
	Name          string     `json:"name"`
	Level         int        `json:"level"`
	CurrentXP     int        `json:"currentXP"`
	Gold          int        `json:"gold"`
	QuestPoints   int        `json:"questPoints"`
	Titles        []string   `json:"titles"`
	WakeUpTime    string     `json:"wakeUpTime"`
	XPModifier    XPModifier `json:"xpModifier"`
	LastLoginDate string     `json:"lastLoginDate"`
	IdealDays     []int      `json:"idealDays"`

	LifetimeGold         int `json:"lifetimeGold"`
	LifetimeXP           int `json:"lifetimeXP"`
	TotalQuestsCompleted int `json:"totalQuestsCompleted"`
	FocusScore           int `json:"focusScore"`

	DailyGold            int `json:"dailyGold"`
	DailyXP              int `json:"dailyXP"`
	DailyQP              int `json:"dailyQP"`
	DailyQuestsCompleted int `json:"dailyQuestsCompleted"`
	DailyRerolls         int `json:"dailyRerolls"`
	DailySideQuestsTaken int `json:"dailySideQuestsTaken"`

	GlobalStreak      int                      `json:"globalStreak"`
	CompletionHistory map[string]bool          `json:"completionHistory"`
	History           map[string]HistoryRecord `json:"history"`
}

// MaxXP is the XP needed to leave level: floor(100 * modifier^level).
func MaxXP(level int, modifier XPModifier) int {
	return int(math.Floor(100 * math.Pow(float64(modifier), float64(level))))
}

// TitleForLevel returns the title earned at level.
func TitleForLevel(level int) string {
	idx := level / 10
	if idx >= len(Titles) {
		idx = len(Titles) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return Titles[idx]
}

// DayKey formats t as the YYYY-MM-DD key used by the history maps.
func DayKey(t time.Time) string { return t.Format("2006-01-02") }

// EndOfDay returns 23:59:59.999 of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func (s UserStats) clone() UserStats {
	out := s
	out.Titles = append([]string(nil), s.Titles...)
	if s.IdealDays != nil {
		out.IdealDays = append(make([]int, 0, len(s.IdealDays)), s.IdealDays...)
	}
	out.CompletionHistory = make(map[string]bool, len(s.CompletionHistory))
	for k, v := range s.CompletionHistory {
		out.CompletionHistory[k] = v
	}
	out.History = make(map[string]HistoryRecord, len(s.History))
	for k, v := range s.History {
		out.History[k] = v
	}
	return out
}

// book applies fn to the ledger row for day, creating the row on first write.
func (s *UserStats) book(day string, fn func(*HistoryRecord)) {
	if s.History == nil {
		s.History = map[string]HistoryRecord{}
	}
	rec := s.History[day]
	fn(&rec)
	s.History[day] = rec
}

func (s *UserStats) hasTitle(t string) bool {
	for _, x := range s.Titles {
		if x == t {
			return true
		}
	}
	return false
}

// gainXP adds xp and applies level-ups while the threshold is met.
// It returns the levels crossed and titles newly unlocked.
func (s *UserStats) gainXP(xp int) (levels []int, titles []string) {
	s.CurrentXP += xp
	if s.Level < 1 {
		s.Level = 1
	}
	for {
		need := MaxXP(s.Level, s.XPModifier)
		if need <= 0 || s.CurrentXP < need {
			break
		}
		s.CurrentXP -= need
		s.Level++
		levels = append(levels, s.Level)
		if t := TitleForLevel(s.Level); !s.hasTitle(t) {
			s.Titles = append(s.Titles, t)
			titles = append(titles, t)
		}
	}
	return levels, titles
}

// loseXP removes xp, walking back at most levels level-ups first.
func (s *UserStats) loseXP(xp int, levels int) {
	s.CurrentXP -= xp
	for levels > 0 && s.CurrentXP < 0 && s.Level > 1 {
		s.Level--
		s.CurrentXP += MaxXP(s.Level, s.XPModifier)
		levels--
	}
	if s.CurrentXP < 0 {
		s.CurrentXP = 0
	}
}

func (s *UserStats) dropTitles(titles []string) {
	if len(titles) == 0 {
		return
	}
	drop := make(map[string]bool, len(titles))
	for _, t := range titles {
		drop[t] = true
	}
	kept := s.Titles[:0]
	for _, t := range s.Titles {
		if !drop[t] {
			kept = append(kept, t)
		}
	}
	s.Titles = kept
}

func (s *UserStats) resetDaily() {
	s.DailyGold = 0
	s.DailyXP = 0
	s.DailyQP = 0
	s.DailyQuestsCompleted = 0
	s.DailyRerolls = 0
	s.DailySideQuestsTaken = 0
}

func floorSub(a, b int) int {
	if a-b < 0 {
		return 0
	}
	return a - b
}
