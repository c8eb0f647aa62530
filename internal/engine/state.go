package engine

import (
	"time"
)

// GameSettings are the player-tunable modifiers.
type GameSettings struct {
	DailyFailPenalty    float64 `json:"dailyFailPenalty" validate:"gte=0"`
	SideQuestRiskChance float64 `json:"sideQuestRiskChance" validate:"gte=0,lte=1"`
}

// SideQuestTemplate generates side quests. Template holds a {n} placeholder for the quantity.
type SideQuestTemplate struct {
	ID       string   `json:"id"`
	Template string   `json:"template" validate:"required"`
	Min      int      `json:"min" validate:"gte=0"`
	Max      int      `json:"max" validate:"gtefield=Min"`
	UnitXP   float64  `json:"unitXP" validate:"gte=0"`
	UnitGold float64  `json:"unitGold" validate:"gte=0"`
	BaseQP   int      `json:"baseQP" validate:"gte=0"`
	Tags     []string `json:"tags,omitempty"`
}

// EventTemplate spawns a one-day event quest on allowed weekdays (0 = Sunday).
type EventTemplate struct {
	ID          string  `json:"id"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	AllowedDays []int   `json:"allowedDays" validate:"dive,gte=0,lte=6"`
	SpawnChance float64 `json:"spawnChance" validate:"gte=0,lte=1"`
	XPReward    int     `json:"xpReward" validate:"gte=0"`
	GoldReward  int     `json:"goldReward" validate:"gte=0"`
	QPReward    int     `json:"qpReward" validate:"gte=0"`
}

// FocusTemplate generates timed focus offers.
type FocusTemplate struct {
	ID       string `json:"id"`
	Title    string `json:"title" validate:"required"`
	Duration int    `json:"duration" validate:"gt=0"`
}

// LogEntry is one line of the activity log.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// State is the whole game. It is the value every command transforms.
type State struct {
	HasOnboarded          bool                `json:"hasOnboarded"`
	Stats                 UserStats           `json:"stats"`
	Settings              GameSettings        `json:"settings"`
	Quests                []Quest             `json:"quests"`
	Archived              []Quest             `json:"archivedQuests"`
	Offers                []Quest             `json:"availableSideQuests"`
	SideQuestsChosenCount int                 `json:"sideQuestsChosenCount"`
	LastProcessedDate     string              `json:"lastSideQuestGenDate"`
	SideQuestTemplates    []SideQuestTemplate `json:"sideQuestTemplates"`
	EventTemplates        []EventTemplate     `json:"eventTemplates"`
	FocusTemplates        []FocusTemplate     `json:"focusTemplates"`
	ActivityLog           []LogEntry          `json:"activityLog"`
}

// Clone returns a deep copy; transitions mutate only the copy. Nil slices stay nil.
func (s State) Clone() State {
	out := s
	out.Stats = s.Stats.clone()
	out.Quests = cloneQuests(s.Quests)
	out.Archived = cloneQuests(s.Archived)
	out.Offers = cloneQuests(s.Offers)
	if s.SideQuestTemplates != nil {
		out.SideQuestTemplates = make([]SideQuestTemplate, len(s.SideQuestTemplates))
		for i, t := range s.SideQuestTemplates {
			t.Tags = append([]string(nil), t.Tags...)
			out.SideQuestTemplates[i] = t
		}
	}
	if s.EventTemplates != nil {
		out.EventTemplates = make([]EventTemplate, len(s.EventTemplates))
		for i, t := range s.EventTemplates {
			t.AllowedDays = append([]int(nil), t.AllowedDays...)
			out.EventTemplates[i] = t
		}
	}
	if s.FocusTemplates != nil {
		out.FocusTemplates = append(make([]FocusTemplate, 0, len(s.FocusTemplates)), s.FocusTemplates...)
	}
	if s.ActivityLog != nil {
		out.ActivityLog = append(make([]LogEntry, 0, len(s.ActivityLog)), s.ActivityLog...)
	}
	return out
}

// Quest returns the active quest with id.
func (s State) Quest(id string) (Quest, bool) {
	if i := findQuest(s.Quests, id); i >= 0 {
		return s.Quests[i], true
	}
	return Quest{}, false
}

// ActiveOf lists incomplete active quests of type t.
func (s State) ActiveOf(t QuestType) []Quest {
	var out []Quest
	for _, q := range s.Quests {
		if q.Type == t && !q.Completed {
			out = append(out, q)
		}
	}
	return out
}

// NeedsRollover reports whether the day transition has not run for now's calendar day.
func (s State) NeedsRollover(now time.Time) bool {
	return s.LastProcessedDate != DayKey(now)
}

// DefaultSettings are the stock settings.
func DefaultSettings() GameSettings {
	return GameSettings{DailyFailPenalty: 0.75, SideQuestRiskChance: 0.15}
}

// DefaultSideQuestTemplates is the stock side quest catalog.
func DefaultSideQuestTemplates() []SideQuestTemplate {
	return []SideQuestTemplate{
		{ID: "sqt-0", Template: "Do {n} Pushups", Min: 5, Max: 20, UnitXP: 2, UnitGold: 0.2, BaseQP: 1, Tags: []string{"FITNESS"}},
		{ID: "sqt-1", Template: "Read {n} pages", Min: 2, Max: 10, UnitXP: 5, UnitGold: 1, BaseQP: 1, Tags: []string{"MIND"}},
		{ID: "sqt-2", Template: "Declutter {n} items", Min: 1, Max: 5, UnitXP: 5, UnitGold: 1, BaseQP: 1, Tags: []string{"ORDER"}},
		{ID: "sqt-3", Template: "Drink {n} glasses of water", Min: 1, Max: 4, UnitXP: 2, UnitGold: 0.1, BaseQP: 1, Tags: []string{"HEALTH"}},
		{ID: "sqt-4", Template: "Walk {n}00 steps", Min: 10, Max: 50, UnitXP: 1, UnitGold: 0.1, BaseQP: 1, Tags: []string{"FITNESS"}},
		{ID: "sqt-5", Template: "Write {n}00 words", Min: 2, Max: 10, UnitXP: 4, UnitGold: 0.5, BaseQP: 2, Tags: []string{"CREATIVITY"}},
	}
}

// DefaultEventTemplates is the stock event catalog.
func DefaultEventTemplates() []EventTemplate {
	return []EventTemplate{{
		ID:          "evt-tmpl-0",
		Title:       "Double XP Weekend",
		Description: "The stars align for learning. All gains doubled.",
		AllowedDays: []int{0, 6},
		SpawnChance: 0.4,
		XPReward:    100,
		GoldReward:  0,
		QPReward:    5,
	}}
}

// DefaultFocusTemplates is the stock focus catalog.
func DefaultFocusTemplates() []FocusTemplate {
	return []FocusTemplate{
		{ID: "foc-tmpl-0", Title: "Pomodoro Session", Duration: 25},
		{ID: "foc-tmpl-1", Title: "Quick Reset", Duration: 5},
		{ID: "foc-tmpl-2", Title: "Deep Work Block", Duration: 60},
		{ID: "foc-tmpl-3", Title: "Mindfulness", Duration: 10},
		{ID: "foc-tmpl-4", Title: "Deep Focus", Duration: 45},
		{ID: "foc-tmpl-5", Title: "Morning Stretch", Duration: 15},
	}
}

// DefaultStats is a fresh level 1 profile.
func DefaultStats(now time.Time) UserStats {
	return UserStats{
		Name:              "Adventurer",
		Level:             1,
		Titles:            []string{Titles[0]},
		WakeUpTime:        "NA",
		XPModifier:        ModifierNormal,
		LastLoginDate:     DayKey(now),
		IdealDays:         []int{0, 1, 2, 3, 4, 5, 6},
		CompletionHistory: map[string]bool{},
		History:           map[string]HistoryRecord{},
	}
}

func heroQuest(env Env) Quest {
	today := env.Now
	step := func(id, title string, offset int) Step {
		due := EndOfDay(today.AddDate(0, 0, offset))
		return Step{ID: id, Title: title, DueDate: &due}
	}
	due := EndOfDay(today.AddDate(0, 0, 3))
	return Quest{
		ID:          env.newID("hq-awakening"),
		Title:       "The Path of Awakening",
		Description: "Learn the ways of the system to become a true adventurer.",
		Type:        QuestGrandmaster,
		Reward:      Reward{XP: 500, Gold: 100, QP: 25},
		CreatedAt:   today,
		DueDate:     &due,
		Difficulty:  DifficultyEasy,
		Progress:    intPtr(0),
		Detail: HeroDetail{Steps: []Step{
			step("s1", "Accept & Complete a Side Quest", 0),
			step("s2", "Create a Custom Side Quest", 1),
			step("s3", "View Lifetime Stats", 2),
			step("s4", "Attend a World Event", 3),
		}},
	}
}

func firstDaily(env Env, title string) Quest {
	return Quest{
		ID:         env.newID("dq"),
		Title:      title,
		Type:       QuestDaily,
		Reward:     Reward{XP: 50, Gold: 10, QP: 5},
		CreatedAt:  env.Now,
		Difficulty: DifficultyMedium,
		FailRisk:   true,
		Detail:     DailyDetail{},
	}
}

// DefaultState builds the canonical starting document for now.
func (e *Engine) DefaultState(env Env) State {
	env = env.normalize()
	st := State{
		Stats:              DefaultStats(env.Now),
		Settings:           DefaultSettings(),
		SideQuestTemplates: DefaultSideQuestTemplates(),
		EventTemplates:     DefaultEventTemplates(),
		FocusTemplates:     DefaultFocusTemplates(),
		LastProcessedDate:  DayKey(env.Now),
		Archived:           []Quest{},
		ActivityLog:        []LogEntry{},
	}
	st.Quests = []Quest{heroQuest(env), firstDaily(env, "Complete my first daily task")}
	st.Offers = e.rules.generateBoard(env, st)
	return st
}
