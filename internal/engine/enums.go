package engine

// String backed enums, stored verbatim in the save document.

type QuestType string
type Difficulty string
type EventType string
type ArchivePolicy string

const (
	QuestGrandmaster QuestType = "GRANDMASTER"
	QuestDaily       QuestType = "DAILY"
	QuestSide        QuestType = "SIDE"
	QuestEvent       QuestType = "EVENT"
	QuestFocus       QuestType = "FOCUS"
)

var AllQuestTypes = []QuestType{QuestGrandmaster, QuestDaily, QuestSide, QuestEvent, QuestFocus}

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

const (
	EventLevelUp        EventType = "LEVEL_UP"
	EventQuestCompleted EventType = "QUEST_COMPLETED"
	EventQuestAccepted  EventType = "QUEST_ACCEPTED"
	EventQuestRerolled  EventType = "QUEST_REROLLED"
	EventSystemMessage  EventType = "SYSTEM_MESSAGE"
	EventAchievement    EventType = "ACHIEVEMENT_UNLOCKED"
)

const (
	// ArchiveAll moves every non-daily quest to the archive at rollover.
	ArchiveAll ArchivePolicy = "all"
	// ArchiveStale keeps incomplete quests whose due date has not passed.
	ArchiveStale ArchivePolicy = "stale"
)

var AllArchivePolicies = []ArchivePolicy{ArchiveAll, ArchiveStale}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (q QuestType) Validate() bool     { return contains(AllQuestTypes, q) }
func (d Difficulty) Validate() bool    { return contains(AllDifficulties, d) }
func (a ArchivePolicy) Validate() bool { return contains(AllArchivePolicies, a) }

// XPModifier scales the experience curve. Values match the onboarding choices.
type XPModifier float64

const (
	ModifierEasy    XPModifier = 1.1
	ModifierNormal  XPModifier = 1.25
	ModifierHard    XPModifier = 1.5
	ModifierExtreme XPModifier = 2.0
)

var AllXPModifiers = []XPModifier{ModifierEasy, ModifierNormal, ModifierHard, ModifierExtreme}

func (m XPModifier) Validate() bool { return contains(AllXPModifiers, m) }
