package engine

// CommandKind is the wire tag of a command, used for logging and the activity log.
type CommandKind string

const (
	KindAddQuest             CommandKind = "ADD_QUEST"
	KindEditQuest            CommandKind = "EDIT_QUEST"
	KindDeleteQuest          CommandKind = "DELETE_QUEST"
	KindRestoreQuest         CommandKind = "RESTORE_QUEST"
	KindPermanentDelete      CommandKind = "PERMANENT_DELETE_QUEST"
	KindToggleQuest          CommandKind = "TOGGLE_QUEST"
	KindToggleQuestStep      CommandKind = "TOGGLE_QUEST_STEP"
	KindUpdateQuestProgress  CommandKind = "UPDATE_QUEST_PROGRESS"
	KindUpdateFocusTimer     CommandKind = "UPDATE_FOCUS_TIMER"
	KindAcceptSideQuest      CommandKind = "ACCEPT_SIDE_QUEST"
	KindRerollSlot           CommandKind = "REROLL_NOTICE_BOARD_SLOT"
	KindSaveSideTemplate     CommandKind = "SAVE_SIDE_QUEST_TEMPLATE"
	KindDeleteSideTemplate   CommandKind = "DELETE_SIDE_QUEST_TEMPLATE"
	KindSaveEventTemplate    CommandKind = "SAVE_EVENT_TEMPLATE"
	KindDeleteEventTemplate  CommandKind = "DELETE_EVENT_TEMPLATE"
	KindSaveFocusTemplate    CommandKind = "SAVE_FOCUS_TEMPLATE"
	KindDeleteFocusTemplate  CommandKind = "DELETE_FOCUS_TEMPLATE"
	KindUpdateProfile        CommandKind = "UPDATE_PROFILE"
	KindUpdateSettings       CommandKind = "UPDATE_SETTINGS"
	KindCompleteOnboarding   CommandKind = "COMPLETE_ONBOARDING"
	KindDailyReset           CommandKind = "DAILY_RESET"
	KindRefreshNoticeBoard   CommandKind = "REFRESH_NOTICE_BOARD"
	KindTestAddXP            CommandKind = "TEST_ADD_XP"
	KindTestAddGold          CommandKind = "TEST_ADD_GOLD"
	KindTestAddStreak        CommandKind = "TEST_ADD_STREAK"
	KindTestFailAll          CommandKind = "TEST_FAIL_ALL"
	KindFullReset            CommandKind = "FULL_RESET"
	KindImportData           CommandKind = "IMPORT_DATA"
	KindInitSave             CommandKind = "INIT_SAVE"
	KindAcknowledgeEvents    CommandKind = "ACKNOWLEDGE_EVENTS"
)

// Command is a request to change the game state.
type Command interface {
	Kind() CommandKind
}

// AddQuest creates a quest from a draft; id and creation time are assigned.
type AddQuest struct{ Quest Quest }

// EditQuest replaces the active quest with the same id.
type EditQuest struct{ Quest Quest }

type DeleteQuest struct{ ID string }
type RestoreQuest struct{ ID string }
type PermanentDeleteQuest struct{ ID string }

// ToggleQuest flips completion of an active quest.
type ToggleQuest struct{ ID string }

type ToggleQuestStep struct {
	QuestID string
	StepID  string
}

type UpdateQuestProgress struct {
	ID       string
	Progress int
}

type UpdateFocusTimer struct {
	ID               string
	RemainingSeconds int
}

// AcceptSideQuest moves an offer from the notice board into the active list.
type AcceptSideQuest struct{ OfferID string }

// RerollSlot swaps one offer for a fresh one of the same kind.
type RerollSlot struct{ OfferID string }

type SaveSideQuestTemplate struct{ Template SideQuestTemplate }
type DeleteSideQuestTemplate struct{ ID string }
type SaveEventTemplate struct{ Template EventTemplate }
type DeleteEventTemplate struct{ ID string }
type SaveFocusTemplate struct{ Template FocusTemplate }
type DeleteFocusTemplate struct{ ID string }

type UpdateProfile struct {
	Name       string
	WakeUpTime string
	IdealDays  []int
}

// UpdateSettings merges the non-nil fields into the settings.
type UpdateSettings struct {
	DailyFailPenalty    *float64
	SideQuestRiskChance *float64
}

type CompleteOnboarding struct {
	Name       string
	WakeUpTime string
	XPModifier XPModifier
	FirstQuest string
}

// DailyReset runs the day transition once per calendar day.
type DailyReset struct{}

type RefreshNoticeBoard struct{}
type TestAddXP struct{ Amount int }
type TestAddGold struct{ Amount int }
type TestAddStreak struct{}

// TestFailAll forces a transition and wipes the streak.
type TestFailAll struct{}

type FullReset struct{}

// ImportData replaces the state with a decoded document merged onto defaults.
// Init marks the load at start-up rather than a user import.
type ImportData struct {
	Document State
	Init     bool
}

type AcknowledgeEvents struct{}

func (AddQuest) Kind() CommandKind                { return KindAddQuest }
func (EditQuest) Kind() CommandKind               { return KindEditQuest }
func (DeleteQuest) Kind() CommandKind             { return KindDeleteQuest }
func (RestoreQuest) Kind() CommandKind            { return KindRestoreQuest }
func (PermanentDeleteQuest) Kind() CommandKind    { return KindPermanentDelete }
func (ToggleQuest) Kind() CommandKind             { return KindToggleQuest }
func (ToggleQuestStep) Kind() CommandKind         { return KindToggleQuestStep }
func (UpdateQuestProgress) Kind() CommandKind     { return KindUpdateQuestProgress }
func (UpdateFocusTimer) Kind() CommandKind        { return KindUpdateFocusTimer }
func (AcceptSideQuest) Kind() CommandKind         { return KindAcceptSideQuest }
func (RerollSlot) Kind() CommandKind              { return KindRerollSlot }
func (SaveSideQuestTemplate) Kind() CommandKind   { return KindSaveSideTemplate }
func (DeleteSideQuestTemplate) Kind() CommandKind { return KindDeleteSideTemplate }
func (SaveEventTemplate) Kind() CommandKind       { return KindSaveEventTemplate }
func (DeleteEventTemplate) Kind() CommandKind     { return KindDeleteEventTemplate }
func (SaveFocusTemplate) Kind() CommandKind       { return KindSaveFocusTemplate }
func (DeleteFocusTemplate) Kind() CommandKind     { return KindDeleteFocusTemplate }
func (UpdateProfile) Kind() CommandKind           { return KindUpdateProfile }
func (UpdateSettings) Kind() CommandKind          { return KindUpdateSettings }
func (CompleteOnboarding) Kind() CommandKind      { return KindCompleteOnboarding }
func (DailyReset) Kind() CommandKind              { return KindDailyReset }
func (RefreshNoticeBoard) Kind() CommandKind      { return KindRefreshNoticeBoard }
func (TestAddXP) Kind() CommandKind               { return KindTestAddXP }
func (TestAddGold) Kind() CommandKind             { return KindTestAddGold }
func (TestAddStreak) Kind() CommandKind           { return KindTestAddStreak }
func (TestFailAll) Kind() CommandKind             { return KindTestFailAll }
func (FullReset) Kind() CommandKind               { return KindFullReset }
func (AcknowledgeEvents) Kind() CommandKind       { return KindAcknowledgeEvents }

func (c ImportData) Kind() CommandKind {
	if c.Init {
		return KindInitSave
	}
	return KindImportData
}
