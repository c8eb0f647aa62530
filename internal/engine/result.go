package engine

import "fmt"

// Rejection codes.
const (
	CodeQuestNotFound     = "QUEST_NOT_FOUND"
	CodeStepNotFound      = "STEP_NOT_FOUND"
	CodeGrandmasterActive = "GRANDMASTER_ACTIVE"
	CodeStepsIncomplete   = "STEPS_INCOMPLETE"
	CodeStepLocked        = "STEP_LOCKED"
	CodeQuestCompleted    = "QUEST_COMPLETED"
	CodeStepsMalformed    = "STEPS_MALFORMED"
	CodeActiveLimit       = "ACTIVE_LIMIT"
	CodeDailyAcceptLimit  = "DAILY_ACCEPT_LIMIT"
	CodeRerollLimit       = "REROLL_LIMIT"
	CodeInsufficientGold  = "INSUFFICIENT_GOLD"
	CodeOfferNotFound     = "OFFER_NOT_FOUND"
	CodeNoTemplates       = "NO_TEMPLATES"
	CodeInvalidPayload    = "INVALID_PAYLOAD"
	CodeNotFocusQuest     = "NOT_FOCUS_QUEST"
	CodeProgressDerived   = "PROGRESS_DERIVED"
	CodeAlreadyProcessed  = "ALREADY_PROCESSED"
	CodeUnsupported       = "COMMAND_UNSUPPORTED"
)

// Rejection explains why a command left the state untouched.
type Rejection struct {
	Code    string
	Message string
}

func (r *Rejection) Error() string { return r.Code + ": " + r.Message }

func rejectf(code, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Result is the outcome of one command. A rejected command carries the
// input state unchanged and no events.
type Result struct {
	State     State
	Events    []GameEvent
	Rejection *Rejection
}

// Accepted reports whether the command was applied.
func (r Result) Accepted() bool { return r.Rejection == nil }
