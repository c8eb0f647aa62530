package engine

import "fmt"

// EventPayload carries the reward delta of a completion.
type EventPayload struct {
	QuestID string `json:"id"`
	XP      int    `json:"xp"`
	Gold    int    `json:"gold"`
}

// GameEvent is a notification for the player. Undo, when set, is the
// command that reverses the action that produced the event.
type GameEvent struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Message   string        `json:"message"`
	Payload   *EventPayload `json:"payload,omitempty"`
	QuestType QuestType     `json:"questType,omitempty"`
	Undo      Command       `json:"-"`
}

func (t *txn) emit(ev GameEvent) {
	ev.ID = t.env.newID("evt")
	t.events = append(t.events, ev)
}

func (t *txn) notify(format string, args ...any) {
	t.emit(GameEvent{Type: EventSystemMessage, Message: fmt.Sprintf(format, args...)})
}

// record appends to the activity log, dropping the oldest entries past the limit.
func (t *txn) record(action, format string, args ...any) {
	t.st.ActivityLog = append(t.st.ActivityLog, LogEntry{
		ID:        t.env.newID("log"),
		Timestamp: t.env.Now,
		Action:    action,
		Details:   fmt.Sprintf(format, args...),
	})
	if limit := t.rules.ActivityLogLimit; limit > 0 && len(t.st.ActivityLog) > limit {
		t.st.ActivityLog = append([]LogEntry(nil), t.st.ActivityLog[len(t.st.ActivityLog)-limit:]...)
	}
}

func levelUpMessage(level int) string {
	return fmt.Sprintf("Level Up! You are now level %d.", level)
}

func completedMessage(r Reward) string {
	return fmt.Sprintf("+%d XP  +%dg", r.XP, r.Gold)
}
