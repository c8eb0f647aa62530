package engine

import (
	"encoding/json"
	"time"
)

// wireQuest is the flat document form of a quest. Older saves set
// isRisk instead of hasPenalty; both are read.
type wireQuest struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description,omitempty"`
	Type                  QuestType  `json:"type"`
	Completed             bool       `json:"completed"`
	XPReward              float64    `json:"xpReward"`
	GoldReward            float64    `json:"goldReward"`
	QPReward              float64    `json:"qpReward"`
	CreatedAt             int64      `json:"createdAt"`
	Streak                *int       `json:"streak,omitempty"`
	DueDate               *time.Time `json:"dueDate,omitempty"`
	Difficulty            Difficulty `json:"difficulty,omitempty"`
	HasPenalty            bool       `json:"hasPenalty,omitempty"`
	IsRisk                bool       `json:"isRisk,omitempty"`
	Progress              *int       `json:"progress,omitempty"`
	Steps                 []Step     `json:"steps,omitempty"`
	FocusDurationMinutes  *int       `json:"focusDurationMinutes,omitempty"`
	FocusSecondsRemaining *int       `json:"focusSecondsRemaining,omitempty"`
	Grant                 *Grant     `json:"grant,omitempty"`
}

// MarshalJSON writes the flat document form.
func (q Quest) MarshalJSON() ([]byte, error) {
	w := wireQuest{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Type:        q.Type,
		Completed:   q.Completed,
		XPReward:    float64(q.Reward.XP),
		GoldReward:  float64(q.Reward.Gold),
		QPReward:    float64(q.Reward.QP),
		CreatedAt:   q.CreatedAt.UnixMilli(),
		DueDate:     q.DueDate,
		Difficulty:  q.Difficulty,
		HasPenalty:  q.FailRisk,
		IsRisk:      q.FailRisk && q.Type == QuestSide,
		Progress:    q.Progress,
		Grant:       q.Grant,
	}
	switch d := q.Detail.(type) {
	case DailyDetail:
		w.Streak = intPtr(d.Streak)
	case HeroDetail:
		w.Steps = d.Steps
	case FocusDetail:
		w.FocusDurationMinutes = intPtr(d.DurationMinutes)
		w.FocusSecondsRemaining = intPtr(d.SecondsRemaining)
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the flat document form and builds the typed detail.
func (q *Quest) UnmarshalJSON(data []byte) error {
	var w wireQuest
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*q = Quest{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Type:        w.Type,
		Completed:   w.Completed,
		Reward:      Reward{XP: int(w.XPReward), Gold: int(w.GoldReward), QP: int(w.QPReward)},
		DueDate:     w.DueDate,
		Difficulty:  w.Difficulty,
		FailRisk:    w.HasPenalty || w.IsRisk,
		Progress:    w.Progress,
		Grant:       w.Grant,
	}
	if w.CreatedAt != 0 {
		q.CreatedAt = time.UnixMilli(w.CreatedAt)
	}
	switch w.Type {
	case QuestDaily:
		d := DailyDetail{}
		if w.Streak != nil {
			d.Streak = *w.Streak
		}
		q.Detail = d
	case QuestGrandmaster:
		q.Detail = HeroDetail{Steps: w.Steps}
	case QuestFocus:
		f := FocusDetail{}
		if w.FocusDurationMinutes != nil {
			f.DurationMinutes = *w.FocusDurationMinutes
		}
		if w.FocusSecondsRemaining != nil {
			f.SecondsRemaining = *w.FocusSecondsRemaining
		} else {
			f.SecondsRemaining = f.DurationMinutes * 60
		}
		q.Detail = f
	}
	return nil
}
