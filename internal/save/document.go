// Package save converts game state to and from the portable JSON document.
package save

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/DaanHessen/questlog-tui/internal/engine"
	"github.com/go-playground/validator/v10"
)

const (
	AppName = "QuestLife"
	Version = "2.1"
)

var (
	// ErrInvalidDocument means the payload is not a usable save document.
	ErrInvalidDocument = errors.New("invalid save document")
	// ErrMissingField means a required top-level section is absent.
	ErrMissingField = errors.New("save document is missing a required field")
)

var validate = validator.New()

// Metadata identifies the exporting application.
type Metadata struct {
	ExportedAt time.Time `json:"exportedAt"`
	AppName    string    `json:"appName"`
	Version    string    `json:"version"`
}

// QuestBundle is the nested quest section of an export.
type QuestBundle struct {
	Active             []engine.Quest             `json:"active"`
	Archived           []engine.Quest             `json:"archived"`
	SideQuestTemplates []engine.SideQuestTemplate `json:"sideQuestTemplates"`
	EventTemplates     []engine.EventTemplate     `json:"eventTemplates"`
	FocusTemplates     []engine.FocusTemplate     `json:"focusTemplates"`
}

// Document is the export format.
type Document struct {
	Metadata              Metadata            `json:"metadata"`
	Settings              engine.GameSettings `json:"settings"`
	Stats                 engine.UserStats    `json:"stats"`
	Quests                QuestBundle         `json:"quests"`
	AvailableSideQuests   []engine.Quest      `json:"availableSideQuests"`
	ActivityLog           []engine.LogEntry   `json:"activityLog"`
	LastSideQuestGenDate  string              `json:"lastSideQuestGenDate"`
	SideQuestsChosenCount int                 `json:"sideQuestsChosenCount"`
	HasOnboarded          bool                `json:"hasOnboarded"`
}

// Export builds the document for st.
func Export(st engine.State, now time.Time) Document {
	return Document{
		Metadata: Metadata{ExportedAt: now, AppName: AppName, Version: Version},
		Settings: st.Settings,
		Stats:    st.Stats,
		Quests: QuestBundle{
			Active:             st.Quests,
			Archived:           st.Archived,
			SideQuestTemplates: st.SideQuestTemplates,
			EventTemplates:     st.EventTemplates,
			FocusTemplates:     st.FocusTemplates,
		},
		AvailableSideQuests:   st.Offers,
		ActivityLog:           st.ActivityLog,
		LastSideQuestGenDate:  st.LastProcessedDate,
		SideQuestsChosenCount: st.SideQuestsChosenCount,
		HasOnboarded:          st.HasOnboarded,
	}
}

// Marshal encodes st as an indented export document.
func Marshal(st engine.State, now time.Time) ([]byte, error) {
	return json.MarshalIndent(Export(st, now), "", "    ")
}

// Encode writes the export document for st to w.
func Encode(w io.Writer, st engine.State, now time.Time) error {
	data, err := Marshal(st, now)
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Filename is the conventional export file name for now.
func Filename(now time.Time) string {
	return fmt.Sprintf("questlife_data_%s.json", engine.DayKey(now))
}

// Read decodes a document from r. See Decode.
func Read(r io.Reader, now time.Time) (engine.State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return engine.State{}, fmt.Errorf("read save: %w", err)
	}
	return Decode(data, now)
}

// Decode parses a nested export or a flat legacy save. stats and settings
// are required; each is merged key by key over the defaults. Everything
// else may be missing and is left for engine.MergeOntoDefaults to fill.
// Legacy keys such as activeBuffs, globalBuffMultiplier, minDuration and
// maxDuration have no field and are dropped.
func Decode(data []byte, now time.Time) (engine.State, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return engine.State{}, fmt.Errorf("%w: empty payload", ErrInvalidDocument)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return engine.State{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if top == nil {
		return engine.State{}, fmt.Errorf("%w: not an object", ErrInvalidDocument)
	}
	for _, key := range []string{"stats", "settings"} {
		if !present(top, key) {
			return engine.State{}, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
	}

	var st engine.State
	st.Stats = engine.DefaultStats(now)
	st.Settings = engine.DefaultSettings()
	if err := decodeField(top, "stats", &st.Stats); err != nil {
		return engine.State{}, err
	}
	if err := decodeField(top, "settings", &st.Settings); err != nil {
		return engine.State{}, err
	}

	nested, err := isNested(top["quests"])
	if err != nil {
		return engine.State{}, err
	}
	if nested {
		var b QuestBundle
		if err := decodeField(top, "quests", &b); err != nil {
			return engine.State{}, err
		}
		st.Quests = b.Active
		st.Archived = b.Archived
		st.SideQuestTemplates = b.SideQuestTemplates
		st.EventTemplates = b.EventTemplates
		st.FocusTemplates = b.FocusTemplates
		// Nested exports only come from onboarded players.
		st.HasOnboarded = true
	} else {
		fields := map[string]any{
			"quests":             &st.Quests,
			"archivedQuests":     &st.Archived,
			"sideQuestTemplates": &st.SideQuestTemplates,
			"eventTemplates":     &st.EventTemplates,
			"focusTemplates":     &st.FocusTemplates,
		}
		for key, dst := range fields {
			if err := decodeField(top, key, dst); err != nil {
				return engine.State{}, err
			}
		}
	}

	rest := map[string]any{
		"availableSideQuests":   &st.Offers,
		"activityLog":           &st.ActivityLog,
		"lastSideQuestGenDate":  &st.LastProcessedDate,
		"sideQuestsChosenCount": &st.SideQuestsChosenCount,
		"hasOnboarded":          &st.HasOnboarded,
	}
	for key, dst := range rest {
		if err := decodeField(top, key, dst); err != nil {
			return engine.State{}, err
		}
	}

	if err := Validate(st); err != nil {
		return engine.State{}, err
	}
	return st, nil
}

// Validate checks the parts of a decoded state that cannot be repaired by
// back-filling.
func Validate(st engine.State) error {
	if err := validate.Struct(st.Settings); err != nil {
		return fmt.Errorf("%w: settings: %v", ErrInvalidDocument, err)
	}
	for _, t := range st.SideQuestTemplates {
		if err := validate.Struct(t); err != nil {
			return fmt.Errorf("%w: side quest template %s: %v", ErrInvalidDocument, t.ID, err)
		}
	}
	for _, t := range st.EventTemplates {
		if err := validate.Struct(t); err != nil {
			return fmt.Errorf("%w: event template %s: %v", ErrInvalidDocument, t.ID, err)
		}
	}
	for _, t := range st.FocusTemplates {
		if err := validate.Struct(t); err != nil {
			return fmt.Errorf("%w: focus template %s: %v", ErrInvalidDocument, t.ID, err)
		}
	}
	for _, list := range [][]engine.Quest{st.Quests, st.Archived, st.Offers} {
		for _, q := range list {
			if q.ID == "" {
				return fmt.Errorf("%w: quest %q has no id", ErrInvalidDocument, q.Title)
			}
			if !q.Type.Validate() {
				return fmt.Errorf("%w: quest %s has unknown type %q", ErrInvalidDocument, q.ID, q.Type)
			}
		}
	}
	return nil
}

func present(top map[string]json.RawMessage, key string) bool {
	raw, ok := top[key]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeField(top map[string]json.RawMessage, key string, dst any) error {
	if !present(top, key) {
		return nil
	}
	if err := json.Unmarshal(top[key], dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDocument, key, err)
	}
	return nil
}

// isNested reports whether quests uses the {active, archived, ...} layout.
func isNested(raw json.RawMessage) (bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return false, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false, fmt.Errorf("%w: quests: %v", ErrInvalidDocument, err)
	}
	if _, ok := probe["active"]; !ok {
		return false, fmt.Errorf("%w: quests object has no active list", ErrInvalidDocument)
	}
	return true, nil
}
