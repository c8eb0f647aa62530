package save

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/DaanHessen/questlog-tui/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 6, 9, 30, 0, 0, time.UTC)

func freshState() engine.State {
	return engine.New(engine.DefaultRules()).DefaultState(engine.NewEnv(now, engine.NewStream(3)))
}

func TestExportLayout(t *testing.T) {
	data, err := Marshal(freshState(), now)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	meta := m["metadata"].(map[string]any)
	assert.Equal(t, "QuestLife", meta["appName"])
	assert.Equal(t, "2.1", meta["version"])
	quests := m["quests"].(map[string]any)
	for _, key := range []string{"active", "archived", "sideQuestTemplates", "eventTemplates", "focusTemplates"} {
		assert.Contains(t, quests, key)
	}
	assert.Contains(t, m, "availableSideQuests")
	assert.Contains(t, m, "lastSideQuestGenDate")
}

func TestExportThenDecode(t *testing.T) {
	st := freshState()
	st.HasOnboarded = true
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, st, now))

	got, err := Read(&buf, now)
	require.NoError(t, err)

	assert.Equal(t, st.Stats, got.Stats)
	assert.Equal(t, st.Settings, got.Settings)
	assert.Equal(t, st.SideQuestTemplates, got.SideQuestTemplates)
	assert.Equal(t, st.LastProcessedDate, got.LastProcessedDate)
	require.Len(t, got.Quests, len(st.Quests))
	for i := range st.Quests {
		assert.Equal(t, st.Quests[i].ID, got.Quests[i].ID)
		assert.Equal(t, st.Quests[i].Reward, got.Quests[i].Reward)
		assert.Equal(t, st.Quests[i].Detail, got.Quests[i].Detail)
	}
	assert.Len(t, got.Offers, len(st.Offers))
}

func TestDecodeFlatLegacySave(t *testing.T) {
	raw := `{
		"stats": {"name": "Old Hero", "level": 4, "gold": 12, "activeBuffs": [{"id": "b"}]},
		"settings": {"sideQuestRiskChance": 0.3, "globalBuffMultiplier": 2, "minDuration": 5, "maxDuration": 9},
		"quests": [{"id": "q1", "title": "Run", "type": "SIDE", "xpReward": 10, "goldReward": 2, "qpReward": 1, "isRisk": true}],
		"hasOnboarded": true
	}`

	st, err := Decode([]byte(raw), now)
	require.NoError(t, err)

	assert.Equal(t, "Old Hero", st.Stats.Name)
	assert.Equal(t, 4, st.Stats.Level)
	assert.Equal(t, 12, st.Stats.Gold)
	assert.Equal(t, engine.ModifierNormal, st.Stats.XPModifier, "missing keys keep defaults")
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, st.Stats.IdealDays)
	assert.Equal(t, 0.3, st.Settings.SideQuestRiskChance)
	assert.Equal(t, 0.75, st.Settings.DailyFailPenalty)
	require.Len(t, st.Quests, 1)
	assert.True(t, st.Quests[0].FailRisk)
	assert.True(t, st.HasOnboarded)
	assert.Nil(t, st.SideQuestTemplates)
	assert.Nil(t, st.Offers)

	merged := engine.New(engine.DefaultRules()).MergeOntoDefaults(st, engine.NewEnv(now, engine.NewStream(9)))
	assert.Len(t, merged.SideQuestTemplates, 6)
	assert.NotEmpty(t, merged.Offers)
}

func TestDecodeNestedMarksOnboarded(t *testing.T) {
	raw := `{"stats": {}, "settings": {}, "quests": {"active": [], "archived": []}}`

	st, err := Decode([]byte(raw), now)
	require.NoError(t, err)
	assert.True(t, st.HasOnboarded)
	assert.Empty(t, st.Quests)
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty", "  ", ErrInvalidDocument},
		{"not json", "{stats:", ErrInvalidDocument},
		{"array", "[]", ErrInvalidDocument},
		{"null", "null", ErrInvalidDocument},
		{"no stats", `{"settings": {}}`, ErrMissingField},
		{"null settings", `{"stats": {}, "settings": null}`, ErrMissingField},
		{"wrong stats shape", `{"stats": [], "settings": {}}`, ErrInvalidDocument},
		{"bad settings", `{"stats": {}, "settings": {"sideQuestRiskChance": 4}}`, ErrInvalidDocument},
		{"nested without active", `{"stats": {}, "settings": {}, "quests": {"archived": []}}`, ErrInvalidDocument},
		{"quest without id", `{"stats": {}, "settings": {}, "quests": [{"title": "x", "type": "SIDE"}]}`, ErrInvalidDocument},
		{"unknown quest type", `{"stats": {}, "settings": {}, "quests": [{"id": "a", "title": "x", "type": "CHORE"}]}`, ErrInvalidDocument},
		{"bad template", `{"stats": {}, "settings": {}, "focusTemplates": [{"id": "f", "title": "Zero", "duration": 0}]}`, ErrInvalidDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw), now)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "questlife_data_2024-03-06.json", Filename(now))
}
