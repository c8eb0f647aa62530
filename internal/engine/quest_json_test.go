package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLegacySideQuest(t *testing.T) {
	raw := `{"id":"sq-1","title":"Read 4 pages","type":"SIDE","completed":false,
		"xpReward":20,"goldReward":4,"qpReward":1,"createdAt":1709717400000,"isRisk":true}`

	var q Quest
	require.NoError(t, json.Unmarshal([]byte(raw), &q))

	assert.True(t, q.FailRisk)
	assert.Nil(t, q.Detail)
	assert.Equal(t, Reward{XP: 20, Gold: 4, QP: 1}, q.Reward)
	assert.Equal(t, int64(1709717400000), q.CreatedAt.UnixMilli())
}

func TestDecodeTypedDetails(t *testing.T) {
	raw := `[
		{"id":"d","title":"Stretch","type":"DAILY","streak":4,"hasPenalty":true},
		{"id":"g","title":"Epic","type":"GRANDMASTER","steps":[{"id":"a","title":"one","completed":true},{"id":"b","title":"two","completed":false}]},
		{"id":"f","title":"Focus","type":"FOCUS","focusDurationMinutes":25}
	]`

	var qs []Quest
	require.NoError(t, json.Unmarshal([]byte(raw), &qs))
	require.Len(t, qs, 3)

	assert.Equal(t, 4, qs[0].Streak())
	assert.True(t, qs[0].FailRisk)
	require.Len(t, qs[1].Steps(), 2)
	assert.True(t, qs[1].Steps()[0].Completed)
	f, ok := qs[2].Focus()
	require.True(t, ok)
	assert.Equal(t, FocusDetail{DurationMinutes: 25, SecondsRemaining: 1500}, f)
}

func TestEncodeWritesFlatFields(t *testing.T) {
	due := time.Date(2024, time.March, 8, 23, 59, 59, 0, time.UTC)
	q := Quest{
		ID:        "sq-2",
		Title:     "Walk",
		Type:      QuestSide,
		FailRisk:  true,
		Reward:    Reward{XP: 7, Gold: 2, QP: 1},
		CreatedAt: testNow,
		DueDate:   &due,
	}

	data, err := json.Marshal(q)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, 7.0, m["xpReward"])
	assert.Equal(t, true, m["hasPenalty"])
	assert.Equal(t, true, m["isRisk"])
	assert.Equal(t, float64(testNow.UnixMilli()), m["createdAt"])
	assert.NotContains(t, m, "streak")

	q.Type = QuestDaily
	q.Detail = DailyDetail{Streak: 2}
	data, err = json.Marshal(q)
	require.NoError(t, err)
	m = nil
	require.NoError(t, json.Unmarshal(data, &m))
	assert.NotContains(t, m, "isRisk")
	assert.Equal(t, 2.0, m["streak"])
}
