package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sideOffers(st State) []Quest {
	var out []Quest
	for _, q := range st.Offers {
		if q.Type == QuestSide {
			out = append(out, q)
		}
	}
	return out
}

func focusOffer(t *testing.T, st State) Quest {
	t.Helper()
	for _, q := range st.Offers {
		if q.Type == QuestFocus {
			return q
		}
	}
	t.Fatal("board has no focus offer")
	return Quest{}
}

func TestAcceptSideQuest(t *testing.T) {
	e, st := newTestGame(t)
	offer := sideOffers(st)[0]

	res := mustApply(t, e, st, AcceptSideQuest{OfferID: offer.ID})

	accepted, ok := res.State.Quest(offer.ID)
	require.True(t, ok)
	assert.Equal(t, offer.Title, accepted.Title)
	assert.Len(t, res.State.Offers, len(st.Offers))
	assert.Len(t, sideOffers(res.State), len(sideOffers(st)))
	assert.Equal(t, -1, findQuest(res.State.Offers, offer.ID))
	assert.Equal(t, 1, res.State.Stats.DailySideQuestsTaken)
	assert.Equal(t, 1, res.State.SideQuestsChosenCount)
	require.Len(t, res.Events, 1)
	assert.Equal(t, EventQuestAccepted, res.Events[0].Type)

	requireRejected(t, e, res.State, AcceptSideQuest{OfferID: offer.ID}, CodeOfferNotFound)
}

func TestAcceptRespectsActiveLimit(t *testing.T) {
	e, st := newTestGame(t)
	for i := 0; i < e.Rules().MaxActiveSide; i++ {
		st, _ = addSide(t, e, st, Reward{XP: 1})
	}
	before := st.Clone()

	res := requireRejected(t, e, st, AcceptSideQuest{OfferID: sideOffers(st)[0].ID}, CodeActiveLimit)

	assert.Equal(t, before, res.State)
}

func TestAcceptRespectsDailyLimit(t *testing.T) {
	e, st := newTestGame(t)
	st.Stats.DailySideQuestsTaken = e.Rules().MaxDailySideAccepts
	before := st.Clone()

	res := requireRejected(t, e, st, AcceptSideQuest{OfferID: sideOffers(st)[0].ID}, CodeDailyAcceptLimit)

	assert.Equal(t, before, res.State)
}

func TestAcceptFocusOffer(t *testing.T) {
	e, st := newTestGame(t)
	// The side quest daily limit does not apply to focus sessions.
	st.Stats.DailySideQuestsTaken = e.Rules().MaxDailySideAccepts
	offer := focusOffer(t, st)

	res := mustApply(t, e, st, AcceptSideQuest{OfferID: offer.ID})

	assert.Equal(t, e.Rules().MaxDailySideAccepts, res.State.Stats.DailySideQuestsTaken)
	next := focusOffer(t, res.State)
	assert.NotEqual(t, offer.ID, next.ID)
	assert.Len(t, res.State.ActiveOf(QuestFocus), 1)
}

func TestAcceptFocusRespectsLimit(t *testing.T) {
	e, st := newTestGame(t)
	for i := 0; i < e.Rules().MaxActiveFocus; i++ {
		st = mustApply(t, e, st, AddQuest{Quest: Quest{Title: "Focus", Type: QuestFocus, Detail: FocusDetail{DurationMinutes: 5}}}).State
	}
	requireRejected(t, e, st, AcceptSideQuest{OfferID: focusOffer(t, st).ID}, CodeActiveLimit)
}

func TestAcceptWithoutTemplatesShrinksBoard(t *testing.T) {
	e, st := newTestGame(t)
	st.SideQuestTemplates = nil
	offer := sideOffers(st)[0]

	res := mustApply(t, e, st, AcceptSideQuest{OfferID: offer.ID})

	assert.Len(t, res.State.Offers, len(st.Offers)-1)
}

func TestRerollCosts(t *testing.T) {
	e, st := newTestGame(t)
	due := testNow.AddDate(0, 0, 3)
	st.Offers = []Quest{
		{ID: "safe", Title: "Safe", Type: QuestSide, Reward: Reward{XP: 5, Gold: 1, QP: 1}, DueDate: &due},
		{ID: "risky", Title: "Risky", Type: QuestSide, FailRisk: true, Reward: Reward{XP: 5, Gold: 7, QP: 1}, DueDate: &due},
	}

	st.Stats.Gold = 10
	res := requireRejected(t, e, st, RerollSlot{OfferID: "safe"}, CodeInsufficientGold)
	assert.Equal(t, 10, res.State.Stats.Gold)
	assert.Equal(t, "safe", res.State.Offers[0].ID)

	st.Stats.Gold = 20
	requireRejected(t, e, st, RerollSlot{OfferID: "risky"}, CodeInsufficientGold)

	res = mustApply(t, e, st, RerollSlot{OfferID: "safe"})
	assert.Equal(t, 5, res.State.Stats.Gold)
	assert.Equal(t, 1, res.State.Stats.DailyRerolls)
	assert.NotEqual(t, "safe", res.State.Offers[0].ID)
	assert.Equal(t, QuestSide, res.State.Offers[0].Type)
	assert.Equal(t, "risky", res.State.Offers[1].ID)
	require.Len(t, res.Events, 1)
	assert.Equal(t, EventQuestRerolled, res.Events[0].Type)

	requireRejected(t, e, res.State, RerollSlot{OfferID: "gone"}, CodeOfferNotFound)
}

func TestRerollLimit(t *testing.T) {
	e, st := newTestGame(t)
	st.Stats.Gold = 1000
	st.Stats.DailyRerolls = e.Rules().MaxDailyRerolls

	requireRejected(t, e, st, RerollSlot{OfferID: st.Offers[0].ID}, CodeRerollLimit)
}

func TestRerollWithoutTemplates(t *testing.T) {
	e, st := newTestGame(t)
	st.Stats.Gold = 1000
	st.SideQuestTemplates = []SideQuestTemplate{}

	requireRejected(t, e, st, RerollSlot{OfferID: sideOffers(st)[0].ID}, CodeNoTemplates)
}

func TestRefreshNoticeBoard(t *testing.T) {
	e, st := newTestGame(t)
	st.SideQuestsChosenCount = 2
	old := map[string]bool{}
	for _, q := range st.Offers {
		old[q.ID] = true
	}

	res := mustApply(t, e, st, RefreshNoticeBoard{})

	assert.Len(t, res.State.Offers, e.Rules().BoardSize+1)
	for _, q := range res.State.Offers {
		assert.False(t, old[q.ID])
	}
	assert.Equal(t, 0, res.State.SideQuestsChosenCount)
	assert.Equal(t, "Board refreshed.", res.Events[0].Message)
}
