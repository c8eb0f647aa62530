package engine

func (t *txn) acceptOffer(c AcceptSideQuest) *Rejection {
	i := findQuest(t.st.Offers, c.OfferID)
	if i < 0 {
		return rejectf(CodeOfferNotFound, "offer %s is no longer on the board", c.OfferID)
	}
	offer := t.st.Offers[i]
	stats := &t.st.Stats
	switch offer.Type {
	case QuestFocus:
		if len(t.st.ActiveOf(QuestFocus)) >= t.rules.MaxActiveFocus {
			return rejectf(CodeActiveLimit, "at most %d focus sessions can be active", t.rules.MaxActiveFocus)
		}
	default:
		if len(t.st.ActiveOf(QuestSide)) >= t.rules.MaxActiveSide {
			return rejectf(CodeActiveLimit, "at most %d side quests can be active", t.rules.MaxActiveSide)
		}
		if stats.DailySideQuestsTaken >= t.rules.MaxDailySideAccepts {
			return rejectf(CodeDailyAcceptLimit, "daily limit of %d side quests reached", t.rules.MaxDailySideAccepts)
		}
	}

	accepted := offer
	accepted.CreatedAt = t.env.Now
	t.st.Quests = append(t.st.Quests, accepted)
	if next, ok := t.rules.replacementOffer(t.env, *t.st, offer.Type); ok {
		t.st.Offers[i] = next
	} else {
		t.st.Offers = append(t.st.Offers[:i:i], t.st.Offers[i+1:]...)
	}
	if offer.Type == QuestSide {
		stats.DailySideQuestsTaken++
	}
	t.st.SideQuestsChosenCount++
	t.record("QUEST_ACCEPTED", "Accepted %s quest: %q", offer.Type, offer.Title)
	t.emit(GameEvent{Type: EventQuestAccepted, Message: "Quest accepted: " + offer.Title, QuestType: offer.Type})
	return nil
}

func (t *txn) rerollSlot(c RerollSlot) *Rejection {
	i := findQuest(t.st.Offers, c.OfferID)
	if i < 0 {
		return rejectf(CodeOfferNotFound, "offer %s is no longer on the board", c.OfferID)
	}
	stats := &t.st.Stats
	if stats.DailyRerolls >= t.rules.MaxDailyRerolls {
		return rejectf(CodeRerollLimit, "no rerolls left today")
	}
	offer := t.st.Offers[i]
	cost := t.rules.rerollCost(offer)
	if stats.Gold < cost {
		return rejectf(CodeInsufficientGold, "reroll costs %dg, you have %dg", cost, stats.Gold)
	}
	next, ok := t.rules.replacementOffer(t.env, *t.st, offer.Type)
	if !ok {
		return rejectf(CodeNoTemplates, "no templates to draw a new %s offer from", offer.Type)
	}
	stats.Gold -= cost
	stats.DailyRerolls++
	t.st.Offers[i] = next
	t.record("QUEST_REROLLED", "Rerolled %q for %dg", offer.Title, cost)
	t.emit(GameEvent{Type: EventQuestRerolled, Message: "New offer: " + next.Title, QuestType: next.Type})
	return nil
}

func (t *txn) refreshBoard() *Rejection {
	t.st.Offers = t.rules.generateBoard(t.env, *t.st)
	t.st.SideQuestsChosenCount = 0
	t.record("DEBUG_REFRESH_BOARD", "Notice board regenerated.")
	t.notify("Board refreshed.")
	return nil
}
