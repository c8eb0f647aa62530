package engine

import (
	"math"
	"strconv"
	"strings"
	"time"
)

func difficultyForPosition(p float64) Difficulty {
	switch {
	case p > 0.7:
		return DifficultyHard
	case p > 0.3:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}

// sample returns up to count distinct indexes out of n, in random order.
func sample(rng Rand, n, count int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	if count < n {
		idx = idx[:count]
	}
	return idx
}

// GenerateSideQuestOffers draws min(count, len(templates)) offers from distinct templates.
func (r Rules) GenerateSideQuestOffers(env Env, templates []SideQuestTemplate, settings GameSettings, count int) []Quest {
	env = env.normalize()
	if len(templates) == 0 || count <= 0 {
		return nil
	}
	out := make([]Quest, 0, count)
	for _, i := range sample(env.Rand, len(templates), count) {
		out = append(out, r.sideOffer(env, templates[i], settings))
	}
	return out
}

func (r Rules) sideOffer(env Env, tmpl SideQuestTemplate, settings GameSettings) Quest {
	rng := env.Rand
	lo, hi := tmpl.Min, tmpl.Max
	if hi < lo {
		hi = lo
	}
	qty := lo + rng.Intn(hi-lo+1)
	span := hi - lo
	if span == 0 {
		span = 1
	}
	pos := float64(qty-lo) / float64(span)
	diff := difficultyForPosition(pos)
	risk := rng.Float64() < settings.SideQuestRiskChance || diff == DifficultyHard

	baseQP := float64(tmpl.BaseQP)
	if baseQP <= 0 {
		baseQP = 1
	}
	reward := r.ComputeReward(BaseReward{
		XP:   float64(qty) * tmpl.UnitXP,
		Gold: float64(qty) * tmpl.UnitGold,
		QP:   baseQP + math.Floor(pos*2),
	}, diff, risk)
	reward.XP = atLeast(applyVariance(rng, reward.XP, r.RewardVariance), 1)
	reward.Gold = atLeast(applyVariance(rng, reward.Gold, r.RewardVariance), 1)
	reward.QP = atLeast(reward.QP, 1)

	due := r.dueDate(env)
	return Quest{
		ID:         env.newID("sq"),
		Title:      strings.Replace(tmpl.Template, "{n}", strconv.Itoa(qty), 1),
		Type:       QuestSide,
		Reward:     reward,
		CreatedAt:  env.Now,
		DueDate:    &due,
		Difficulty: diff,
		FailRisk:   risk,
	}
}

func (r Rules) dueDate(env Env) time.Time {
	days := r.DueMinDays + env.Rand.Intn(r.DueMaxDays-r.DueMinDays+1)
	return EndOfDay(env.Now.AddDate(0, 0, days))
}

// GenerateFocusOffer draws one focus offer. It reports false when no templates exist.
func (r Rules) GenerateFocusOffer(env Env, templates []FocusTemplate) (Quest, bool) {
	env = env.normalize()
	if len(templates) == 0 {
		return Quest{}, false
	}
	tmpl := templates[env.Rand.Intn(len(templates))]
	minutes := tmpl.Duration
	diff := DifficultyMedium
	switch {
	case minutes <= 15:
		diff = DifficultyEasy
	case minutes > 45:
		diff = DifficultyHard
	}
	reward := r.ComputeReward(BaseReward{
		XP:   float64(minutes) * 2,
		Gold: float64(minutes) / 5,
		QP:   1 + math.Floor(float64(minutes)/30),
	}, diff, false)
	reward.XP = atLeast(applyVariance(env.Rand, reward.XP, r.RewardVariance), 1)
	reward.Gold = atLeast(applyVariance(env.Rand, reward.Gold, r.RewardVariance), 1)
	reward.QP = atLeast(reward.QP, 1)

	due := r.dueDate(env)
	return Quest{
		ID:         env.newID("fq"),
		Title:      tmpl.Title,
		Type:       QuestFocus,
		Reward:     reward,
		CreatedAt:  env.Now,
		DueDate:    &due,
		Difficulty: diff,
		Detail:     FocusDetail{DurationMinutes: minutes, SecondsRemaining: minutes * 60},
	}, true
}

// GenerateEventOffers rolls every template allowed on today's weekday against its spawn chance.
func (r Rules) GenerateEventOffers(env Env, templates []EventTemplate) []Quest {
	env = env.normalize()
	weekday := int(env.Now.Weekday())
	due := EndOfDay(env.Now)
	var out []Quest
	for _, t := range templates {
		if !contains(t.AllowedDays, weekday) {
			continue
		}
		if env.Rand.Float64() >= t.SpawnChance {
			continue
		}
		d := due
		out = append(out, Quest{
			ID:          env.newID("evt-pool-" + t.ID),
			Title:       t.Title,
			Description: t.Description,
			Type:        QuestEvent,
			Reward:      Reward{XP: t.XPReward, Gold: t.GoldReward, QP: t.QPReward},
			CreatedAt:   env.Now,
			DueDate:     &d,
			Difficulty:  DifficultyMedium,
		})
	}
	return out
}

// generateBoard builds a full notice board: side offers plus one focus offer.
func (r Rules) generateBoard(env Env, st State) []Quest {
	board := r.GenerateSideQuestOffers(env, st.SideQuestTemplates, st.Settings, r.BoardSize)
	if f, ok := r.GenerateFocusOffer(env, st.FocusTemplates); ok {
		board = append(board, f)
	}
	if board == nil {
		board = []Quest{}
	}
	return board
}

// replacementOffer synthesizes one offer of the given kind.
func (r Rules) replacementOffer(env Env, st State, kind QuestType) (Quest, bool) {
	if kind == QuestFocus {
		return r.GenerateFocusOffer(env, st.FocusTemplates)
	}
	offers := r.GenerateSideQuestOffers(env, st.SideQuestTemplates, st.Settings, 1)
	if len(offers) == 0 {
		return Quest{}, false
	}
	return offers[0], true
}
