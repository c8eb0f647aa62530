// Package text builds the markdown reports shown by the TUI and the
// report subcommand.
package text

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DaanHessen/questlog-tui/internal/engine"
	"github.com/charmbracelet/glamour"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Num formats n with thousands separators.
func Num(n int) string { return printer.Sprintf("%d", n) }

// Render turns markdown into styled terminal output. Width <= 0 disables
// wrapping.
func Render(md string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// ProfileReport summarises the hero.
func ProfileReport(st engine.State) string {
	s := st.Stats
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Name)
	fmt.Fprintf(&b, "*%s*\n\n", engine.TitleForLevel(s.Level))
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Level | %d |\n", s.Level)
	fmt.Fprintf(&b, "| XP | %s / %s |\n", Num(s.CurrentXP), Num(engine.MaxXP(s.Level, s.XPModifier)))
	fmt.Fprintf(&b, "| Gold | %s |\n", Num(s.Gold))
	fmt.Fprintf(&b, "| Quest points | %s |\n", Num(s.QuestPoints))
	fmt.Fprintf(&b, "| Streak | %d days (x%.1f) |\n", s.GlobalStreak, engine.StreakMultiplier(s.GlobalStreak))
	fmt.Fprintf(&b, "| Focus | %s min |\n", Num(s.FocusScore))
	fmt.Fprintf(&b, "| Quests completed | %s |\n", Num(s.TotalQuestsCompleted))
	fmt.Fprintf(&b, "| Lifetime | %s XP, %s gold |\n", Num(s.LifetimeXP), Num(s.LifetimeGold))

	b.WriteString("\n## Today\n\n")
	fmt.Fprintf(&b, "- %d quests, %s XP, %s gold, %d QP\n", s.DailyQuestsCompleted, Num(s.DailyXP), Num(s.DailyGold), s.DailyQP)
	fmt.Fprintf(&b, "- %d side quests taken, %d rerolls\n", s.DailySideQuestsTaken, s.DailyRerolls)

	if len(s.Titles) > 0 {
		b.WriteString("\n## Titles\n\n")
		for _, t := range s.Titles {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}
	return b.String()
}

// BoardReport lists the notice board offers.
func BoardReport(st engine.State, rules engine.Rules) string {
	var b strings.Builder
	b.WriteString("# Notice board\n\n")
	if len(st.Offers) == 0 {
		b.WriteString("_The board is empty. Add some templates._\n")
		return b.String()
	}
	b.WriteString("| # | Quest | Kind | Difficulty | Reward | Due |\n|---|---|---|---|---|---|\n")
	for i, q := range st.Offers {
		kind := string(q.Type)
		if q.FailRisk {
			kind += " (risk)"
		}
		due := "-"
		if q.DueDate != nil {
			due = engine.DayKey(*q.DueDate)
		}
		if f, ok := q.Focus(); ok {
			due = fmt.Sprintf("%d min", f.DurationMinutes)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %d XP, %dg, %d QP | %s |\n",
			i+1, q.Title, kind, q.Difficulty, q.Reward.XP, q.Reward.Gold, q.Reward.QP, due)
	}
	s := st.Stats
	fmt.Fprintf(&b, "\nAccepted today: %d/%d. Rerolls: %d/%d (%dg, %dg for risky quests).\n",
		s.DailySideQuestsTaken, rules.MaxDailySideAccepts,
		s.DailyRerolls, rules.MaxDailyRerolls,
		rules.RerollCost, rules.RiskRerollCost)
	return b.String()
}

// LedgerSource yields ledger days keyed YYYY-MM-DD with from <= day <= to.
type LedgerSource interface {
	History(ctx context.Context, from, to string) (map[string]engine.HistoryRecord, error)
}

type statsSource struct{ history map[string]engine.HistoryRecord }

// FromStats reads the ledger held in the save document itself.
func FromStats(stats engine.UserStats) LedgerSource { return statsSource{history: stats.History} }

func (s statsSource) History(_ context.Context, from, to string) (map[string]engine.HistoryRecord, error) {
	out := map[string]engine.HistoryRecord{}
	for day, r := range s.history {
		if day >= from && day <= to {
			out[day] = r
		}
	}
	return out, nil
}

// WithFallback prefers primary and falls back when it fails.
func WithFallback(primary, fallback LedgerSource) LedgerSource {
	return &fallbackSource{p: primary, f: fallback}
}

type fallbackSource struct{ p, f LedgerSource }

func (s *fallbackSource) History(ctx context.Context, from, to string) (map[string]engine.HistoryRecord, error) {
	if s.p == nil {
		return s.f.History(ctx, from, to)
	}
	if h, err := s.p.History(ctx, from, to); err == nil {
		return h, nil
	}
	return s.f.History(ctx, from, to)
}

// LedgerReport tabulates the last days days up to and including now. Days
// without a record show as zero; averages count only active days.
func LedgerReport(ctx context.Context, src LedgerSource, now time.Time, days int) (string, error) {
	if days <= 0 {
		days = 7
	}
	start := now.AddDate(0, 0, -(days - 1))
	history, err := src.History(ctx, engine.DayKey(start), engine.DayKey(now))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Last %d days\n\n", days)
	b.WriteString("| Day | XP | Gold | QP | Done | Failed | Focus |\n|---|---|---|---|---|---|---|\n")
	var total engine.HistoryRecord
	active := 0
	for i := 0; i < days; i++ {
		day := engine.DayKey(start.AddDate(0, 0, i))
		r := history[day]
		if r != (engine.HistoryRecord{}) {
			active++
		}
		total.XP += r.XP
		total.Gold += r.Gold
		total.QP += r.QP
		total.Completed += r.Completed
		total.Fails += r.Fails
		total.FocusMinutes += r.FocusMinutes
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %d | %d | %d min |\n",
			day, Num(r.XP), Num(r.Gold), r.QP, r.Completed, r.Fails, r.FocusMinutes)
	}
	fmt.Fprintf(&b, "| **Total** | %s | %s | %d | %d | %d | %d min |\n",
		Num(total.XP), Num(total.Gold), total.QP, total.Completed, total.Fails, total.FocusMinutes)

	if active == 0 {
		b.WriteString("\n_No activity yet._\n")
		return b.String(), nil
	}
	avg := func(n int) float64 { return float64(n) / float64(active) }
	fmt.Fprintf(&b, "\nActive on %d of %d days. Per active day: %.1f XP, %.1f gold, %.1f quests, %.1f focus minutes.\n",
		active, days, avg(total.XP), avg(total.Gold), avg(total.Completed), avg(total.FocusMinutes))
	return b.String(), nil
}
