package text

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DaanHessen/questlog-tui/internal/engine"
)

var reportNow = time.Date(2024, time.March, 6, 21, 0, 0, 0, time.UTC)

type failingSource struct{}

func (failingSource) History(context.Context, string, string) (map[string]engine.HistoryRecord, error) {
	return nil, errors.New("offline")
}

func TestNumGroupsThousands(t *testing.T) {
	if got := Num(1234567); got != "1,234,567" {
		t.Fatalf("Num(1234567) = %q", got)
	}
	if got := Num(42); got != "42" {
		t.Fatalf("Num(42) = %q", got)
	}
}

func TestLedgerReportAveragesActiveDays(t *testing.T) {
	stats := engine.UserStats{History: map[string]engine.HistoryRecord{
		"2024-03-04": {XP: 100, Gold: 10, Completed: 2},
		"2024-03-06": {XP: 50, Gold: 4, Completed: 1, FocusMinutes: 30},
		"2024-02-01": {XP: 9999},
	}}
	md, err := LedgerReport(context.Background(), FromStats(stats), reportNow, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"| 2024-03-05 | 0 | 0 | 0 | 0 | 0 | 0 min |",
		"| **Total** | 150 | 14 |",
		"Active on 2 of 3 days",
		"75.0 XP",
		"15.0 focus minutes",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "9,999") {
		t.Fatal("days outside the window leaked into the report")
	}
}

func TestLedgerReportEmpty(t *testing.T) {
	md, err := LedgerReport(context.Background(), FromStats(engine.UserStats{}), reportNow, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md, "# Last 7 days") || !strings.Contains(md, "No activity yet") {
		t.Fatalf("unexpected empty report:\n%s", md)
	}
}

func TestFallbackSource(t *testing.T) {
	stats := engine.UserStats{History: map[string]engine.HistoryRecord{"2024-03-06": {XP: 5}}}
	src := WithFallback(failingSource{}, FromStats(stats))
	h, err := src.History(context.Background(), "2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatal(err)
	}
	if h["2024-03-06"].XP != 5 {
		t.Fatalf("fallback not used: %+v", h)
	}

	if _, err := WithFallback(nil, failingSource{}).History(context.Background(), "", ""); err == nil {
		t.Fatal("expected the fallback's error")
	}
}

func TestProfileAndBoardReports(t *testing.T) {
	e := engine.New(engine.DefaultRules())
	st := e.DefaultState(engine.NewEnv(reportNow, engine.NewStream(3)))
	st.Stats.Gold = 12500

	profile := ProfileReport(st)
	if !strings.Contains(profile, "12,500") || !strings.Contains(profile, engine.Titles[0]) {
		t.Fatalf("profile report:\n%s", profile)
	}

	board := BoardReport(st, e.Rules())
	if strings.Count(board, "\n| ") < len(st.Offers)+1 {
		t.Fatalf("board report lists too few rows:\n%s", board)
	}
	if !strings.Contains(board, "Rerolls: 0/2") {
		t.Fatalf("board report missing counters:\n%s", board)
	}

	st.Offers = nil
	if !strings.Contains(BoardReport(st, e.Rules()), "board is empty") {
		t.Fatal("empty board not reported")
	}
}

func TestRenderProducesOutput(t *testing.T) {
	out, err := Render("# Title\n\nbody", 40)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Title") {
		t.Fatalf("rendered output lost the heading: %q", out)
	}
}
