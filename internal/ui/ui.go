package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/questlog-tui/internal/engine"
	"github.com/DaanHessen/questlog-tui/internal/save"
	"github.com/DaanHessen/questlog-tui/internal/session"
	"github.com/DaanHessen/questlog-tui/internal/text"
)

const (
	viewQuests     = "quests"
	viewBoard      = "board"
	viewArchive    = "archive"
	viewProfile    = "profile"
	viewLog        = "log"
	viewHelp       = "help"
	viewOnboarding = "onboarding"
)

var primaryViews = []string{viewQuests, viewBoard, viewArchive, viewProfile, viewLog}

var viewTitles = map[string]string{
	viewQuests:  "Quests",
	viewBoard:   "Notice Board",
	viewArchive: "Archive",
	viewProfile: "Profile",
	viewLog:     "Activity",
}

// Base rewards for quests typed in by hand, before difficulty scaling.
var (
	manualSideBase  = engine.BaseReward{XP: 20, Gold: 5, QP: 1}
	manualDailyBase = engine.BaseReward{XP: 50, Gold: 10, QP: 5}
)

type (
	tickMsg     time.Time
	savedMsg    struct{ err error }
	rolloverMsg struct{}
)

// prompt is a one-line text input; submit runs on enter.
type prompt struct {
	label  string
	value  string
	submit func(m *model, value string)
}

type model struct {
	ctx    context.Context
	sess   *session.Session
	st     engine.State
	events []engine.GameEvent
	undone map[string]bool
	ledger text.LedgerSource
	clock  func() time.Time

	view     string
	prevView string
	cursors  map[string]int
	scroll   int
	width    int
	height   int

	theme  string
	styles styles
	debug  bool

	status       string
	statusErr    bool
	saveStatus   string
	exportDir    string
	exportStatus string
	input        *prompt

	// onboarding
	onboardStep int
	onboardName string
	onboardMod  engine.XPModifier

	// running focus timer
	focusID string
}

func newModel(ctx context.Context, sess *session.Session, opts Options) model {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	theme := opts.Theme
	if _, ok := palettes[theme]; !ok {
		theme = "catppuccin"
	}
	m := model{
		ctx:       ctx,
		sess:      sess,
		undone:    map[string]bool{},
		ledger:    opts.Ledger,
		clock:     clock,
		view:      viewQuests,
		cursors:   map[string]int{},
		theme:     theme,
		styles:    newStyles(theme),
		debug:     opts.Debug,
		exportDir: opts.ExportDir,
	}
	m.refresh()
	if !m.st.HasOnboarded {
		m.view = viewOnboarding
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// refresh pulls the session's state and event queue.
func (m *model) refresh() {
	m.st = m.sess.State()
	m.events = m.sess.Events()
	for view, n := range map[string]int{
		viewQuests:  len(m.st.Quests),
		viewBoard:   len(m.st.Offers),
		viewArchive: len(m.st.Archived),
	} {
		if m.cursors[view] >= n {
			m.cursors[view] = n - 1
		}
		if m.cursors[view] < 0 {
			m.cursors[view] = 0
		}
	}
	if m.focusID != "" {
		if q, ok := m.st.Quest(m.focusID); !ok || q.Completed {
			m.focusID = ""
		}
	}
}

func (m *model) dispatch(cmd engine.Command) engine.Result {
	res := m.sess.Dispatch(cmd)
	if res.Accepted() {
		m.status, m.statusErr = "", false
	} else {
		m.status, m.statusErr = res.Rejection.Error(), true
	}
	m.refresh()
	return res
}

func (m *model) info(format string, args ...any) {
	m.status, m.statusErr = fmt.Sprintf(format, args...), false
}

// tea.Model implementation ---------------------------------------------------
func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		if m.focusID != "" {
			m.advanceFocus()
		}
		m.refresh()
		return m, tick()
	case tea.FocusMsg:
		if m.sess.CheckRollover() {
			m.info("A new day begins.")
		}
		m.refresh()
		return m, nil
	case rolloverMsg:
		m.refresh()
		m.info("A new day begins.")
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.saveStatus = "save failed: " + msg.err.Error()
		} else {
			m.saveStatus = "saved " + m.clock().Format("15:04:05")
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m model) handleKey(k string) (tea.Model, tea.Cmd) {
	if k == "ctrl+c" {
		return m, tea.Quit
	}
	if m.input != nil {
		m.handleInput(k)
		return m, nil
	}
	if m.view == viewOnboarding {
		m.handleOnboarding(k)
		return m, nil
	}
	if m.view == viewHelp {
		if k == "?" || k == "esc" || k == "q" {
			m.view = m.prevView
		}
		return m, nil
	}

	switch k {
	case "q":
		return m, tea.Quit
	case "tab":
		m.cycleView(1)
		return m, nil
	case "shift+tab":
		m.cycleView(-1)
		return m, nil
	case "?":
		m.prevView, m.view = m.view, viewHelp
		return m, nil
	case "t":
		m.theme = nextThemeName(m.theme, 1)
		m.styles = newStyles(m.theme)
		m.info("Theme: %s", m.theme)
		return m, nil
	case "e":
		m.exportState()
		return m, nil
	case "i":
		m.ask("Import file", func(m *model, path string) { m.importState(path) })
		return m, nil
	case "u":
		m.undoLatest()
		return m, nil
	case "c":
		m.sess.Acknowledge()
		m.undone = map[string]bool{}
		m.refresh()
		return m, nil
	}
	if m.debug && m.handleDebug(k) {
		return m, nil
	}

	switch m.view {
	case viewQuests:
		m.handleQuestKeys(k)
	case viewBoard:
		m.handleBoardKeys(k)
	case viewArchive:
		m.handleArchiveKeys(k)
	case viewProfile, viewLog:
		switch k {
		case "down", "j":
			m.scroll++
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "home":
			m.scroll = 0
		}
	}
	return m, nil
}

func (m *model) cycleView(step int) {
	idx := 0
	for i, v := range primaryViews {
		if v == m.view {
			idx = i
		}
	}
	idx = (idx + step + len(primaryViews)) % len(primaryViews)
	m.view = primaryViews[idx]
	m.scroll = 0
}

func (m *model) moveCursor(view string, delta, n int) {
	c := m.cursors[view] + delta
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	m.cursors[view] = c
}

func (m *model) selected(list []engine.Quest, view string) (engine.Quest, bool) {
	i := m.cursors[view]
	if i < 0 || i >= len(list) {
		return engine.Quest{}, false
	}
	return list[i], true
}

// Input ------------------------------------------------------------------------
func (m *model) ask(label string, submit func(m *model, value string)) {
	m.input = &prompt{label: label, submit: submit}
}

func (m *model) handleInput(k string) {
	switch k {
	case "enter":
		p := m.input
		m.input = nil
		p.submit(m, strings.TrimSpace(p.value))
	case "esc":
		m.input = nil
	case "backspace":
		if r := []rune(m.input.value); len(r) > 0 {
			m.input.value = string(r[:len(r)-1])
		}
	case " ":
		m.input.value += " "
	default:
		if isRuneInput(k) {
			m.input.value += k
		}
	}
}

func isRuneInput(s string) bool {
	r := []rune(s)
	return len(r) == 1 && r[0] >= ' ' && r[0] != 127
}

// Onboarding -------------------------------------------------------------------
var onboardModifiers = engine.AllXPModifiers

func (m *model) handleOnboarding(k string) {
	switch m.onboardStep {
	case 0:
		m.ask("Hero name", func(m *model, v string) {
			if v == "" {
				m.status, m.statusErr = "A hero needs a name.", true
				return
			}
			m.onboardName = v
			m.onboardStep = 1
		})
		m.handleInput(k)
	case 1:
		if len(k) == 1 && k[0] >= '1' && k[0] <= '4' {
			m.onboardMod = onboardModifiers[k[0]-'1']
			m.onboardStep = 2
		}
	case 2:
		m.ask("First daily quest", func(m *model, v string) {
			res := m.dispatch(engine.CompleteOnboarding{
				Name:       m.onboardName,
				WakeUpTime: "07:00",
				XPModifier: m.onboardMod,
				FirstQuest: v,
			})
			if res.Accepted() {
				m.view = viewQuests
				m.onboardStep = 0
			}
		})
		m.handleInput(k)
	}
}

// Quests -----------------------------------------------------------------------
func (m *model) handleQuestKeys(k string) {
	quests := m.st.Quests
	switch k {
	case "down", "j":
		m.moveCursor(viewQuests, 1, len(quests))
		return
	case "up", "k":
		m.moveCursor(viewQuests, -1, len(quests))
		return
	case "a":
		m.ask("New side quest", func(m *model, v string) { m.addQuest(v, engine.QuestSide) })
		return
	case "A":
		m.ask("New daily quest", func(m *model, v string) { m.addQuest(v, engine.QuestDaily) })
		return
	}
	q, ok := m.selected(quests, viewQuests)
	if !ok {
		return
	}
	switch k {
	case " ", "enter":
		m.dispatch(engine.ToggleQuest{ID: q.ID})
	case "s":
		if step, ok := nextStep(q, false); ok {
			m.dispatch(engine.ToggleQuestStep{QuestID: q.ID, StepID: step.ID})
		}
	case "S":
		if step, ok := nextStep(q, true); ok {
			m.dispatch(engine.ToggleQuestStep{QuestID: q.ID, StepID: step.ID})
		}
	case "+", "=":
		m.dispatch(engine.UpdateQuestProgress{ID: q.ID, Progress: progressOf(q) + 10})
	case "-":
		m.dispatch(engine.UpdateQuestProgress{ID: q.ID, Progress: progressOf(q) - 10})
	case "d":
		if res := m.dispatch(engine.DeleteQuest{ID: q.ID}); res.Accepted() {
			m.info("Moved %q to the archive. Press u to undo.", q.Title)
		}
	case "f":
		m.toggleFocus(q)
	}
}

// nextStep returns the first open step, or with undo the last finished one.
func nextStep(q engine.Quest, undo bool) (engine.Step, bool) {
	steps := q.Steps()
	if undo {
		for i := len(steps) - 1; i >= 0; i-- {
			if steps[i].Completed {
				return steps[i], true
			}
		}
		return engine.Step{}, false
	}
	for _, s := range steps {
		if !s.Completed {
			return s, true
		}
	}
	return engine.Step{}, false
}

func progressOf(q engine.Quest) int {
	if q.Progress == nil {
		return 0
	}
	return *q.Progress
}

func (m *model) addQuest(title string, typ engine.QuestType) {
	base := manualSideBase
	if typ == engine.QuestDaily {
		base = manualDailyBase
	}
	m.dispatch(engine.AddQuest{Quest: engine.Quest{
		Title:      title,
		Type:       typ,
		Difficulty: engine.DifficultyMedium,
		Reward:     m.sess.Rules().ComputeReward(base, engine.DifficultyMedium, false),
	}})
}

func (m *model) toggleFocus(q engine.Quest) {
	if _, ok := q.Focus(); !ok {
		m.status, m.statusErr = engine.CodeNotFocusQuest+": only focus sessions have a timer", true
		return
	}
	if m.focusID == q.ID {
		m.focusID = ""
		m.info("Focus paused.")
		return
	}
	m.focusID = q.ID
	m.info("Focus started: %s", q.Title)
}

func (m *model) advanceFocus() {
	q, ok := m.st.Quest(m.focusID)
	if !ok {
		m.focusID = ""
		return
	}
	f, ok := q.Focus()
	if !ok {
		m.focusID = ""
		return
	}
	m.dispatch(engine.UpdateFocusTimer{ID: q.ID, RemainingSeconds: f.SecondsRemaining - 1})
	if f.SecondsRemaining-1 <= 0 {
		m.focusID = ""
		m.info("Focus session over. Mark %q done when you are.", q.Title)
	}
}

// Board ------------------------------------------------------------------------
func (m *model) handleBoardKeys(k string) {
	offers := m.st.Offers
	switch k {
	case "down", "j":
		m.moveCursor(viewBoard, 1, len(offers))
		return
	case "up", "k":
		m.moveCursor(viewBoard, -1, len(offers))
		return
	case "R":
		m.dispatch(engine.RefreshNoticeBoard{})
		return
	}
	q, ok := m.selected(offers, viewBoard)
	if !ok {
		return
	}
	switch k {
	case "enter", " ":
		m.dispatch(engine.AcceptSideQuest{OfferID: q.ID})
	case "r":
		m.dispatch(engine.RerollSlot{OfferID: q.ID})
	}
}

// Archive ----------------------------------------------------------------------
func (m *model) handleArchiveKeys(k string) {
	archived := m.st.Archived
	switch k {
	case "down", "j":
		m.moveCursor(viewArchive, 1, len(archived))
		return
	case "up", "k":
		m.moveCursor(viewArchive, -1, len(archived))
		return
	}
	q, ok := m.selected(archived, viewArchive)
	if !ok {
		return
	}
	switch k {
	case "r":
		m.dispatch(engine.RestoreQuest{ID: q.ID})
	case "X":
		m.dispatch(engine.PermanentDeleteQuest{ID: q.ID})
	}
}

func (m *model) handleDebug(k string) bool {
	switch k {
	case "f1":
		m.dispatch(engine.TestAddXP{Amount: 100})
	case "f2":
		m.dispatch(engine.TestAddGold{Amount: 100})
	case "f3":
		m.dispatch(engine.TestAddStreak{})
	case "f4":
		m.dispatch(engine.TestFailAll{})
	case "f5":
		m.dispatch(engine.DailyReset{})
	default:
		return false
	}
	return true
}

// undoLatest reverses the newest queued event that carries an undo.
func (m *model) undoLatest() {
	for i := len(m.events) - 1; i >= 0; i-- {
		ev := m.events[i]
		if ev.Undo == nil || m.undone[ev.ID] {
			continue
		}
		res, _ := m.sess.Undo(ev)
		if res.Accepted() {
			m.undone[ev.ID] = true
			m.info("Undone: %s", ev.Message)
		} else {
			m.status, m.statusErr = res.Rejection.Error(), true
		}
		m.refresh()
		return
	}
	m.info("Nothing to undo.")
}

func (m *model) exportState() {
	now := m.clock()
	path := filepath.Join(m.exportDir, save.Filename(now))
	f, err := os.Create(path)
	if err != nil {
		m.exportStatus = "failed: " + err.Error()
		return
	}
	defer f.Close()
	if err := save.Encode(f, m.st, now); err != nil {
		m.exportStatus = "failed: " + err.Error()
		return
	}
	m.exportStatus = path
}

func (m *model) importState(path string) {
	f, err := os.Open(path)
	if err != nil {
		m.status, m.statusErr = err.Error(), true
		return
	}
	defer f.Close()
	doc, err := save.Read(f, m.clock())
	if err != nil {
		m.status, m.statusErr = err.Error(), true
		return
	}
	if res := m.dispatch(engine.ImportData{Document: doc}); res.Accepted() {
		m.info("Imported %s", path)
		if !m.st.HasOnboarded {
			m.view = viewOnboarding
		}
	}
}

// Rendering --------------------------------------------------------------------
func (m model) View() string {
	w := m.width
	if w <= 0 {
		w = 100
	}
	var body string
	switch m.view {
	case viewOnboarding:
		body = m.renderOnboarding()
	case viewHelp:
		body = m.renderHelp()
	case viewBoard:
		body = m.renderBoard()
	case viewArchive:
		body = m.renderArchive()
	case viewProfile:
		body = m.renderProfile(w)
	case viewLog:
		body = m.renderLog()
	default:
		body = m.renderQuests()
	}
	body = m.clip(body)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTopBar(w), body, m.renderToasts(w), m.renderBottomBar(w))
}

// clip applies the scroll offset and the window height.
func (m model) clip(s string) string {
	lines := strings.Split(s, "\n")
	off := m.scroll
	if off > len(lines)-1 {
		off = len(lines) - 1
	}
	if off < 0 {
		off = 0
	}
	lines = lines[off:]
	if avail := m.height - 8; avail > 5 && len(lines) > avail {
		lines = lines[:avail]
	}
	return strings.Join(lines, "\n")
}

func (m model) renderTopBar(w int) string {
	s := m.st.Stats
	tabs := make([]string, 0, len(primaryViews))
	for _, v := range primaryViews {
		label := viewTitles[v]
		if v == m.view {
			tabs = append(tabs, m.styles.title.Render("["+label+"]"))
		} else {
			tabs = append(tabs, m.styles.muted.Render(label))
		}
	}
	left := m.styles.title.Render("QUESTLOG") + "  " + strings.Join(tabs, " ")
	maxXP := engine.MaxXP(s.Level, s.XPModifier)
	right := fmt.Sprintf("%s  Lv %d %s %s/%s  %s  streak %d",
		s.Name, s.Level, m.styles.xpBar(s.CurrentXP, maxXP, 12),
		text.Num(s.CurrentXP), text.Num(maxXP),
		m.styles.gold.Render(text.Num(s.Gold)+"g"), s.GlobalStreak)
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + "\n" + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m model) renderBottomBar(w int) string {
	var keys string
	switch m.view {
	case viewQuests:
		keys = "[space] done  [s/S] step  [+/-] progress  [f] focus  [a/A] add side/daily  [d] delete"
	case viewBoard:
		keys = "[enter] accept  [r] reroll  [R] refresh"
	case viewArchive:
		keys = "[r] restore  [X] delete forever"
	case viewOnboarding:
		keys = "[enter] next  [esc] clear"
	default:
		keys = "[j/k] scroll"
	}
	keys += "  [tab] views  [u] undo  [c] clear  [e] export  [i] import  [t] theme  [?] help  [q] quit"
	var line []string
	if m.input != nil {
		line = append(line, m.input.label+"> "+m.input.value+"_")
	}
	if m.status != "" {
		if m.statusErr {
			line = append(line, m.styles.err.Render(m.status))
		} else {
			line = append(line, m.styles.ok.Render(m.status))
		}
	}
	if m.saveStatus != "" {
		line = append(line, m.styles.muted.Render(m.saveStatus))
	}
	if m.exportStatus != "" {
		line = append(line, m.styles.muted.Render("export: "+m.exportStatus))
	}
	return lipgloss.NewStyle().Width(w).Render(m.styles.muted.Render(keys) + "\n" + strings.Join(line, "  "))
}

// renderToasts shows the newest queued events.
func (m model) renderToasts(w int) string {
	if len(m.events) == 0 {
		return ""
	}
	const shown = 3
	from := 0
	if len(m.events) > shown {
		from = len(m.events) - shown
	}
	var lines []string
	for _, ev := range m.events[from:] {
		msg := fmt.Sprintf("%s  %s", eventIcon(ev.Type), ev.Message)
		if ev.Undo != nil && !m.undone[ev.ID] {
			msg += m.styles.muted.Render("  (u: undo)")
		}
		lines = append(lines, msg)
	}
	if from > 0 {
		lines = append(lines, m.styles.muted.Render(fmt.Sprintf("+%d more", from)))
	}
	return m.styles.toast.Width(w - 4).Render(strings.Join(lines, "\n"))
}

func eventIcon(t engine.EventType) string {
	switch t {
	case engine.EventLevelUp:
		return "▲"
	case engine.EventQuestCompleted:
		return "✔"
	case engine.EventAchievement:
		return "★"
	case engine.EventQuestAccepted:
		return "+"
	case engine.EventQuestRerolled:
		return "↻"
	}
	return "•"
}

func (m model) questLine(q engine.Quest, selected bool) string {
	check := "[ ]"
	if q.Completed {
		check = "[x]"
	}
	kind := m.styles.kind(q.Type).Render(fmt.Sprintf("%-11s", q.Type))
	title := q.Title
	if q.Completed {
		title = m.styles.done.Render(title)
	}
	var extra []string
	if q.FailRisk {
		extra = append(extra, m.styles.err.Render("risk"))
	}
	if q.Progress != nil && q.Type != engine.QuestFocus {
		extra = append(extra, fmt.Sprintf("%d%%", *q.Progress))
	}
	if n := q.Streak(); n > 0 {
		extra = append(extra, fmt.Sprintf("streak %d", n))
	}
	if f, ok := q.Focus(); ok {
		timer := fmt.Sprintf("%02d:%02d", f.SecondsRemaining/60, f.SecondsRemaining%60)
		if m.focusID == q.ID {
			timer = m.styles.ok.Render(timer + " ▶")
		}
		extra = append(extra, timer)
	}
	if q.DueDate != nil {
		extra = append(extra, "due "+engine.DayKey(*q.DueDate))
	}
	reward := m.styles.gold.Render(fmt.Sprintf("%dxp %dg %dqp", q.Reward.XP, q.Reward.Gold, q.Reward.QP))
	line := fmt.Sprintf("%s %s %s  %s  %s", check, kind, title, reward, m.styles.muted.Render(strings.Join(extra, " · ")))
	if selected {
		return m.styles.selected.Render("> ") + line
	}
	return "  " + line
}

func (m model) renderQuests() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Active quests") + "\n\n")
	if len(m.st.Quests) == 0 {
		b.WriteString(m.styles.muted.Render("No active quests. Visit the notice board (tab) or press a to add one.") + "\n")
		return b.String()
	}
	for i, q := range m.st.Quests {
		sel := i == m.cursors[viewQuests]
		b.WriteString(m.questLine(q, sel) + "\n")
		if sel {
			for _, s := range q.Steps() {
				mark := "○"
				if s.Completed {
					mark = "●"
				}
				b.WriteString(m.styles.muted.Render(fmt.Sprintf("      %s %s", mark, s.Title)) + "\n")
			}
			if q.Description != "" {
				b.WriteString(m.styles.muted.Render("      "+q.Description) + "\n")
			}
		}
	}
	return b.String()
}

func (m model) renderBoard() string {
	var b strings.Builder
	s := m.st.Stats
	r := m.sess.Rules()
	b.WriteString(m.styles.title.Render("Notice board") + "\n")
	b.WriteString(m.styles.muted.Render(fmt.Sprintf("accepted %d/%d today · rerolls %d/%d · reroll %dg (risky %dg)",
		s.DailySideQuestsTaken, r.MaxDailySideAccepts, s.DailyRerolls, r.MaxDailyRerolls, r.RerollCost, r.RiskRerollCost)) + "\n\n")
	if len(m.st.Offers) == 0 {
		b.WriteString(m.styles.muted.Render("The board is empty. Come back tomorrow.") + "\n")
		return b.String()
	}
	for i, q := range m.st.Offers {
		b.WriteString(m.questLine(q, i == m.cursors[viewBoard]) + "\n")
	}
	return b.String()
}

func (m model) renderArchive() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Archive") + "\n\n")
	if len(m.st.Archived) == 0 {
		b.WriteString(m.styles.muted.Render("(empty)") + "\n")
		return b.String()
	}
	for i, q := range m.st.Archived {
		b.WriteString(m.questLine(q, i == m.cursors[viewArchive]) + "\n")
	}
	return b.String()
}

func (m model) renderProfile(w int) string {
	md := text.ProfileReport(m.st)
	src := text.FromStats(m.st.Stats)
	if m.ledger != nil {
		src = text.WithFallback(m.ledger, src)
	}
	if ledger, err := text.LedgerReport(m.ctx, src, m.clock(), 7); err == nil {
		md += "\n" + ledger
	}
	out, err := text.Render(md, w-4)
	if err != nil {
		return md
	}
	return out
}

func (m model) renderLog() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Activity log") + "\n\n")
	if len(m.st.ActivityLog) == 0 {
		b.WriteString("(no log entries)\n")
	}
	for i := len(m.st.ActivityLog) - 1; i >= 0; i-- {
		e := m.st.ActivityLog[i]
		b.WriteString(fmt.Sprintf("%s  %-22s %s\n",
			m.styles.muted.Render(e.Timestamp.Local().Format("01-02 15:04")), e.Action, e.Details))
	}
	return b.String()
}

func (m model) renderOnboarding() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Awaken, hero") + "\n\n")
	switch m.onboardStep {
	case 0:
		b.WriteString("What is your name?\n")
	case 1:
		fmt.Fprintf(&b, "Welcome, %s. How steep should the road be?\n\n", m.onboardName)
		labels := []string{"Easy", "Normal", "Hard", "Extreme"}
		for i, mod := range onboardModifiers {
			fmt.Fprintf(&b, "  %d. %-8s level 10 needs %s XP\n", i+1, labels[i], text.Num(engine.MaxXP(10, mod)))
		}
	case 2:
		b.WriteString("Name one thing you will do every day.\n")
	}
	if m.input != nil {
		b.WriteString("\n" + m.input.label + "> " + m.input.value + "_\n")
	}
	return m.styles.panel.Render(b.String())
}

func (m model) renderHelp() string {
	help := `Quests
  j/k move  space complete/undo  s/S next/previous step
  +/- progress  f start/pause focus timer  a/A add side/daily  d archive
Notice board
  enter accept  r reroll (costs gold)  R refresh
Archive
  r restore  X delete forever
Everywhere
  tab/shift+tab switch view  u undo last action  c clear notifications
  e export  i import  t theme  ? help  q quit`
	if m.debug {
		help += "\nDebug\n  F1 +100 XP  F2 +100 gold  F3 streak  F4 fail all  F5 day transition"
	}
	return m.styles.panel.Render(help)
}
