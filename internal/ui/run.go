package ui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/questlog-tui/internal/session"
	"github.com/DaanHessen/questlog-tui/internal/text"
)

// Options tune the TUI.
type Options struct {
	Theme string
	Debug bool
	// Ledger feeds the profile report; nil reads the save's own history.
	Ledger    text.LedgerSource
	Notifier  *Notifier
	ExportDir string
	Clock     func() time.Time
}

// Notifier forwards background happenings (saves, cron rollovers) into the
// running program. It is safe to use before the program starts.
type Notifier struct {
	mu sync.Mutex
	p  *tea.Program
}

func NewNotifier() *Notifier { return &Notifier{} }

func (n *Notifier) attach(p *tea.Program) {
	n.mu.Lock()
	n.p = p
	n.mu.Unlock()
}

// send never blocks the caller: saves may run inside Update.
func (n *Notifier) send(msg tea.Msg) {
	n.mu.Lock()
	p := n.p
	n.mu.Unlock()
	if p != nil {
		go p.Send(msg)
	}
}

// Saved reports the outcome of a persistence attempt.
func (n *Notifier) Saved(err error) { n.send(savedMsg{err: err}) }

// RolledOver reports a day transition run outside the TUI.
func (n *Notifier) RolledOver() { n.send(rolloverMsg{}) }

// Run boots the TUI program and blocks until it exits.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	m := newModel(ctx, sess, opts)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithReportFocus())
	if opts.Notifier != nil {
		opts.Notifier.attach(program)
		defer opts.Notifier.attach(nil)
	}
	_, err := program.Run()
	return err
}
