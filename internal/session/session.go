// Package session owns the live game state: it dispatches commands through
// the engine, queues events for the player and persists snapshots.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DaanHessen/questlog-tui/internal/engine"
	"github.com/DaanHessen/questlog-tui/internal/scheduler"
	"github.com/DaanHessen/questlog-tui/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	saveTask      = "save"
	rolloverTask  = "rollover"
	watchTask     = "rollover-watch"
	watchInterval = 5 * time.Minute
	saveTimeout   = 10 * time.Second

	WelcomeMessage = "Welcome to QuestLife. Your journey is ready."
)

// Store is the persistence the session needs. *store.SaveRepo satisfies it.
type Store interface {
	Save(ctx context.Context, slot string, st engine.State, now time.Time) error
	Load(ctx context.Context, slot string, now time.Time) (engine.State, error)
}

// Options configures a session. Store and Scheduler may be nil: without a
// store nothing is persisted, without a scheduler saves run inline.
type Options struct {
	Engine    *engine.Engine
	Store     Store
	Scheduler *scheduler.Scheduler
	Logger    *zap.Logger
	Seed      engine.Seed
	Slot      string
	Debounce  time.Duration
	// MaxWait bounds how long a steady stream of commands can hold back a
	// debounced save. Zero means five times Debounce.
	MaxWait time.Duration
	Clock   func() time.Time
	// OnSaved is called after every persistence attempt.
	OnSaved func(error)
}

// Session is safe for concurrent use; the TUI and the cron rollover both
// dispatch through it.
type Session struct {
	opts Options
	log  *zap.Logger

	mu      sync.Mutex
	st      engine.State
	events  []engine.GameEvent
	epoch   string
	seq     uint64
	saveErr error
}

func (o *Options) normalize() error {
	if o.Engine == nil {
		o.Engine = engine.New(engine.DefaultRules())
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.MaxWait <= 0 {
		o.MaxWait = 5 * o.Debounce
	}
	if o.Slot == "" {
		o.Slot = "default"
	}
	if o.Seed.Text == "" {
		seed, err := engine.NewSeed(fmt.Sprintf("questlog:%d", o.Clock().UnixNano()))
		if err != nil {
			return err
		}
		o.Seed = seed
	}
	return nil
}

// New wraps an existing state.
func New(opts Options, st engine.State) (*Session, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	return &Session{opts: opts, log: opts.Logger.With(zap.String("slot", opts.Slot)), st: st}, nil
}

// NewGame starts from the default document and greets the player.
func NewGame(opts Options) (*Session, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	s := &Session{opts: opts, log: opts.Logger.With(zap.String("slot", opts.Slot))}
	env := s.nextEnv()
	s.st = opts.Engine.DefaultState(env)
	s.events = append(s.events, engine.GameEvent{
		ID:      welcomeID(env),
		Type:    engine.EventSystemMessage,
		Message: WelcomeMessage,
	})
	s.log.Info("new game started")
	return s, nil
}

// Open loads the slot from the store, or starts a new game when the slot
// does not exist yet. A loaded save goes through INIT_SAVE so missing
// fields are back-filled.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	if opts.Store == nil {
		return NewGame(opts)
	}
	doc, err := opts.Store.Load(ctx, opts.Slot, opts.Clock())
	if errors.Is(err, store.ErrNotFound) {
		s, err := NewGame(opts)
		if err != nil {
			return nil, err
		}
		s.schedule()
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", opts.Slot, err)
	}
	s, err := New(opts, engine.State{})
	if err != nil {
		return nil, err
	}
	s.epoch = docEpoch(doc, opts.Clock())
	s.Dispatch(engine.ImportData{Document: doc, Init: true})
	return s, nil
}

func welcomeID(env engine.Env) string {
	id, err := uuid.NewRandomFromReader(env.Rand)
	if err != nil {
		id = uuid.New()
	}
	return "evt-" + id.String()
}

// docEpoch names a loaded document. Streams of a session opened on it are
// labelled with it, so a fixed seed never hands out ids the document
// already holds: every id it holds was drawn under an earlier document.
func docEpoch(doc engine.State, now time.Time) string {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Sprintf("t%d", now.UnixNano())
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, data).String()
}

// nextEnv hands each transition its own stream so a replay with the same
// seed and document reproduces the same ids and offers. Callers hold s.mu
// or own s.
func (s *Session) nextEnv() engine.Env {
	s.seq++
	label := fmt.Sprintf("cmd:%d", s.seq)
	if s.epoch != "" {
		label = fmt.Sprintf("cmd:%s:%d", s.epoch, s.seq)
	}
	return engine.NewEnv(s.opts.Clock(), s.opts.Seed.Stream(label))
}

// State returns a copy of the current state.
func (s *Session) State() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

// Rules returns the engine rules in force.
func (s *Session) Rules() engine.Rules { return s.opts.Engine.Rules() }

// Dispatch applies cmd. Accepted commands replace the state, queue their
// events and schedule a save. ACKNOWLEDGE_EVENTS clears the queue.
func (s *Session) Dispatch(cmd engine.Command) engine.Result {
	s.mu.Lock()
	res := s.opts.Engine.Apply(s.st, cmd, s.nextEnv())
	s.log.Debug("dispatch", zap.String("command", string(cmd.Kind())))
	if !res.Accepted() {
		s.mu.Unlock()
		s.log.Info("command rejected",
			zap.String("command", string(cmd.Kind())),
			zap.String("code", res.Rejection.Code),
			zap.String("reason", res.Rejection.Message))
		return res
	}
	s.st = res.State
	if _, ack := cmd.(engine.AcknowledgeEvents); ack {
		s.events = nil
		s.mu.Unlock()
		return res
	}
	s.events = append(s.events, res.Events...)
	s.mu.Unlock()

	s.schedule()
	return res
}

// Undo dispatches the undo command attached to ev.
func (s *Session) Undo(ev engine.GameEvent) (engine.Result, bool) {
	if ev.Undo == nil {
		return engine.Result{}, false
	}
	return s.Dispatch(ev.Undo), true
}

// Events returns the queued, unacknowledged events in order.
func (s *Session) Events() []engine.GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]engine.GameEvent(nil), s.events...)
}

// Acknowledge clears the event queue.
func (s *Session) Acknowledge() { s.Dispatch(engine.AcknowledgeEvents{}) }

// CheckRollover runs DAILY_RESET when the calendar day changed since the
// last transition. It reports whether a transition ran.
func (s *Session) CheckRollover() bool {
	s.mu.Lock()
	due := s.st.NeedsRollover(s.opts.Clock())
	s.mu.Unlock()
	if !due {
		return false
	}
	res := s.Dispatch(engine.DailyReset{})
	if res.Accepted() {
		s.log.Info("day rolled over", zap.String("day", res.State.LastProcessedDate))
	}
	return res.Accepted()
}

// ScheduleRollover registers a cron entry that checks for a new day at
// local midnight, plus a slower ticker that catches a midnight missed while
// the machine slept. onRollover, when set, runs after a transition happened.
func (s *Session) ScheduleRollover(onRollover func()) error {
	if s.opts.Scheduler == nil {
		return errors.New("no scheduler")
	}
	check := func() {
		if s.CheckRollover() && onRollover != nil {
			onRollover()
		}
	}
	if err := s.opts.Scheduler.AddCron(rolloverTask, "0 0 * * *", check); err != nil {
		return err
	}
	s.opts.Scheduler.AddTicker(watchTask, watchInterval, check)
	return nil
}

func (s *Session) schedule() {
	if s.opts.Store == nil {
		return
	}
	if s.opts.Scheduler == nil || s.opts.Debounce <= 0 {
		s.persist()
		return
	}
	s.opts.Scheduler.AddDelayMax(saveTask, s.opts.Debounce, s.opts.MaxWait, s.persist)
}

// persist writes the latest state; it runs on the scheduler's goroutine
// or inline from Flush.
func (s *Session) persist() {
	s.mu.Lock()
	snap := s.st.Clone()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	err := s.opts.Store.Save(ctx, s.opts.Slot, snap, s.opts.Clock())
	if err != nil {
		s.log.Error("save failed", zap.Error(err))
	} else {
		s.log.Debug("state saved", zap.Int("quests", len(snap.Quests)))
	}

	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()
	if s.opts.OnSaved != nil {
		s.opts.OnSaved(err)
	}
}

// SaveErr returns the result of the last persistence attempt.
func (s *Session) SaveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

// Flush writes a pending save now and returns its error.
func (s *Session) Flush() error {
	if s.opts.Scheduler != nil {
		s.opts.Scheduler.Flush(saveTask)
	}
	return s.SaveErr()
}

// Pending reports whether a debounced save is waiting.
func (s *Session) Pending() bool {
	return s.opts.Scheduler != nil && s.opts.Scheduler.Pending(saveTask)
}
