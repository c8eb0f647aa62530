// Package scheduler runs named background tasks: tickers, debounced
// one-shot delays and cron entries.
package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TaskFn is the function signature for scheduled tasks.
type TaskFn func()

// Scheduler manages periodic, delayed and cron tasks.
type Scheduler struct {
	mu      sync.Mutex
	tickers map[string]*tickerEntry
	timers  map[string]*delayEntry
	crons   map[string]cron.EntryID
	cron    *cron.Cron
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped bool
}

type tickerEntry struct {
	ticker *time.Ticker
	stopCh chan struct{}
}

type delayEntry struct {
	timer    *time.Timer
	fn       TaskFn
	deadline time.Time // zero: no upper bound
}

// New creates a scheduler. Cron specs are evaluated in loc; nil means local time.
func New(logger *zap.Logger, loc *time.Location) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		tickers: make(map[string]*tickerEntry),
		timers:  make(map[string]*delayEntry),
		crons:   make(map[string]cron.EntryID),
		cron:    cron.New(cron.WithLocation(loc)),
		stopCh:  make(chan struct{}),
		logger:  logger,
	}
}

func (s *Scheduler) run(name string, fn TaskFn) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler task panicked",
				zap.String("task", name),
				zap.Any("recover", r))
		}
	}()
	fn()
}

// AddTicker registers a task to run on a fixed interval.
// If a task with the same name exists, it is replaced.
func (s *Scheduler) AddTicker(name string, interval time.Duration, fn TaskFn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if old, ok := s.tickers[name]; ok {
		close(old.stopCh)
		delete(s.tickers, name)
	}

	entry := &tickerEntry{
		ticker: time.NewTicker(interval),
		stopCh: make(chan struct{}),
	}
	s.tickers[name] = entry

	go func() {
		for {
			select {
			case <-entry.ticker.C:
				s.run(name, fn)
			case <-entry.stopCh:
				entry.ticker.Stop()
				return
			case <-s.stopCh:
				entry.ticker.Stop()
				return
			}
		}
	}()
	s.logger.Debug("scheduler ticker registered", zap.String("name", name), zap.Duration("interval", interval))
}

// AddDelay runs fn once after delay. Re-adding a pending name restarts
// its timer with the new fn, so bursts collapse into one run.
func (s *Scheduler) AddDelay(name string, delay time.Duration, fn TaskFn) {
	s.AddDelayMax(name, delay, 0, fn)
}

// AddDelayMax is AddDelay with an upper bound: a steady stream of re-adds
// cannot push the run further than maxWait past the first pending add.
// maxWait <= 0 means no bound.
func (s *Scheduler) AddDelayMax(name string, delay, maxWait time.Duration, fn TaskFn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	now := time.Now()
	entry := &delayEntry{fn: fn}
	if maxWait > 0 {
		entry.deadline = now.Add(maxWait)
	}
	if old, ok := s.timers[name]; ok && old.timer.Stop() && maxWait > 0 && !old.deadline.IsZero() {
		entry.deadline = old.deadline
	}
	wait := delay
	if !entry.deadline.IsZero() {
		if left := entry.deadline.Sub(now); left < wait {
			wait = left
		}
	}
	if wait < 0 {
		wait = 0
	}
	entry.timer = time.AfterFunc(wait, func() {
		s.mu.Lock()
		if s.timers[name] == entry {
			delete(s.timers, name)
		}
		s.mu.Unlock()
		s.run(name, fn)
	})
	s.timers[name] = entry
}

// Pending reports whether a delay task is waiting to fire.
func (s *Scheduler) Pending(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[name]
	return ok
}

// Flush runs a pending delay task now, on the caller's goroutine. It
// reports whether there was anything to run.
func (s *Scheduler) Flush(name string) bool {
	s.mu.Lock()
	entry, ok := s.timers[name]
	if ok {
		delete(s.timers, name)
	}
	s.mu.Unlock()
	if !ok || !entry.timer.Stop() {
		return false
	}
	s.run(name, entry.fn)
	return true
}

// AddCron registers fn under a standard five-field cron spec, replacing any
// entry with the same name. The cron runner starts with the first entry.
func (s *Scheduler) AddCron(name, spec string, fn TaskFn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}

	id, err := s.cron.AddFunc(spec, func() { s.run(name, fn) })
	if err != nil {
		return err
	}
	if old, ok := s.crons[name]; ok {
		s.cron.Remove(old)
	}
	if len(s.crons) == 0 {
		s.cron.Start()
	}
	s.crons[name] = id
	s.logger.Debug("scheduler cron registered", zap.String("name", name), zap.String("spec", spec))
	return nil
}

// NextRun returns when the named cron entry fires next.
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.crons[name]
	if !ok {
		return time.Time{}, false
	}
	next := s.cron.Entry(id).Next
	return next, !next.IsZero()
}

// Remove stops and removes a ticker, delay or cron task by name.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.tickers[name]; ok {
		close(entry.stopCh)
		delete(s.tickers, name)
	}
	if entry, ok := s.timers[name]; ok {
		entry.timer.Stop()
		delete(s.timers, name)
	}
	if id, ok := s.crons[name]; ok {
		s.cron.Remove(id)
		delete(s.crons, name)
	}
}

// Stop halts every task. Pending delays are dropped; call Flush first to
// keep them. Stop is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.stopCh)
	for name, entry := range s.timers {
		entry.timer.Stop()
		delete(s.timers, name)
	}
	s.cron.Stop()
}

// ListTickers returns the names of all registered ticker tasks.
func (s *Scheduler) ListTickers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tickers))
	for name := range s.tickers {
		names = append(names, name)
	}
	return names
}
