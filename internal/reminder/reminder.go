// Package reminder scans the task store and fires due reminders.
//
// A task fires when the scan runs inside the minute that starts at its
// scheduled time. Tasks whose minute has passed without a scan are
// missed: they stay in the store and never fire. Fired tasks are removed,
// so each task fires at most once.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/studycal/internal/calendar"
	"github.com/nibzard/studycal/internal/logging"
	"github.com/nibzard/studycal/internal/notify"
	"github.com/nibzard/studycal/internal/store"
)

// DefaultInterval is the polling interval used by Run.
const DefaultInterval = 30 * time.Second

// FireWindow is how long after its scheduled time a task may still fire.
const FireWindow = time.Minute

// MaxInterval is the longest polling interval Run accepts. Longer values
// are clamped so a slow scan cannot push the next one past a window.
const MaxInterval = FireWindow / 2

// Outcome classifies a task against the current time.
type Outcome int

const (
	Pending Outcome = iota
	Fired
	Missed
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Fired:
		return "fired"
	case Missed:
		return "missed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Classify compares a task's scheduled time with now.
func Classify(taskTime, now time.Time) Outcome {
	switch {
	case now.Before(taskTime):
		return Pending
	case now.Before(taskTime.Add(FireWindow)):
		return Fired
	default:
		return Missed
	}
}

// ClassifyTask parses a task's date and clock in now's location and
// classifies it.
func ClassifyTask(date string, task store.TaskRecord, now time.Time) (Outcome, error) {
	at, err := calendar.At(date, task.Time, now.Location())
	if err != nil {
		return Pending, err
	}
	return Classify(at, now), nil
}

// FiredTask is a reminder delivered during a scan.
type FiredTask struct {
	Date string
	Task store.TaskRecord
	Err  error // delivery error, if any
}

// Report summarizes one scan.
type Report struct {
	Now     time.Time
	Fired   []FiredTask
	Pending int
	Missed  int
	Saved   bool
}

// NotifyErrors returns the delivery errors from the scan.
func (r Report) NotifyErrors() []error {
	var errs []error
	for _, f := range r.Fired {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// Scanner checks the store for due reminders.
type Scanner struct {
	store    *store.Store
	notifier notify.Notifier
	session  *Session
	logger   *log.Logger
	history  *logging.History
	interval time.Duration
	now      func() time.Time
	template notify.Notification
	onReport func(Report)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHistory records every fired reminder in h.
func WithHistory(h *logging.History) Option {
	return func(s *Scanner) { s.history = h }
}

// WithInterval sets the polling interval used by Run.
func WithInterval(d time.Duration) Option {
	return func(s *Scanner) {
		switch {
		case d > MaxInterval:
			s.interval = MaxInterval
		case d > 0:
			s.interval = d
		}
	}
}

// WithClock overrides the clock used by Run.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSession shares a session with the caller, typically the view.
func WithSession(sess *Session) Option {
	return func(s *Scanner) {
		if sess != nil {
			s.session = sess
		}
	}
}

// WithNotification sets the title, icon, and sound used for every
// notification. The message is always the task name.
func WithNotification(title, icon string, sound bool) Option {
	return func(s *Scanner) {
		if title != "" {
			s.template.Title = title
		}
		s.template.Icon = icon
		s.template.Sound = sound
	}
}

// WithReportHook calls fn after every scan in Run.
func WithReportHook(fn func(Report)) Option {
	return func(s *Scanner) { s.onReport = fn }
}

// New returns a scanner over st that delivers through n.
func New(st *store.Store, n notify.Notifier, opts ...Option) *Scanner {
	if n == nil {
		n = notify.Nop{}
	}
	s := &Scanner{
		store:    st,
		notifier: n,
		session:  NewSession(),
		logger:   log.New(io.Discard),
		interval: DefaultInterval,
		now:      time.Now,
		template: notify.Notification{Title: notify.DefaultTitle},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the scanner's completed-date session.
func (s *Scanner) Session() *Session {
	return s.session
}

// Interval returns the polling interval.
func (s *Scanner) Interval() time.Duration {
	return s.interval
}

// Scan loads the store, fires every task due at now, and saves the store
// once if anything changed. Delivery is at most once: a task is removed
// even when its notification fails, including when ctx is cancelled
// mid-scan. The failure is in the report and the history.
func (s *Scanner) Scan(ctx context.Context, now time.Time) (Report, error) {
	report := Report{Now: now}

	events, err := s.store.Load()
	if err != nil {
		return report, fmt.Errorf("load tasks: %w", err)
	}

	changed := false
	for _, date := range events.Dates() {
		tasks := events[date]
		// Walk backward so removals do not shift unvisited indices.
		for i := len(tasks) - 1; i >= 0; i-- {
			task := tasks[i]
			outcome, err := ClassifyTask(date, task, now)
			if err != nil {
				s.logger.Warn("skipping task with bad schedule", "date", date, "time", task.Time, "err", err)
				continue
			}
			switch outcome {
			case Pending:
				report.Pending++
				continue
			case Missed:
				report.Missed++
				continue
			}

			fired := FiredTask{Date: date, Task: task, Err: s.dispatch(ctx, date, task)}
			report.Fired = append(report.Fired, fired)
			s.session.Mark(date)
			tasks = append(tasks[:i], tasks[i+1:]...)
			changed = true
		}
		events[date] = tasks
	}
	if events.Prune() > 0 {
		changed = true
	}

	if changed {
		if err := s.store.Save(events); err != nil {
			return report, fmt.Errorf("save tasks: %w", err)
		}
		report.Saved = true
	}
	return report, nil
}

func (s *Scanner) dispatch(ctx context.Context, date string, task store.TaskRecord) error {
	n := s.template
	n.Message = task.Name
	n.Date = date
	n.Time = task.Time

	err := s.notifier.Notify(ctx, n)
	s.logger.Info("reminder fired", "date", date, "time", task.Time, "task", task.Name)
	s.record(logging.Event{Type: logging.EventFired, Date: date, TaskTime: task.Time, Task: task.Name, ID: task.ID})
	if err != nil {
		s.logger.Error("notification failed", "task", task.Name, "err", err)
		s.record(logging.Event{Type: logging.EventNotifyError, Date: date, TaskTime: task.Time, Task: task.Name, ID: task.ID, Error: err.Error()})
	}
	return err
}

func (s *Scanner) record(e logging.Event) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(e); err != nil {
		s.logger.Warn("history write failed", "err", err)
	}
}

// Run scans immediately and then on every interval until ctx is done.
// Scan errors are logged and the loop keeps going, except for a corrupt
// task file, which stops it.
func (s *Scanner) Run(ctx context.Context) error {
	s.record(logging.Event{Type: logging.EventStart, Content: fmt.Sprintf("interval %s", s.interval)})
	defer s.record(logging.Event{Type: logging.EventStop})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.tick(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Scanner) tick(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	report, err := s.Scan(ctx, s.now())
	if err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			return err
		}
		s.logger.Error("scan failed", "err", err)
		return nil
	}
	if len(report.Fired) > 0 || report.Missed > 0 {
		s.logger.Debug("scan", "fired", len(report.Fired), "pending", report.Pending, "missed", report.Missed)
	}
	if s.onReport != nil {
		s.onReport(report)
	}
	return nil
}
