// Package agenda creates, edits, and deletes reminder tasks.
//
// Every mutation loads the task file, applies one change, and writes the
// file back before returning.
package agenda

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nibzard/studycal/internal/calendar"
	"github.com/nibzard/studycal/internal/store"
)

var (
	// ErrEmptyName is returned when a task name is blank.
	ErrEmptyName = errors.New("task name must not be empty")
	// ErrTaskNotFound is returned when a Ref does not resolve.
	ErrTaskNotFound = errors.New("task not found")
)

// Ref addresses a task within a date. ID wins when set; Index is the
// position in the date's list otherwise.
type Ref struct {
	ID    string
	Index int
}

// ByIndex returns a Ref for position i.
func ByIndex(i int) Ref {
	return Ref{Index: i}
}

// ByID returns a Ref for the task with id.
func ByID(id string) Ref {
	return Ref{ID: id, Index: -1}
}

// ParseRef interprets s as a zero-based index when it is an integer and as
// an id otherwise.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, fmt.Errorf("empty task reference")
	}
	if i, err := strconv.Atoi(s); err == nil {
		if i < 0 {
			return Ref{}, fmt.Errorf("task index %d is negative", i)
		}
		return ByIndex(i), nil
	}
	return ByID(s), nil
}

func (r Ref) String() string {
	if r.ID != "" {
		return r.ID
	}
	return strconv.Itoa(r.Index)
}

func (r Ref) resolve(tasks []store.TaskRecord) (int, error) {
	if r.ID != "" {
		for i, t := range tasks {
			if t.ID == r.ID {
				return i, nil
			}
		}
		return -1, fmt.Errorf("%w: id %s", ErrTaskNotFound, r.ID)
	}
	if r.Index < 0 || r.Index >= len(tasks) {
		return -1, fmt.Errorf("%w: index %d", ErrTaskNotFound, r.Index)
	}
	return r.Index, nil
}

// Editor applies task mutations to a store.
type Editor struct {
	store *store.Store
	newID func() string
}

// New returns an editor over st.
func New(st *store.Store) *Editor {
	return &Editor{store: st, newID: uuid.NewString}
}

// Create appends a task to date, creating the date if needed.
func (e *Editor) Create(date, name, clock string) (store.TaskRecord, error) {
	task, err := e.record(date, name, clock)
	if err != nil {
		return store.TaskRecord{}, err
	}
	task.ID = e.newID()

	err = e.store.Update(func(events store.EventStore) error {
		events[date] = append(events[date], task)
		return nil
	})
	if err != nil {
		return store.TaskRecord{}, err
	}
	return task, nil
}

// Update replaces the task at ref in place, keeping its id. A task
// without an id gets one.
func (e *Editor) Update(date string, ref Ref, name, clock string) (store.TaskRecord, error) {
	task, err := e.record(date, name, clock)
	if err != nil {
		return store.TaskRecord{}, err
	}

	err = e.store.Update(func(events store.EventStore) error {
		tasks := events[date]
		i, err := ref.resolve(tasks)
		if err != nil {
			return err
		}
		task.ID = tasks[i].ID
		if task.ID == "" {
			task.ID = e.newID()
		}
		tasks[i] = task
		return nil
	})
	if err != nil {
		return store.TaskRecord{}, err
	}
	return task, nil
}

// Delete removes the task at ref. The date is dropped when its list
// becomes empty.
func (e *Editor) Delete(date string, ref Ref) (store.TaskRecord, error) {
	if _, err := calendar.ParseDateKey(date, nil); err != nil {
		return store.TaskRecord{}, err
	}

	var removed store.TaskRecord
	err := e.store.Update(func(events store.EventStore) error {
		tasks := events[date]
		i, err := ref.resolve(tasks)
		if err != nil {
			return err
		}
		removed = tasks[i]
		tasks = append(tasks[:i], tasks[i+1:]...)
		if len(tasks) == 0 {
			delete(events, date)
		} else {
			events[date] = tasks
		}
		return nil
	})
	if err != nil {
		return store.TaskRecord{}, err
	}
	return removed, nil
}

// List returns the tasks for date in stored order.
func (e *Editor) List(date string) ([]store.TaskRecord, error) {
	if _, err := calendar.ParseDateKey(date, nil); err != nil {
		return nil, err
	}
	events, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	return events[date], nil
}

// Get returns the task at ref on date.
func (e *Editor) Get(date string, ref Ref) (store.TaskRecord, error) {
	tasks, err := e.List(date)
	if err != nil {
		return store.TaskRecord{}, err
	}
	i, err := ref.resolve(tasks)
	if err != nil {
		return store.TaskRecord{}, err
	}
	return tasks[i], nil
}

// All returns the whole store.
func (e *Editor) All() (store.EventStore, error) {
	return e.store.Load()
}

func (e *Editor) record(date, name, clock string) (store.TaskRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.TaskRecord{}, ErrEmptyName
	}
	if _, err := calendar.ParseDateKey(date, nil); err != nil {
		return store.TaskRecord{}, err
	}
	clock = strings.TrimSpace(clock)
	if _, _, err := calendar.ParseClock(clock); err != nil {
		return store.TaskRecord{}, err
	}
	return store.TaskRecord{Name: name, Time: clock}, nil
}

// DayState is how a calendar day is shown.
type DayState int

const (
	DayEmpty DayState = iota
	// DayPending has at least one task still to fire.
	DayPending
	// DayMissed has tasks left, all of whose minute has passed.
	DayMissed
	// DayCompleted had a reminder fire during this session.
	DayCompleted
)

func (s DayState) String() string {
	switch s {
	case DayPending:
		return "pending"
	case DayMissed:
		return "missed"
	case DayCompleted:
		return "completed"
	default:
		return "empty"
	}
}

// Day summarizes one date of a month.
type Day struct {
	Date  string
	Tasks []store.TaskRecord
	State DayState
}

// Completed reports whether a date had a reminder fire this session.
type Completed interface {
	Completed(date string) bool
}

// Month summarizes every day of a month at time now. completed may be nil.
func (e *Editor) Month(year int, month time.Month, now time.Time, completed Completed) ([]Day, error) {
	events, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	return Summarize(events, year, month, now, completed), nil
}

// Summarize computes day states for a month from an already loaded store.
// Pending tasks take precedence over a completed mark, and a completed
// mark over missed tasks.
func Summarize(events store.EventStore, year int, month time.Month, now time.Time, completed Completed) []Day {
	n := calendar.DaysInMonth(year, month)
	days := make([]Day, n)
	for d := 1; d <= n; d++ {
		key := calendar.KeyFor(year, month, d)
		day := Day{Date: key, Tasks: events[key]}
		day.State = dayState(key, day.Tasks, now, completed)
		days[d-1] = day
	}
	return days
}

func dayState(date string, tasks []store.TaskRecord, now time.Time, completed Completed) DayState {
	pending, missed := false, false
	for _, t := range tasks {
		at, err := calendar.At(date, t.Time, now.Location())
		if err != nil {
			continue
		}
		if now.Before(at.Add(time.Minute)) {
			pending = true
		} else {
			missed = true
		}
	}
	switch {
	case pending:
		return DayPending
	case completed != nil && completed.Completed(date):
		return DayCompleted
	case missed:
		return DayMissed
	default:
		return DayEmpty
	}
}
