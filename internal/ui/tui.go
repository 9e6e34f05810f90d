// Package ui provides the interactive terminal calendar.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/studycal/internal/agenda"
	"github.com/nibzard/studycal/internal/calendar"
	"github.com/nibzard/studycal/internal/reminder"
	"github.com/nibzard/studycal/internal/store"
	"github.com/nibzard/studycal/internal/utils"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*Model)

// WithLogger sets the logger for UI events.
func WithLogger(l *log.Logger) TUIOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) TUIOption {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// ErrNoTTY is returned by RunTUI when stdout is not a terminal.
var ErrNoTTY = errors.New("tui requires a TTY (use 'studycal watch' for background reminders)")

// RunTUI starts the calendar and blocks until the user quits or ctx is
// done. The scanner runs on the program's tick.
func RunTUI(ctx context.Context, editor *agenda.Editor, scanner *reminder.Scanner, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return ErrNoTTY
	}

	model := NewModel(ctx, editor, scanner, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type mode int

const (
	modeMonth mode = iota
	modeDay
	modeTask
)

const (
	fieldName = iota
	fieldTime
)

// maxNameWidth bounds task names in lists.
const maxNameWidth = 48

// Model is the bubbletea model for the calendar.
type Model struct {
	ctx     context.Context
	editor  *agenda.Editor
	scanner *reminder.Scanner
	logger  *log.Logger
	now     func() time.Time

	keys keyMap
	help help.Model

	mode    mode
	cursor  time.Time // selected date at midnight
	events  store.EventStore
	loadErr error
	status  string

	// day dialog
	selected int

	// task dialog
	editRef   *agenda.Ref
	nameInput textinput.Model
	timeInput textinput.Model
	focus     int
	formErr   string

	width int
}

type tickMsg time.Time

// NewModel returns a model positioned on today.
func NewModel(ctx context.Context, editor *agenda.Editor, scanner *reminder.Scanner, opts ...TUIOption) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		ctx:     ctx,
		editor:  editor,
		scanner: scanner,
		logger:  log.New(io.Discard),
		now:     time.Now,
		keys:    newKeyMap(),
		help:    help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "What needs doing?"
	m.nameInput.CharLimit = 200
	m.nameInput.Width = 40
	m.nameInput.Prompt = "Task: "

	m.timeInput = textinput.New()
	m.timeInput.Placeholder = "HH:MM"
	m.timeInput.CharLimit = 5
	m.timeInput.Width = 5
	m.timeInput.Prompt = "Alarm Time: "

	m.cursor = midnight(m.now())
	m.reload()
	return m
}

func (m *Model) Init() tea.Cmd {
	m.scan()
	return tickCmd(m.tickInterval())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.scan()
		return m, tickCmd(m.tickInterval())
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeDay:
			return m.updateDay(msg)
		case modeTask:
			return m.updateTask(msg)
		default:
			return m.updateMonth(msg)
		}
	}
	return m, nil
}

func (m *Model) updateMonth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.left):
		m.cursor = m.cursor.AddDate(0, 0, -1)
	case key.Matches(msg, m.keys.right):
		m.cursor = m.cursor.AddDate(0, 0, 1)
	case key.Matches(msg, m.keys.up):
		m.cursor = m.cursor.AddDate(0, 0, -7)
	case key.Matches(msg, m.keys.down):
		m.cursor = m.cursor.AddDate(0, 0, 7)
	case key.Matches(msg, m.keys.prevMonth):
		m.cursor = keepDay(m.cursor, calendar.ShiftMonth(m.cursor, -1))
	case key.Matches(msg, m.keys.nextMonth):
		m.cursor = keepDay(m.cursor, calendar.ShiftMonth(m.cursor, 1))
	case key.Matches(msg, m.keys.prevYear):
		m.cursor = keepDay(m.cursor, calendar.ShiftYear(m.cursor, -1))
	case key.Matches(msg, m.keys.nextYear):
		m.cursor = keepDay(m.cursor, calendar.ShiftYear(m.cursor, 1))
	case key.Matches(msg, m.keys.today):
		m.cursor = midnight(m.now())
	case key.Matches(msg, m.keys.open):
		m.reload()
		m.mode = modeDay
		m.selected = 0
	}
	return m, nil
}

func (m *Model) updateDay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.dayTasks()
	switch {
	case key.Matches(msg, m.keys.back), msg.String() == "q":
		m.mode = modeMonth
	case key.Matches(msg, m.keys.up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.down):
		if m.selected < len(tasks)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.add):
		return m, m.openTask(nil, store.TaskRecord{})
	case key.Matches(msg, m.keys.edit):
		if m.selected < len(tasks) {
			ref := refFor(tasks, m.selected)
			return m, m.openTask(&ref, tasks[m.selected])
		}
	case key.Matches(msg, m.keys.del):
		if m.selected < len(tasks) {
			m.deleteTask(refFor(tasks, m.selected))
		}
	}
	return m, nil
}

func (m *Model) updateTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.mode = modeDay
		m.formErr = ""
		return m, nil
	case key.Matches(msg, m.keys.save):
		m.saveTask()
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if m.editRef != nil {
			m.deleteTask(*m.editRef)
			m.mode = modeDay
		}
		return m, nil
	case key.Matches(msg, m.keys.nextField), key.Matches(msg, m.keys.prevField):
		return m, m.setFocus(1 - m.focus)
	}

	var cmd tea.Cmd
	if m.focus == fieldName {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.timeInput, cmd = m.timeInput.Update(msg)
	}
	return m, cmd
}

// openTask shows the task dialog. A nil ref adds a new task.
func (m *Model) openTask(ref *agenda.Ref, task store.TaskRecord) tea.Cmd {
	m.mode = modeTask
	m.editRef = ref
	m.formErr = ""
	m.nameInput.SetValue(task.Name)
	clock := task.Time
	if clock == "" {
		clock = m.now().Format(calendar.ClockLayout)
	}
	m.timeInput.SetValue(clock)
	return m.setFocus(fieldName)
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.focus = field
	if field == fieldName {
		m.timeInput.Blur()
		return m.nameInput.Focus()
	}
	m.nameInput.Blur()
	return m.timeInput.Focus()
}

// saveTask writes the dialog. Invalid input keeps the dialog open with a
// message.
func (m *Model) saveTask() {
	date := m.dateKey()
	name, clock := m.nameInput.Value(), m.timeInput.Value()

	var (
		task store.TaskRecord
		err  error
	)
	if m.editRef == nil {
		task, err = m.editor.Create(date, name, clock)
	} else {
		task, err = m.editor.Update(date, *m.editRef, name, clock)
	}
	switch {
	case errors.Is(err, agenda.ErrEmptyName):
		m.formErr = "Task name cannot be empty."
		return
	case errors.Is(err, calendar.ErrInvalidTime):
		m.formErr = "Alarm time must be HH:MM (00:00-23:59)."
		return
	case err != nil:
		m.formErr = err.Error()
		m.logger.Error("save task failed", "date", date, "err", err)
		return
	}

	m.logger.Info("task saved", "date", date, "time", task.Time, "task", task.Name)
	m.status = fmt.Sprintf("Saved %q at %s on %s", utils.Truncate(task.Name, maxNameWidth), task.Time, date)
	m.formErr = ""
	m.mode = modeDay
	m.reload()
	for i, t := range m.dayTasks() {
		if t.ID == task.ID {
			m.selected = i
		}
	}
}

func (m *Model) deleteTask(ref agenda.Ref) {
	date := m.dateKey()
	task, err := m.editor.Delete(date, ref)
	if err != nil {
		m.status = "Delete failed: " + err.Error()
		m.logger.Error("delete task failed", "date", date, "ref", ref, "err", err)
		m.reload()
		return
	}
	m.logger.Info("task deleted", "date", date, "time", task.Time, "task", task.Name)
	m.status = fmt.Sprintf("Deleted %q", utils.Truncate(task.Name, maxNameWidth))
	m.reload()
	if m.selected >= len(m.dayTasks()) && m.selected > 0 {
		m.selected--
	}
}

// scan runs one reminder pass and refreshes the view.
func (m *Model) scan() {
	if m.scanner == nil {
		m.reload()
		return
	}
	report, err := m.scanner.Scan(m.ctx, m.now())
	if err != nil {
		m.loadErr = err
		m.logger.Error("scan failed", "err", err)
		return
	}
	if len(report.Fired) > 0 {
		names := make([]string, 0, len(report.Fired))
		for _, f := range report.Fired {
			names = append(names, utils.Truncate(f.Task.Name, maxNameWidth))
		}
		m.status = "⏰ " + strings.Join(names, ", ")
		if errs := report.NotifyErrors(); len(errs) > 0 {
			m.status += fmt.Sprintf(" (notification failed: %v)", errors.Join(errs...))
		}
	}
	m.reload()
}

func (m *Model) reload() {
	events, err := m.editor.All()
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.events = events
	if n := len(m.dayTasks()); m.selected >= n {
		m.selected = max(n-1, 0)
	}
}

func (m *Model) tickInterval() time.Duration {
	if m.scanner == nil {
		return reminder.DefaultInterval
	}
	return m.scanner.Interval()
}

func (m *Model) dateKey() string {
	return calendar.DateKey(m.cursor)
}

func (m *Model) dayTasks() []store.TaskRecord {
	return m.events[m.dateKey()]
}

func (m *Model) completed() agenda.Completed {
	if m.scanner == nil {
		return nil
	}
	return m.scanner.Session()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func refFor(tasks []store.TaskRecord, i int) agenda.Ref {
	if tasks[i].ID != "" {
		return agenda.ByID(tasks[i].ID)
	}
	return agenda.ByIndex(i)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// keepDay moves to the month of shifted while keeping from's day of month,
// clamped to the month length.
func keepDay(from, shifted time.Time) time.Time {
	day := min(from.Day(), calendar.DaysInMonth(shifted.Year(), shifted.Month()))
	return time.Date(shifted.Year(), shifted.Month(), day, 0, 0, 0, 0, from.Location())
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
