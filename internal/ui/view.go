package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/studycal/internal/agenda"
	"github.com/nibzard/studycal/internal/calendar"
	"github.com/nibzard/studycal/internal/reminder"
	"github.com/nibzard/studycal/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#BDC3C7"))
	pendingStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E74C3C"))
	missedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1C40F"))
	completedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2ECC71"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#B0B7C3"})
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
	boxStyle       = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BDC3C7")).
			Padding(0, 1)
)

const cellWidth = 5

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.cursor.Format("January 2006")))
	b.WriteString("\n\n")

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.loadErr.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderGrid())
	b.WriteString("\n")

	switch m.mode {
	case modeDay:
		b.WriteString(boxStyle.Render(m.renderDay()))
		b.WriteString("\n")
	case modeTask:
		b.WriteString(boxStyle.Render(m.renderTask()))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderLegend())
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(m.help.ShortHelpView(m.helpKeys()))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) helpKeys() []key.Binding {
	switch m.mode {
	case modeDay:
		return m.keys.dayHelp()
	case modeTask:
		return m.keys.taskHelp(m.editRef != nil)
	default:
		return m.keys.monthHelp()
	}
}

func (m *Model) renderGrid() string {
	var b strings.Builder
	for _, wd := range calendar.Weekdays {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%*s", cellWidth, wd)))
	}
	b.WriteString("\n")

	year, month := m.cursor.Year(), m.cursor.Month()
	now := m.now()
	days := agenda.Summarize(m.events, year, month, now, m.completed())
	today := calendar.DateKey(now)
	selected := m.dateKey()

	for _, week := range calendar.Grid(year, month) {
		for _, d := range week {
			if d == 0 {
				b.WriteString(strings.Repeat(" ", cellWidth))
				continue
			}
			day := days[d-1]
			style := dayStyle(day.State)
			if day.Date == today {
				style = style.Underline(true)
			}
			if day.Date == selected {
				style = style.Reverse(true)
			}
			b.WriteString(strings.Repeat(" ", cellWidth-2))
			b.WriteString(style.Render(fmt.Sprintf("%2d", d)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func dayStyle(state agenda.DayState) lipgloss.Style {
	switch state {
	case agenda.DayPending:
		return pendingStyle
	case agenda.DayMissed:
		return missedStyle
	case agenda.DayCompleted:
		return completedStyle
	default:
		return lipgloss.NewStyle()
	}
}

func (m *Model) renderLegend() string {
	return fmt.Sprintf("%s  %s  %s  %s",
		pendingStyle.Render("■ pending"),
		missedStyle.Render("■ missed"),
		completedStyle.Render("■ done this session"),
		dimStyle.Render(m.dateKey()),
	)
}

func (m *Model) renderDay() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Tasks - " + m.dateKey()))
	b.WriteString("\n")

	tasks := m.dayTasks()
	if len(tasks) == 0 {
		b.WriteString(dimStyle.Render("No tasks. Press a to add one."))
		return b.String()
	}
	now := m.now()
	for i, t := range tasks {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s - %s", cursor, t.Time, utils.Truncate(t.Name, maxNameWidth))
		if outcome, err := reminder.ClassifyTask(m.dateKey(), t, now); err == nil && outcome == reminder.Missed {
			line = missedStyle.Render(line + " (missed)")
		}
		b.WriteString(line)
		if i < len(tasks)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderTask() string {
	var b strings.Builder
	title := "Add Task - " + m.dateKey()
	if m.editRef != nil {
		title = "Edit Task - " + m.dateKey()
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n")
	b.WriteString(m.timeInput.View())
	if m.formErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.formErr))
	}
	return b.String()
}
