package cmd

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/studycal/internal/agenda"
	"github.com/nibzard/studycal/internal/calendar"
	"github.com/nibzard/studycal/internal/reminder"
	"github.com/nibzard/studycal/internal/store"
	"github.com/nibzard/studycal/internal/utils"
)

// now is the wall clock used by the commands.
var now = time.Now

// resolveDate accepts a date key or one of today / tomorrow.
func resolveDate(arg string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "today":
		return calendar.DateKey(now()), nil
	case "tomorrow":
		return calendar.DateKey(now().AddDate(0, 0, 1)), nil
	}
	if _, err := calendar.ParseDateKey(arg, nil); err != nil {
		return "", err
	}
	return arg, nil
}

// calCommand prints a month grid with task markers.
func (a *app) calCommand(args []string) error {
	fs := flag.NewFlagSet("studycal cal", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	current := now()
	year, month := current.Year(), current.Month()
	if len(remaining) == 1 {
		t, err := time.ParseInLocation("2006-01", remaining[0], time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q (want YYYY-MM)", remaining[0])
		}
		year, month = t.Year(), t.Month()
	}

	events, err := a.store().Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	days := agenda.Summarize(events, year, month, current, nil)
	today := calendar.DateKey(current)

	fmt.Fprintf(a.out, "%s %d\n", month, year)
	for _, wd := range calendar.Weekdays {
		fmt.Fprintf(a.out, "%6s", wd)
	}
	fmt.Fprintln(a.out)
	for _, week := range calendar.Grid(year, month) {
		var line strings.Builder
		for _, d := range week {
			if d == 0 {
				line.WriteString("      ")
				continue
			}
			day := days[d-1]
			left, right := " ", " "
			if day.Date == today {
				left, right = "[", "]"
			}
			fmt.Fprintf(&line, " %s%2d%s%s", left, d, right, marker(day.State))
		}
		fmt.Fprintln(a.out, strings.TrimRight(line.String(), " "))
	}

	var marked []string
	for _, day := range days {
		if day.State == agenda.DayEmpty {
			continue
		}
		marked = append(marked, fmt.Sprintf("  %s %s  %d task(s)", marker(day.State), day.Date, len(day.Tasks)))
	}
	if len(marked) > 0 {
		fmt.Fprintln(a.out)
		for _, m := range marked {
			fmt.Fprintln(a.out, m)
		}
	}
	return nil
}

func marker(state agenda.DayState) string {
	switch state {
	case agenda.DayPending:
		return "●"
	case agenda.DayMissed:
		return "○"
	case agenda.DayCompleted:
		return "✓"
	default:
		return " "
	}
}

// lsCommand lists tasks by date in stored order.
func (a *app) lsCommand(args []string) error {
	fs := flag.NewFlagSet("studycal ls", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	verbose := fs.Bool("v", false, "Show task ids")
	remaining, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}

	events, err := a.store().Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	dates := events.Dates()
	if len(remaining) == 1 {
		date, err := resolveDate(remaining[0])
		if err != nil {
			return err
		}
		dates = []string{date}
	}

	current := now()
	printed := 0
	for _, date := range dates {
		tasks := events[date]
		if len(tasks) == 0 {
			continue
		}
		fmt.Fprintf(a.out, "%s (%d):\n", date, len(tasks))
		for i, t := range tasks {
			printTask(a, date, i, t, current, *verbose)
			printed++
		}
		fmt.Fprintln(a.out)
	}
	if printed == 0 {
		fmt.Fprintln(a.out, "No tasks found.")
	}
	return nil
}

// printTask prints a single task with its index and state.
func printTask(a *app, date string, i int, t store.TaskRecord, current time.Time, verbose bool) {
	state := "?"
	if outcome, err := reminder.ClassifyTask(date, t, current); err == nil {
		state = outcome.String()
	}
	fmt.Fprintf(a.out, "  [%d] %s  %-50s %s\n", i, t.Time, utils.Truncate(t.Name, 50), state)
	if verbose {
		id := t.ID
		if id == "" {
			id = "(none)"
		}
		fmt.Fprintf(a.out, "      id: %s\n", id)
	}
}

// addCommand creates a task.
func (a *app) addCommand(args []string) error {
	fs := flag.NewFlagSet("studycal add", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) < 3 {
		return fmt.Errorf("usage: studycal add <date> <HH:MM> <name...>")
	}
	date, err := resolveDate(remaining[0])
	if err != nil {
		return err
	}

	task, err := a.editor().Create(date, strings.Join(remaining[2:], " "), remaining[1])
	if err != nil {
		return fmt.Errorf("adding task: %w", err)
	}
	a.logger.Debug("task added", "date", date, "id", task.ID)
	fmt.Fprintf(a.out, "Added %s %s %s (id %s)\n", date, task.Time, task.Name, task.ID)
	return nil
}

// editCommand changes the name and/or time of a task. Fields not given
// keep their current value.
func (a *app) editCommand(args []string) error {
	fs := flag.NewFlagSet("studycal edit", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	name := fs.String("name", "", "New task name")
	clock := fs.String("time", "", "New alarm time (HH:MM)")
	remaining, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(remaining) != 2 {
		return fmt.Errorf("usage: studycal edit <date> <index|id> [-name NAME] [-time HH:MM]")
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["name"] && !set["time"] {
		return fmt.Errorf("nothing to change: pass -name and/or -time")
	}

	date, ref, err := dateAndRef(remaining)
	if err != nil {
		return err
	}
	editor := a.editor()
	current, err := editor.Get(date, ref)
	if err != nil {
		return fmt.Errorf("finding task %s on %s: %w", ref, date, err)
	}
	newName, newTime := current.Name, current.Time
	if set["name"] {
		newName = *name
	}
	if set["time"] {
		newTime = *clock
	}

	task, err := editor.Update(date, ref, newName, newTime)
	if err != nil {
		return fmt.Errorf("editing task: %w", err)
	}
	fmt.Fprintf(a.out, "Updated %s %s %s (id %s)\n", date, task.Time, task.Name, task.ID)
	return nil
}

// rmCommand deletes a task.
func (a *app) rmCommand(args []string) error {
	fs := flag.NewFlagSet("studycal rm", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 2 {
		return fmt.Errorf("usage: studycal rm <date> <index|id>")
	}
	date, ref, err := dateAndRef(remaining)
	if err != nil {
		return err
	}

	task, err := a.editor().Delete(date, ref)
	if err != nil {
		return fmt.Errorf("deleting task %s on %s: %w", ref, date, err)
	}
	fmt.Fprintf(a.out, "Deleted %s %s %s\n", date, task.Time, task.Name)
	return nil
}

func dateAndRef(args []string) (string, agenda.Ref, error) {
	date, err := resolveDate(args[0])
	if err != nil {
		return "", agenda.Ref{}, err
	}
	ref, err := agenda.ParseRef(args[1])
	if err != nil {
		return "", agenda.Ref{}, err
	}
	return date, ref, nil
}
