package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/studycal/internal/appdir"
	"github.com/nibzard/studycal/internal/logging"
	"github.com/nibzard/studycal/internal/reminder"
	"github.com/nibzard/studycal/internal/ui"
)

// tuiCommand launches the interactive calendar. Console logs go to a file
// in the log directory so they do not draw over the screen.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("studycal tui", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if err := appdir.Ensure(a.cfg.LogDir); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	logPath := appdir.ConsoleLogPath(a.cfg.LogDir)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening console log: %w", err)
	}
	defer logFile.Close()
	a.logger = logging.NewConsoleFromConfig(logFile, a.cfg.LogLevel, a.cfg.LogFormat, true, a.cfg.LogCaller)

	history := a.openHistory()
	defer history.Close()
	_ = history.Record(logging.Event{Type: logging.EventStart, Content: "tui"})
	defer history.Record(logging.Event{Type: logging.EventStop})

	err = ui.RunTUI(ctx, a.editor(), a.scanner(history), ui.WithLogger(a.logger))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchCommand runs the scanner until interrupted.
func (a *app) watchCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("studycal watch", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	history := a.openHistory()
	defer history.Close()

	scanner := a.scanner(history, reminder.WithReportHook(func(r reminder.Report) {
		for _, f := range r.Fired {
			fmt.Fprintf(a.out, "⏰ %s %s %s\n", f.Date, f.Task.Time, f.Task.Name)
		}
	}))
	a.logger.Info("watching for reminders", "tasks", a.cfg.TasksFile, "interval", scanner.Interval())

	err := scanner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		a.logger.Info("stopped")
		return nil
	}
	return err
}

// scanCommand runs one scan at the current time and prints the result.
func (a *app) scanCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("studycal scan", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	history := a.openHistory()
	defer history.Close()

	report, err := a.scanner(history).Scan(ctx, now())
	if err != nil {
		return err
	}
	for _, f := range report.Fired {
		status := "✅"
		if f.Err != nil {
			status = "⚠️ "
		}
		fmt.Fprintf(a.out, "%s %s %s %s\n", status, f.Date, f.Task.Time, f.Task.Name)
	}
	fmt.Fprintf(a.out, "Fired: %d  Pending: %d  Missed: %d\n", len(report.Fired), report.Pending, report.Missed)
	if errs := report.NotifyErrors(); len(errs) > 0 {
		return fmt.Errorf("%d notification(s) failed: %w", len(errs), errors.Join(errs...))
	}
	return nil
}
