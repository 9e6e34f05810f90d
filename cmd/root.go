// Package cmd implements the CLI command structure for studycal.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/studycal/internal/agenda"
	"github.com/nibzard/studycal/internal/config"
	"github.com/nibzard/studycal/internal/logging"
	"github.com/nibzard/studycal/internal/notify"
	"github.com/nibzard/studycal/internal/reminder"
	"github.com/nibzard/studycal/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every subcommand needs.
type app struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	out     io.Writer
	errOut  io.Writer
	logger  *log.Logger
}

// Run executes the studycal CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("studycal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a := &app{
		cfg:     cws.Config,
		sources: cws,
		out:     stdout,
		errOut:  stderr,
	}
	a.logger = logging.NewConsoleFromConfig(stderr, a.cfg.LogLevel, a.cfg.LogFormat, a.cfg.LogTimestamps, a.cfg.LogCaller)

	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return a.versionCommand()
	}

	// Determine the subcommand; the calendar is the default.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "watch":
		return a.watchCommand(ctx, remainingArgs)
	case "scan":
		return a.scanCommand(ctx, remainingArgs)
	case "cal":
		return a.calCommand(remainingArgs)
	case "ls":
		return a.lsCommand(remainingArgs)
	case "add":
		return a.addCommand(remainingArgs)
	case "edit":
		return a.editCommand(remainingArgs)
	case "rm":
		return a.rmCommand(remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "tail":
		return a.tailCommand(ctx, remainingArgs)
	case "init":
		return a.initCommand(remainingArgs)
	case "version", "--version":
		return a.versionCommand()
	case "help", "--help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// store opens the task file with the configured corrupt-file policy.
func (a *app) store() *store.Store {
	return store.New(a.cfg.TasksFile,
		store.WithCorruptPolicy(a.cfg.CorruptPolicy()),
		store.WithLogger(a.logger),
	)
}

func (a *app) editor() *agenda.Editor {
	return agenda.New(a.store())
}

// notifier builds the delivery chain from the notify settings. Every
// reminder is logged; desktop and command delivery are added when enabled.
func (a *app) notifier() notify.Notifier {
	n := a.cfg.Notify
	chain := notify.Multi{notify.Log{Logger: a.logger}}
	if !n.Enabled {
		return chain
	}
	if n.Desktop {
		chain = append(chain, notify.NewDesktop(n.Sound))
	}
	if n.Command != "" {
		chain = append(chain, &notify.Command{Path: n.Command, Args: n.Args})
	}
	return chain
}

func (a *app) scanner(history *logging.History, opts ...reminder.Option) *reminder.Scanner {
	base := []reminder.Option{
		reminder.WithLogger(a.logger),
		reminder.WithHistory(history),
		reminder.WithInterval(a.cfg.ScanInterval()),
		reminder.WithNotification(a.cfg.Notify.Title, a.cfg.Notify.Icon, a.cfg.Notify.Sound),
	}
	return reminder.New(a.store(), a.notifier(), append(base, opts...)...)
}

// openHistory starts a history file, or returns nil with a warning when
// the log directory is unusable.
func (a *app) openHistory() *logging.History {
	h, err := logging.OpenHistory(a.cfg.LogDir)
	if err != nil {
		a.logger.Warn("reminder history disabled", "dir", a.cfg.LogDir, "err", err)
		return nil
	}
	return h
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.out, "studycal version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "studycal - A study calendar with one-shot task reminders")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  studycal [global options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                          Interactive calendar with reminders (default)")
	fmt.Fprintln(w, "  watch                        Run the reminder scanner without a UI")
	fmt.Fprintln(w, "  scan                         Run a single reminder scan now")
	fmt.Fprintln(w, "  cal [YYYY-MM]                Print a month with task markers")
	fmt.Fprintln(w, "  ls [date]                    List tasks for all dates or one date")
	fmt.Fprintln(w, "  add <date> <HH:MM> <name>    Add a task")
	fmt.Fprintln(w, "  edit <date> <index|id>       Edit a task (-name, -time)")
	fmt.Fprintln(w, "  rm <date> <index|id>         Delete a task")
	fmt.Fprintln(w, "  doctor                       Check config, data directory, and task file")
	fmt.Fprintln(w, "  tail                         Show the reminder history log")
	fmt.Fprintln(w, "  init                         Write an example studycal.toml")
	fmt.Fprintln(w, "  version                      Show version information")
	fmt.Fprintln(w, "  help                         Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Dates are YYYY-MM-DD, or today / tomorrow.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Edit Options (use with 'edit' command):")
	fmt.Fprintln(w, "  -name string")
	fmt.Fprintln(w, "        New task name")
	fmt.Fprintln(w, "  -time string")
	fmt.Fprintln(w, "        New alarm time (HH:MM)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor Options (use with 'doctor' command):")
	fmt.Fprintln(w, "  -v    Show config sources and task details")
}

// parseInterspersed parses flags that may appear before, between, or
// after positional arguments. Everything after "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var tail []string
	for i, arg := range args {
		if arg == "--" {
			args, tail = args[:i], args[i+1:]
			break
		}
	}

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return append(positional, tail...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}
