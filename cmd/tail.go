package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/nibzard/studycal/internal/logging"
)

// tailCommand shows the latest reminder history file.
func (a *app) tailCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("studycal tail", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logPath, err := logging.FindLatestLog(a.cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(a.out, "No log files found.")
		return nil
	}

	fmt.Fprintf(a.errOut, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(a.errOut, "(Ctrl+C to stop)")
	}
	return logging.TailLog(ctx, a.out, logPath, *n, *follow)
}
