package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Result captures the outcome of a command invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
}

// Command runs a user-configured program for every notification. The
// program receives its configured Args followed by title, message, date,
// and time, and the same values in STUDYCAL_* environment variables.
type Command struct {
	Path    string
	Args    []string
	WorkDir string

	// Last holds the result of the most recent invocation.
	Last Result
}

// Notify runs the command.
func (c *Command) Notify(ctx context.Context, n Notification) error {
	result, err := c.Invoke(ctx, n)
	c.Last = result
	if err != nil {
		return &DeliveryError{Notifier: "command", Err: err}
	}
	return nil
}

// Invoke runs the command and reports how it went. An empty Path does
// nothing.
func (c *Command) Invoke(ctx context.Context, n Notification) (Result, error) {
	if c == nil || strings.TrimSpace(c.Path) == "" {
		return Result{}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	args := append(append([]string{}, c.Args...), n.Title, n.Message, n.Date, n.Time)
	cmd := exec.CommandContext(ctx, c.Path, args...)
	if c.WorkDir != "" {
		cmd.Dir = c.WorkDir
	}
	cmd.Env = append(os.Environ(),
		"STUDYCAL_TITLE="+n.Title,
		"STUDYCAL_TASK="+n.Message,
		"STUDYCAL_DATE="+n.Date,
		"STUDYCAL_TIME="+n.Time,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return result, fmt.Errorf("notify command failed: %w: %s", err, msg)
		}
		return result, fmt.Errorf("notify command failed: %w", err)
	}
	return result, nil
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
