// Package notify delivers reminder notifications outside the core.
//
// Notifiers are fire-and-forget from the scanner's point of view: a
// failed delivery is reported and logged but never restores the task.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// DefaultTitle is the toast title used when none is configured.
const DefaultTitle = "⏰ Task Reminder"

// Notification is one reminder to deliver.
type Notification struct {
	Title   string
	Message string
	Date    string // YYYY-MM-DD
	Time    string // HH:MM
	Icon    string // optional icon path; ignored if missing
	Sound   bool
}

// Notifier delivers a notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, n Notification) error

// Notify calls f.
func (f Func) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Multi fans a notification out to every notifier and joins their errors.
type Multi []Notifier

// Notify delivers n to each notifier in order. A failing notifier does not
// stop the rest.
func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log writes notifications to a structured logger.
type Log struct {
	Logger *log.Logger
}

// Notify logs n at info level.
func (l Log) Notify(_ context.Context, n Notification) error {
	if l.Logger == nil {
		return nil
	}
	l.Logger.Info(n.Title, "task", n.Message, "date", n.Date, "time", n.Time)
	return nil
}

// Nop discards notifications.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, Notification) error { return nil }

// DeliveryError wraps a failure from a named notifier.
type DeliveryError struct {
	Notifier string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s notification failed: %v", e.Notifier, e.Err)
}

// Unwrap returns the underlying error.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}
