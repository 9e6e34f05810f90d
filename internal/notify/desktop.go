package notify

import (
	"context"
	"os"

	"github.com/gen2brain/beeep"
)

// Desktop shows a platform toast through beeep.
type Desktop struct {
	// Sound plays the system alert tone after the toast when the
	// notification asks for it.
	Sound bool

	toast func(title, message, icon string) error
	beep  func() error
}

// NewDesktop returns a desktop notifier.
func NewDesktop(sound bool) *Desktop {
	return &Desktop{
		Sound: sound,
		toast: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
		beep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
	}
}

// Notify shows the toast. A missing icon file is dropped rather than
// treated as an error.
func (d *Desktop) Notify(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	icon := n.Icon
	if icon != "" {
		if _, err := os.Stat(icon); err != nil {
			icon = ""
		}
	}
	title := n.Title
	if title == "" {
		title = DefaultTitle
	}

	if err := d.toast(title, n.Message, icon); err != nil {
		return &DeliveryError{Notifier: "desktop", Err: err}
	}
	if d.Sound && n.Sound && d.beep != nil {
		if err := d.beep(); err != nil {
			return &DeliveryError{Notifier: "sound", Err: err}
		}
	}
	return nil
}
