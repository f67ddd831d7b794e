package notify

import (
	"context"
	"time"
)

// Level is the notification type.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Position is the screen corner a toast is anchored to.
type Position string

const (
	PositionTopRight     Position = "top-right"
	PositionTopLeft      Position = "top-left"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionTopCenter    Position = "top-center"
	PositionBottomCenter Position = "bottom-center"
)

// DefaultAutoClose is how long a toast stays visible.
const DefaultAutoClose = 3500 * time.Millisecond

// Options are the display hints passed along with a message.
type Options struct {
	Position        Position      `json:"position"`
	AutoClose       time.Duration `json:"-"`
	AutoCloseMillis int64         `json:"autoClose"`
	HideProgressBar bool          `json:"hideProgressBar"`
	CloseOnClick    bool          `json:"closeOnClick"`
	PauseOnHover    bool          `json:"pauseOnHover"`
	Draggable       bool          `json:"draggable"`
}

// DefaultOptions returns the site toast settings: top-right, 3.5 seconds,
// dismissible by click, paused on hover, draggable.
func DefaultOptions() Options {
	return Options{
		Position:        PositionTopRight,
		AutoClose:       DefaultAutoClose,
		AutoCloseMillis: DefaultAutoClose.Milliseconds(),
		CloseOnClick:    true,
		PauseOnHover:    true,
		Draggable:       true,
	}
}

// Notification is a single message to display.
type Notification struct {
	Level   Level   `json:"level"`
	Message string  `json:"message"`
	Title   string  `json:"title,omitempty"`
	Options Options `json:"options"`
}

// Success builds a success notification with default options.
func Success(message string) Notification {
	return Notification{Level: LevelSuccess, Message: message, Options: DefaultOptions()}
}

// Failure builds an error notification with default options.
func Failure(message string) Notification {
	return Notification{Level: LevelError, Message: message, Options: DefaultOptions()}
}

// Notifier displays notifications. Announce is fire-and-forget: callers do
// not wait for the notification to be dismissed and ignore delivery issues.
type Notifier interface {
	Announce(ctx context.Context, n Notification)
}

// Func adapts a function into a Notifier.
type Func func(ctx context.Context, n Notification)

// Announce calls fn.
func (fn Func) Announce(ctx context.Context, n Notification) {
	fn(ctx, n)
}

// Multi fans a notification out to several notifiers in order.
func Multi(notifiers ...Notifier) Notifier {
	var list []Notifier
	for _, n := range notifiers {
		if n != nil {
			list = append(list, n)
		}
	}
	return Func(func(ctx context.Context, n Notification) {
		for _, target := range list {
			target.Announce(ctx, n)
		}
	})
}

// Discard drops every notification.
var Discard Notifier = Func(func(context.Context, Notification) {})

func normalize(n Notification) Notification {
	if n.Level == "" {
		n.Level = LevelInfo
	}
	if n.Options.Position == "" {
		n.Options.Position = PositionTopRight
	}
	if n.Options.AutoClose <= 0 && n.Options.AutoCloseMillis > 0 {
		n.Options.AutoClose = time.Duration(n.Options.AutoCloseMillis) * time.Millisecond
	}
	if n.Options.AutoClose <= 0 {
		n.Options.AutoClose = DefaultAutoClose
	}
	n.Options.AutoCloseMillis = n.Options.AutoClose.Milliseconds()
	return n
}

// Normalize fills unset display options with the defaults.
func Normalize(n Notification) Notification {
	return normalize(n)
}
