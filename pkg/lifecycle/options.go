package lifecycle

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-leadform/pkg/forms"
	"github.com/goliatone/go-leadform/pkg/notify"
	"github.com/goliatone/go-leadform/pkg/submission"
)

// DefaultFailureMessage is announced when the gateway fails.
const DefaultFailureMessage = "We could not submit your request. Please try again later."

// Timings are the delays between the lifecycle steps that follow the
// gateway call. The delay of the call itself belongs to the gateway.
type Timings struct {
	// NotifyDelay separates the return to Idle from the announcement.
	NotifyDelay time.Duration
	// ResetDelay separates a success announcement from the reset.
	ResetDelay time.Duration
}

// DefaultTimings are the production delays: 100ms then 3s.
func DefaultTimings() Timings {
	return Timings{
		NotifyDelay: 100 * time.Millisecond,
		ResetDelay:  3 * time.Second,
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithGateway sets the delivery gateway (default: a simulated gateway with a
// two second delay).
func WithGateway(gateway submission.Gateway) Option {
	return func(c *Controller) {
		if gateway != nil {
			c.gateway = gateway
		}
	}
}

// WithNotifier sets where outcomes are announced.
func WithNotifier(notifier notify.Notifier) Option {
	return func(c *Controller) {
		if notifier != nil {
			c.notifier = notifier
		}
	}
}

// WithTimings overrides the delays.
func WithTimings(timings Timings) Option {
	return func(c *Controller) {
		c.timings = timings
	}
}

// WithFailureMessage overrides the text announced on failure.
func WithFailureMessage(message string) Option {
	return func(c *Controller) {
		if message != "" {
			c.failureMessage = message
		}
	}
}

// WithClock sets the clock used to stamp submissions.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the controller logger. It is also attached to the context
// handed to the gateway and the notifier.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithContext sets the parent context of gateway calls. A submission in
// flight is not tied to the request that started it.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.base = ctx
		}
	}
}

// OnChange registers a callback receiving a snapshot after every state
// change. It runs on the loop.
func OnChange(fn func(forms.Snapshot)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// OnSettled registers a callback invoked once a submission has run its
// course: after the reset on success, after the announcement on failure.
// It runs on the loop.
func OnSettled(fn func(Outcome)) Option {
	return func(c *Controller) {
		c.onSettled = fn
	}
}
