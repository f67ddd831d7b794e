package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-leadform/pkg/eventloop"
	"github.com/goliatone/go-leadform/pkg/format"
	"github.com/goliatone/go-leadform/pkg/forms"
	"github.com/goliatone/go-leadform/pkg/notify"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/submission"
)

// Outcome describes how a submission ended.
type Outcome struct {
	Submission submission.Submission
	Receipt    submission.Receipt
	Err        error
	// FormErrors are rejection messages that matched no field.
	FormErrors []string
}

// Succeeded reports whether the gateway accepted the submission.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Controller owns one engine and runs its submission lifecycle.
type Controller struct {
	engine   *forms.Engine
	loop     *eventloop.Loop
	gateway  submission.Gateway
	notifier notify.Notifier

	timings        Timings
	failureMessage string
	now            func() time.Time
	logger         zerolog.Logger
	base           context.Context

	onChange  func(forms.Snapshot)
	onSettled func(Outcome)
}

// New builds a controller for engine. The caller runs loop.
func New(engine *forms.Engine, loop *eventloop.Loop, opts ...Option) (*Controller, error) {
	if engine == nil {
		return nil, errors.New("lifecycle: engine is required")
	}
	if loop == nil {
		return nil, errors.New("lifecycle: loop is required")
	}

	c := &Controller{
		engine:         engine,
		loop:           loop,
		notifier:       notify.Discard,
		timings:        DefaultTimings(),
		failureMessage: DefaultFailureMessage,
		now:            time.Now,
		logger:         zerolog.Nop(),
		base:           context.Background(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.gateway == nil {
		c.gateway = submission.NewSimulated(submission.WithLogger(c.logger))
	}
	c.logger = c.logger.With().Str("form", engine.Definition().ID).Logger()
	return c, nil
}

// Change runs the field's change handler. ErrRejectedInput leaves state
// untouched and emits nothing.
func (c *Controller) Change(ctx context.Context, name, value string) error {
	return c.do(ctx, func() error {
		if err := c.engine.Change(name, value); err != nil {
			return err
		}
		c.emit()
		return nil
	})
}

// ChangeDate stores the picker selection; nil clears it.
func (c *Controller) ChangeDate(ctx context.Context, name string, date *time.Time) error {
	return c.do(ctx, func() error {
		if err := c.engine.ChangeDate(name, date); err != nil {
			return err
		}
		c.emit()
		return nil
	})
}

// Reset restores the defaults and clears the error map.
func (c *Controller) Reset(ctx context.Context) error {
	return c.do(ctx, func() error {
		c.engine.Reset()
		c.emit()
		return nil
	})
}

// Snapshot returns the current state.
func (c *Controller) Snapshot(ctx context.Context) (forms.Snapshot, error) {
	var snap forms.Snapshot
	err := c.do(ctx, func() error {
		snap = c.engine.Snapshot()
		return nil
	})
	return snap, err
}

// Picker returns the date picker binding for a date field.
func (c *Controller) Picker(ctx context.Context, name string) (forms.DatePicker, error) {
	var picker forms.DatePicker
	err := c.do(ctx, func() error {
		var err error
		picker, err = c.engine.Picker(name)
		return err
	})
	return picker, err
}

// Validate recomputes the error map without starting a submission.
func (c *Controller) Validate(ctx context.Context) (forms.ErrorMap, error) {
	var errs forms.ErrorMap
	err := c.do(ctx, func() error {
		errs = c.engine.Validate()
		c.emit()
		return nil
	})
	return errs, err
}

// Submit validates the form and, when it is valid, starts delivery and
// returns without waiting for it. An empty form returns forms.ErrFormEmpty,
// an invalid one forms.ErrInvalid (the errors are in the next snapshot) and
// a second submit while one is in flight forms.ErrSubmitInFlight.
func (c *Controller) Submit(ctx context.Context) error {
	return c.do(ctx, c.submit)
}

func (c *Controller) submit() error {
	values, err := c.engine.BeginSubmit()
	if err != nil {
		if errors.Is(err, forms.ErrInvalid) {
			c.emit()
		}
		return err
	}

	sub := submission.New(c.engine.Definition().ID, format.SanitizeValues(values), c.now())
	c.logger.Info().Str("submission_id", sub.ID).Msg("submission started")
	c.emit()

	ctx := c.logger.WithContext(c.base)
	go func() {
		receipt, err := c.gateway.Submit(ctx, sub)
		if postErr := c.loop.Post(func() { c.complete(sub, receipt, err) }); postErr != nil {
			c.logger.Warn().Err(postErr).Str("submission_id", sub.ID).Msg("submission finished after session closed")
		}
	}()
	return nil
}

func (c *Controller) complete(sub submission.Submission, receipt submission.Receipt, err error) {
	c.engine.FinishSubmit()
	outcome := Outcome{Submission: sub, Receipt: receipt, Err: err}

	if err != nil {
		c.logger.Error().Err(err).Str("submission_id", sub.ID).Msg("submission failed")
		var rejection *submission.RejectionError
		if errors.As(err, &rejection) {
			mapped := render.MapErrorPayload(c.engine.Definition(), rejection.Fields)
			c.engine.MergeErrors(mapped.FieldErrors())
			outcome.FormErrors = mapped.Form
		}
		c.emit()
		c.after(c.timings.NotifyDelay, func() {
			c.announce(notify.Failure(c.failureMessage))
			c.settle(outcome)
		})
		return
	}

	c.logger.Info().
		Str("submission_id", sub.ID).
		Int("attempts", receipt.Attempts).
		Msg("submission accepted")
	c.emit()
	c.after(c.timings.NotifyDelay, func() {
		c.announce(notify.Success(c.engine.Definition().SuccessMessage))
		c.after(c.timings.ResetDelay, func() {
			c.engine.Reset()
			c.emit()
			c.settle(outcome)
		})
	})
}

func (c *Controller) after(d time.Duration, fn func()) {
	if err := c.loop.AfterFunc(d, fn); err != nil {
		c.logger.Debug().Err(err).Msg("lifecycle step dropped")
	}
}

func (c *Controller) announce(n notify.Notification) {
	c.notifier.Announce(c.logger.WithContext(c.base), n)
}

func (c *Controller) emit() {
	if c.onChange != nil {
		c.onChange(c.engine.Snapshot())
	}
}

func (c *Controller) settle(outcome Outcome) {
	if c.onSettled != nil {
		c.onSettled(outcome)
	}
}

// do runs fn on the loop and waits for its result.
func (c *Controller) do(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	if err := c.loop.Post(func() { done <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
