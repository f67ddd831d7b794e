package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-leadform/pkg/eventloop"
	"github.com/goliatone/go-leadform/pkg/forms"
	"github.com/goliatone/go-leadform/pkg/lifecycle"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/notify"
)

// session pairs one engine with the loop that owns it.
type session struct {
	def    model.FormDefinition
	ctrl   *lifecycle.Controller
	cancel context.CancelFunc
	done   chan struct{}
}

func (r *Renderer) start(ctx context.Context, def model.FormDefinition, opts ...lifecycle.Option) (*session, error) {
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	engine, err := forms.New(def, r.engineOptions...)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	loop := eventloop.New()
	ctrl, err := lifecycle.New(engine, loop, opts...)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s := &session{
		def:    engine.Definition(),
		ctrl:   ctrl,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		_ = loop.Run(loopCtx)
	}()
	return s, nil
}

func (s *session) close() {
	s.cancel()
	<-s.done
}

// Fill runs a complete terminal session for def: it collects and validates
// the values, asks for confirmation, submits them and waits for the
// lifecycle to settle. Notifications are printed to the renderer output.
// After a failed delivery the values are kept and the user may retry.
func (r *Renderer) Fill(ctx context.Context, def model.FormDefinition) (lifecycle.Outcome, error) {
	settled := make(chan lifecycle.Outcome, 1)

	opts := []lifecycle.Option{lifecycle.WithNotifier(notify.NewWriterNotifier(r.out))}
	opts = append(opts, r.lifecycleOptions...)
	opts = append(opts, lifecycle.OnSettled(func(o lifecycle.Outcome) { settled <- o }))

	s, err := r.start(ctx, def, opts...)
	if err != nil {
		return lifecycle.Outcome{}, err
	}
	defer s.close()

	if err := r.collect(ctx, s); err != nil {
		return lifecycle.Outcome{}, err
	}

	for {
		snap, err := s.ctrl.Snapshot(ctx)
		if err != nil {
			return lifecycle.Outcome{}, err
		}
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: snap.SubmitLabel + " now?",
			Default: true,
		})
		if err != nil {
			return lifecycle.Outcome{}, err
		}
		if !ok {
			return lifecycle.Outcome{}, ErrAborted
		}

		if err := s.ctrl.Submit(ctx); err != nil {
			if errors.Is(err, forms.ErrInvalid) {
				if err := r.revalidateRejected(ctx, s); err != nil {
					return lifecycle.Outcome{}, err
				}
				continue
			}
			return lifecycle.Outcome{}, err
		}
		if snap, err = s.ctrl.Snapshot(ctx); err == nil {
			_ = r.info(ctx, snap.SubmitLabel)
		}

		var outcome lifecycle.Outcome
		select {
		case outcome = <-settled:
		case <-ctx.Done():
			return lifecycle.Outcome{}, ctx.Err()
		}
		if outcome.Succeeded() {
			return outcome, nil
		}

		for _, msg := range outcome.FormErrors {
			if err := r.info(ctx, r.theme.ErrorPrefix+msg); err != nil {
				return outcome, err
			}
		}
		retry, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
		if err != nil {
			return outcome, err
		}
		if !retry {
			return outcome, outcome.Err
		}
		// Rejected fields carry errors now; fix them before resending.
		if err := r.revalidateRejected(ctx, s); err != nil {
			return outcome, err
		}
	}
}

func (r *Renderer) revalidateRejected(ctx context.Context, s *session) error {
	snap, err := s.ctrl.Snapshot(ctx)
	if err != nil {
		return err
	}
	for _, field := range s.def.Fields {
		if _, ok := snap.Errors[field.Name]; !ok {
			continue
		}
		if err := r.promptField(ctx, s, field); err != nil {
			return err
		}
	}
	return nil
}
