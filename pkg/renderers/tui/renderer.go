package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-leadform/pkg/format"
	"github.com/goliatone/go-leadform/pkg/forms"
	"github.com/goliatone/go-leadform/pkg/lifecycle"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/submission"
)

// Renderer drives a form from the terminal. Render collects values and
// serializes them; Fill also sends them through the submission lifecycle.
type Renderer struct {
	driver           PromptDriver
	outputFormat     OutputFormat
	out              io.Writer
	theme            Theme
	maxAttempts      int
	engineOptions    []forms.Option
	lifecycleOptions []lifecycle.Option
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		out:          os.Stdout,
		theme:        DefaultTheme(),
		maxAttempts:  DefaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field, re-prompts the ones that fail
// validation and returns the collected values. Nothing is submitted.
func (r *Renderer) Render(ctx context.Context, def model.FormDefinition, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, err := r.start(ctx, def, r.lifecycleOptions...)
	if err != nil {
		return nil, err
	}
	defer s.close()

	if err := r.seed(ctx, s, opts); err != nil {
		return nil, err
	}
	if err := r.collect(ctx, s); err != nil {
		return nil, err
	}
	snap, err := s.ctrl.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return r.serialize(def, snap.Values)
}

func (r *Renderer) seed(ctx context.Context, s *session, opts render.RenderOptions) error {
	for _, field := range s.def.Fields {
		if value, ok := opts.Values[field.Name]; ok {
			if err := s.ctrl.Change(ctx, field.Name, value); err != nil && !errors.Is(err, forms.ErrRejectedInput) {
				return err
			}
		}
		if msg := opts.Errors[field.Name]; msg != "" {
			if err := r.info(ctx, r.theme.ErrorPrefix+field.Label+": "+msg); err != nil {
				return err
			}
		}
	}
	for _, msg := range opts.FormErrors {
		if err := r.info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
	return nil
}

// collect prompts every field once, then keeps re-prompting the fields
// that fail validation.
func (r *Renderer) collect(ctx context.Context, s *session) error {
	for _, field := range s.def.Fields {
		if err := r.promptField(ctx, s, field); err != nil {
			return err
		}
	}
	return r.revalidate(ctx, s)
}

func (r *Renderer) revalidate(ctx context.Context, s *session) error {
	for round := 0; round < r.maxAttempts; round++ {
		errs, err := s.ctrl.Validate(ctx)
		if err != nil {
			return err
		}
		if len(errs) == 0 {
			snap, err := s.ctrl.Snapshot(ctx)
			if err != nil {
				return err
			}
			if snap.SubmitDisabled {
				return forms.ErrFormEmpty
			}
			return nil
		}
		if err := r.info(ctx, fmt.Sprintf("%s%d field(s) need attention", r.theme.ErrorPrefix, len(errs))); err != nil {
			return err
		}
		for _, field := range s.def.Fields {
			if _, ok := errs[field.Name]; !ok {
				continue
			}
			if err := r.promptField(ctx, s, field); err != nil {
				return err
			}
		}
	}
	return ErrTooManyAttempts
}

func (r *Renderer) promptField(ctx context.Context, s *session, field model.Field) error {
	snap, err := s.ctrl.Snapshot(ctx)
	if err != nil {
		return err
	}
	if msg := snap.Errors[field.Name]; msg != "" {
		if err := r.info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}

	current := snap.Values[field.Name]
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		raw, err := r.ask(ctx, s, field, current)
		if err != nil {
			return err
		}
		err = s.ctrl.Change(ctx, field.Name, raw)
		if err == nil {
			return nil
		}
		if !errors.Is(err, forms.ErrRejectedInput) {
			return err
		}
		msg := strings.TrimPrefix(err.Error(), forms.ErrRejectedInput.Error()+": ")
		if err := r.info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Label)
}

func (r *Renderer) ask(ctx context.Context, s *session, field model.Field, current string) (string, error) {
	message := field.Label
	if field.Required {
		message += " *"
	}

	switch field.Kind {
	case model.FieldKindSelect, model.FieldKindRadio:
		labels, values := choiceOptions(field)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: indexOf(values, current),
			Help:         field.Help,
			PageSize:     10,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(values) {
			return "", fmt.Errorf("tui: %s: option %d out of range", field.Name, idx)
		}
		return values[idx], nil

	case model.FieldKindTextArea:
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: current,
			Help:    field.Help,
		})

	case model.FieldKindDate:
		help := "YYYY-MM-DD"
		if hasRule(field, model.ValidationRuleNotPast) {
			picker, err := s.ctrl.Picker(ctx, field.Name)
			if err != nil {
				return "", err
			}
			help += ", " + format.ISODate(&picker.Min) + " or later"
		}
		return r.driver.Input(ctx, InputConfig{
			Message: message,
			Default: current,
			Help:    help,
		})
	}

	cfg := InputConfig{
		Message: message,
		Default: current,
		Help:    firstNonEmpty(field.Help, field.Placeholder),
	}
	if field.Kind == model.FieldKindNumber {
		cfg.Validator = func(text string) error {
			if !format.AcceptNumericPaste(text) {
				return errors.New("whole numbers only")
			}
			return nil
		}
	}
	return r.driver.Input(ctx, cfg)
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) serialize(def model.FormDefinition, values map[string]string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for _, field := range def.Fields {
			form.Set(field.Name, values[field.Name])
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		sub := submission.New(def.ID, values, time.Now())
		return []byte(submission.Summary(def, sub)), nil
	default:
		return json.Marshal(values)
	}
}

// choiceOptions lists the labels shown and the values stored. Optional
// selects get a leading blank entry.
func choiceOptions(field model.Field) ([]string, []string) {
	var labels, values []string
	if field.Kind == model.FieldKindSelect && !field.Required {
		labels = append(labels, "(none)")
		values = append(values, "")
	}
	for _, choice := range field.Choices {
		labels = append(labels, firstNonEmpty(choice.Label, choice.Value))
		values = append(values, choice.Value)
	}
	return labels, values
}

func hasRule(field model.Field, kind string) bool {
	for _, rule := range field.Validations {
		if rule.Kind == kind {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
