package forms

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-leadform/pkg/format"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/validation"
)

// Engine holds the state of one form instance.
type Engine struct {
	def        model.FormDefinition
	formatters *format.Registry
	validation []validation.Option
	now        func() time.Time
	location   *time.Location

	values map[string]string
	dates  map[string]*time.Time
	errors ErrorMap
	status Status
}

// DatePicker is what a date widget binds to: the selected day (nil when
// cleared) and the earliest selectable day.
type DatePicker struct {
	Selected *time.Time
	Min      time.Time
}

// New builds an engine with every field at its default value.
func New(def model.FormDefinition, options ...Option) (*Engine, error) {
	cfg := config{
		formatters: format.DefaultRegistry(),
		now:        time.Now,
		location:   time.Local,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	for _, field := range def.Fields {
		if field.Formatter == "" {
			continue
		}
		if _, err := cfg.formatters.Get(field.Formatter); err != nil {
			return nil, fmt.Errorf("forms: field %q: %w", field.Name, err)
		}
	}

	e := &Engine{
		def:        def,
		formatters: cfg.formatters,
		now:        cfg.now,
		location:   cfg.location,
	}
	e.validation = append([]validation.Option{
		validation.WithClock(cfg.now),
		validation.WithLocation(cfg.location),
	}, cfg.validation...)
	e.Reset()
	return e, nil
}

// Definition returns the definition the engine was built from.
func (e *Engine) Definition() model.FormDefinition {
	return e.def
}

// Change stores raw into field name after running the field's formatter and
// entry guard. An existing error on that field is cleared; the field is not
// re-validated.
func (e *Engine) Change(name, raw string) error {
	field, ok := e.def.Field(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	switch field.Kind {
	case model.FieldKindNumber:
		if !format.AcceptNumericPaste(raw) {
			return fmt.Errorf("%w: %s accepts whole numbers only", ErrRejectedInput, field.Label)
		}
		raw = strings.TrimSpace(raw)
	case model.FieldKindDate:
		return e.changeDateString(name, raw)
	}

	value, err := e.formatters.Apply(field.Formatter, raw)
	if err != nil {
		return fmt.Errorf("forms: field %q: %w", name, err)
	}
	e.values[name] = value
	delete(e.errors, name)
	return nil
}

// AcceptKey reports whether a keystroke may reach field name. Only numeric
// fields refuse keys.
func (e *Engine) AcceptKey(name, key string) bool {
	field, ok := e.def.Field(name)
	if !ok {
		return false
	}
	if field.Kind != model.FieldKindNumber {
		return true
	}
	return format.AcceptNumericKey(key)
}

// ChangeDate stores the picker selection for a date field along with its
// ISO string. A nil date clears both.
func (e *Engine) ChangeDate(name string, date *time.Time) error {
	field, ok := e.def.Field(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if field.Kind != model.FieldKindDate {
		return fmt.Errorf("forms: field %q is not a date field", name)
	}

	if date == nil {
		e.dates[name] = nil
		e.values[name] = ""
	} else {
		day := format.StartOfDay(date.In(e.location))
		e.dates[name] = &day
		e.values[name] = format.ISODate(&day)
	}
	delete(e.errors, name)
	return nil
}

func (e *Engine) changeDateString(name, raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return e.ChangeDate(name, nil)
	}
	day, err := format.ParseISODate(trimmed, e.location)
	if err != nil {
		// Keep the text so validation can report it.
		e.dates[name] = nil
		e.values[name] = trimmed
		delete(e.errors, name)
		return nil
	}
	return e.ChangeDate(name, &day)
}

// Picker returns the binding for a date field's picker widget.
func (e *Engine) Picker(name string) (DatePicker, error) {
	field, ok := e.def.Field(name)
	if !ok {
		return DatePicker{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if field.Kind != model.FieldKindDate {
		return DatePicker{}, fmt.Errorf("forms: field %q is not a date field", name)
	}
	picker := DatePicker{Min: format.StartOfDay(e.now().In(e.location))}
	if selected := e.dates[name]; selected != nil {
		day := *selected
		picker.Selected = &day
	}
	return picker, nil
}

// Validate recomputes the error map over every field and returns a copy.
func (e *Engine) Validate() ErrorMap {
	e.errors = validation.Validate(e.def, e.values, e.validation...)
	return e.errors.Clone()
}

// MergeErrors records additional field errors, such as those returned by a
// remote rejection. Unknown fields are ignored.
func (e *Engine) MergeErrors(errs ErrorMap) {
	for name, msg := range errs {
		if _, ok := e.def.Field(name); !ok {
			continue
		}
		e.errors[name] = msg
	}
}

// Reset restores every field to its default and clears the error map. The
// submission status is left untouched.
func (e *Engine) Reset() {
	e.values = e.def.Defaults()
	e.dates = make(map[string]*time.Time)
	e.errors = make(ErrorMap)
}

// IsEmpty reports whether every field not marked GuardExempt is blank.
func (e *Engine) IsEmpty() bool {
	for _, field := range e.def.Fields {
		if field.GuardExempt {
			continue
		}
		if strings.TrimSpace(e.values[field.Name]) != "" {
			return false
		}
	}
	return true
}

// SubmitDisabled reports whether the submit control is disabled: while a
// submission is in flight or while the form is empty. Errors alone never
// disable it.
func (e *Engine) SubmitDisabled() bool {
	return e.status == StatusSubmitting || e.IsEmpty()
}

// SubmitLabel returns the label for the submit control.
func (e *Engine) SubmitLabel() string {
	if e.status == StatusSubmitting {
		return e.def.SubmittingLabel
	}
	return e.def.SubmitLabel
}

// BeginSubmit validates the form with the entry-time rules, then the strict
// rules, and when both pass moves the status to Submitting and returns the
// values to deliver.
func (e *Engine) BeginSubmit() (map[string]string, error) {
	if e.status == StatusSubmitting {
		return nil, ErrSubmitInFlight
	}
	if e.IsEmpty() {
		return nil, ErrFormEmpty
	}
	if errs := e.Validate(); !errs.Empty() {
		return nil, fmt.Errorf("%w: %d field(s)", ErrInvalid, len(errs))
	}
	// Entry-time rules passed; delivery also needs the server-side rules.
	strict := make([]validation.Option, 0, len(e.validation)+1)
	strict = append(strict, e.validation...)
	strict = append(strict, validation.WithMode(validation.ModeStrict))
	if errs := validation.Validate(e.def, e.values, strict...); !errs.Empty() {
		e.errors = errs
		return nil, fmt.Errorf("%w: %d field(s)", ErrInvalid, len(errs))
	}
	e.status = StatusSubmitting
	return e.Values(), nil
}

// FinishSubmit returns the status to Idle.
func (e *Engine) FinishSubmit() {
	e.status = StatusIdle
}

// Status returns the submission status.
func (e *Engine) Status() Status {
	return e.status
}

// Value returns the stored value of a field.
func (e *Engine) Value(name string) string {
	return e.values[name]
}

// Values returns a copy of the form state.
func (e *Engine) Values() map[string]string {
	out := make(map[string]string, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// Errors returns a copy of the error map.
func (e *Engine) Errors() ErrorMap {
	return e.errors.Clone()
}
