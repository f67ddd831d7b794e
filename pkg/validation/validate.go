package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-leadform/pkg/model"
)

// Mode selects which rules a field compiles to.
type Mode int

const (
	// ModeClient applies the entry-time rules.
	ModeClient Mode = iota
	// ModeStrict adds format, range, length and choice checks.
	ModeStrict
)

// Message templates shared with the HTTP validate endpoint.
const (
	MessageEmail   = "Please enter a valid email address"
	MessageZip     = "Please enter a valid zip code (format: 12345 or 12345-6789)"
	MessageWebsite = "Please enter a valid website URL"
)

// Options configures Validate.
type Options struct {
	Mode     Mode
	Now      func() time.Time
	Location *time.Location
}

// Option mutates Options.
type Option func(*Options)

// WithMode selects client or strict rules.
func WithMode(mode Mode) Option {
	return func(o *Options) {
		o.Mode = mode
	}
}

// WithClock overrides the time source used by date rules.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Now = now
		}
	}
}

// WithLocation sets the zone in which calendar days are compared.
func WithLocation(loc *time.Location) Option {
	return func(o *Options) {
		if loc != nil {
			o.Location = loc
		}
	}
}

// NewOptions applies fns over the defaults (client mode, wall clock, local
// zone).
func NewOptions(fns ...Option) Options {
	opts := Options{
		Mode:     ModeClient,
		Now:      time.Now,
		Location: time.Local,
	}
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	return opts
}

// Validate checks every field of def against values and returns one message
// per invalid field. Fields missing from values are treated as empty.
func Validate(def model.FormDefinition, values map[string]string, fns ...Option) Errors {
	opts := NewOptions(fns...)
	errs := make(Errors)
	for _, field := range def.Fields {
		if msg, ok := validateField(field, values[field.Name], opts); !ok {
			errs[field.Name] = msg
		}
	}
	return errs
}

// ValidateField checks one value and reports the first failing message.
func ValidateField(field model.Field, value string, fns ...Option) (string, bool) {
	return validateField(field, value, NewOptions(fns...))
}

func validateField(field model.Field, value string, opts Options) (string, bool) {
	for _, v := range Rules(field, opts) {
		if err := v.Validate(value); err != nil {
			return err.Error(), false
		}
	}
	return "", true
}

// Rules compiles the validators for field in evaluation order.
func Rules(field model.Field, opts Options) []Validator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	label := field.Label
	if label == "" {
		label = model.DefaultLabeler(field.Name)
	}
	strict := opts.Mode == ModeStrict

	var rules []Validator
	if field.Required {
		msg := field.RequiredMessage
		if msg == "" {
			msg = label + " is required"
		}
		rules = append(rules, Required(msg))
	}

	switch field.Kind {
	case model.FieldKindEmail:
		if strict {
			rules = append(rules, StrictEmail(MessageEmail))
		} else {
			rules = append(rules, Email(MessageEmail))
		}
	case model.FieldKindDate:
		rules = append(rules, Date(opts.Location, label+" must be a valid date"))
	case model.FieldKindNumber:
		if strict {
			rules = append(rules, Integer(label+" must be a valid number"))
		}
	case model.FieldKindPhone:
		if strict {
			rules = append(rules, Phone(label+" must be in format XXX-XXX-XXXX"))
		}
	case model.FieldKindZip:
		if strict {
			rules = append(rules, Zip(MessageZip))
		}
	case model.FieldKindURL:
		if strict {
			rules = append(rules, Website(MessageWebsite))
		}
	case model.FieldKindSelect, model.FieldKindRadio:
		if strict {
			rules = append(rules, OneOf(choiceValues(field.Choices), oneOfMessage(label, choiceValues(field.Choices))))
		}
	}

	for _, rule := range field.Validations {
		if v := compileRule(rule, label, strict, opts); v != nil {
			rules = append(rules, v)
		}
	}
	return rules
}

func compileRule(rule model.ValidationRule, label string, strict bool, opts Options) Validator {
	switch rule.Kind {
	case model.ValidationRuleNotPast:
		return NotPast(opts.Now, opts.Location, firstNonEmpty(rule.Message, label+" must not be in the past"))
	}

	if !strict {
		return nil
	}

	n, _ := strconv.Atoi(rule.Params["value"])
	switch rule.Kind {
	case model.ValidationRuleMin:
		return Min(n, firstNonEmpty(rule.Message, fmt.Sprintf("%s must be at least %d", label, n)))
	case model.ValidationRuleMax:
		return Max(n, firstNonEmpty(rule.Message, fmt.Sprintf("%s must not exceed %d", label, n)))
	case model.ValidationRuleMaxLength:
		return MaxLength(n, firstNonEmpty(rule.Message, fmt.Sprintf("%s must not exceed %d characters", label, n)))
	case model.ValidationRulePattern:
		return Pattern(rule.Params["pattern"], firstNonEmpty(rule.Message, label+" has an invalid format"))
	case model.ValidationRuleOneOf:
		allowed := splitList(rule.Params["values"])
		return OneOf(allowed, firstNonEmpty(rule.Message, oneOfMessage(label, allowed)))
	default:
		return nil
	}
}

func oneOfMessage(label string, allowed []string) string {
	return label + " must be one of: " + strings.Join(allowed, ", ")
}

func choiceValues(choices []model.Choice) []string {
	out := make([]string, 0, len(choices))
	for _, choice := range choices {
		out = append(out, choice.Value)
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
