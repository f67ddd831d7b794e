package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-leadform/pkg/format"
)

// Patterns shared with the published API schema.
const (
	ZipPattern     = `^\d{5}(-\d{4})?$`
	PhonePattern   = `^\d{3}-\d{3}-\d{4}$`
	IntegerPattern = `^\d*$`
)

var (
	clientEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	strictEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	zipPattern         = regexp.MustCompile(ZipPattern)
	phonePattern       = regexp.MustCompile(PhonePattern)
)

// Validator checks a single field value.
type Validator interface {
	// Validate returns nil when value is acceptable, or a ValidationError.
	Validate(value string) error
}

// ValidatorFunc is a function that implements Validator.
type ValidatorFunc func(value string) error

func (f ValidatorFunc) Validate(value string) error {
	return f(value)
}

// ValidationError is a user-facing validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// Required fails when the trimmed value is empty.
func Required(msg string) Validator {
	if msg == "" {
		msg = "This field is required"
	}
	return ValidatorFunc(func(value string) error {
		if strings.TrimSpace(value) == "" {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Email validates the loose local@domain.tld shape used while typing.
func Email(msg string) Validator {
	return matching(clientEmailPattern, msg)
}

// StrictEmail validates addresses with an alphabetic top-level domain of at
// least two letters.
func StrictEmail(msg string) Validator {
	return matching(strictEmailPattern, msg)
}

// Zip validates five digit or ZIP+4 codes.
func Zip(msg string) Validator {
	return matching(zipPattern, msg)
}

// Phone validates the XXX-XXX-XXXX shape produced by format.Phone.
func Phone(msg string) Validator {
	return matching(phonePattern, msg)
}

// Pattern validates values against a regular expression.
func Pattern(pattern, msg string) Validator {
	return matching(regexp.MustCompile(pattern), msg)
}

func matching(re *regexp.Regexp, msg string) Validator {
	if msg == "" {
		msg = "Invalid format"
	}
	return ValidatorFunc(func(value string) error {
		s := strings.TrimSpace(value)
		if s == "" {
			return nil
		}
		if !re.MatchString(s) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// MaxLength fails when value has more than n characters.
func MaxLength(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must not exceed %d characters", n)
	}
	return ValidatorFunc(func(value string) error {
		if len([]rune(value)) > n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Integer fails when a non-empty value is not a base-10 integer.
func Integer(msg string) Validator {
	if msg == "" {
		msg = "Must be a valid number"
	}
	return ValidatorFunc(func(value string) error {
		s := strings.TrimSpace(value)
		if s == "" {
			return nil
		}
		if _, err := strconv.Atoi(s); err != nil {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Min fails when an integer value is below n. Non-integers are left to
// Integer.
func Min(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must be at least %d", n)
	}
	return ValidatorFunc(func(value string) error {
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil
		}
		if v < n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Max fails when an integer value is above n.
func Max(n int, msg string) Validator {
	if msg == "" {
		msg = fmt.Sprintf("Must not exceed %d", n)
	}
	return ValidatorFunc(func(value string) error {
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil
		}
		if v > n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// OneOf fails when a non-empty value is not in allowed.
func OneOf(allowed []string, msg string) Validator {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	if msg == "" {
		msg = "Must be one of: " + strings.Join(allowed, ", ")
	}
	return ValidatorFunc(func(value string) error {
		s := strings.TrimSpace(value)
		if s == "" {
			return nil
		}
		if _, ok := set[s]; !ok {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Website validates an http(s) URL with a host. A value without any scheme
// is treated as https; any other explicit scheme fails.
func Website(msg string) Validator {
	if msg == "" {
		msg = "Invalid URL"
	}
	return ValidatorFunc(func(value string) error {
		s := strings.TrimSpace(value)
		if s == "" {
			return nil
		}
		if !strings.Contains(s, "://") {
			s = "https://" + s
		}
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Date fails when a non-empty value is not a YYYY-MM-DD date.
func Date(loc *time.Location, msg string) Validator {
	if msg == "" {
		msg = "Must be a valid date"
	}
	return ValidatorFunc(func(value string) error {
		s := strings.TrimSpace(value)
		if s == "" {
			return nil
		}
		if _, err := format.ParseISODate(s, loc); err != nil {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// NotPast fails when a YYYY-MM-DD value names a calendar day before the day
// reported by now. Today passes.
func NotPast(now func() time.Time, loc *time.Location, msg string) Validator {
	if msg == "" {
		msg = "Must not be in the past"
	}
	return ValidatorFunc(func(value string) error {
		s := strings.TrimSpace(value)
		if s == "" {
			return nil
		}
		day, err := format.ParseISODate(s, loc)
		if err != nil {
			return nil
		}
		today := format.StartOfDay(now().In(day.Location()))
		if day.Before(today) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}
