package forms

import (
	"fmt"

	"github.com/goliatone/go-leadform/pkg/validation"
)

// ErrorMap maps a field name to its error message.
type ErrorMap = validation.Errors

// Status is the submission lifecycle flag gating the submit control.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
)

func (s Status) String() string {
	switch s {
	case StatusSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// MarshalText renders the status as its name in JSON payloads.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle", "":
		*s = StatusIdle
	case "submitting":
		*s = StatusSubmitting
	default:
		return fmt.Errorf("forms: unknown status %q", text)
	}
	return nil
}
