package submission

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrTimeout is returned when an attempt exceeds the policy timeout.
	ErrTimeout = errors.New("submission: attempt timed out")
	// ErrUnavailable reports a transient delivery failure.
	ErrUnavailable = errors.New("submission: gateway unavailable")
)

// RejectionError is a permanent refusal by the receiving side, optionally
// carrying field-level messages keyed by field path.
type RejectionError struct {
	Message string
	Fields  map[string][]string
}

func (e *RejectionError) Error() string {
	if e == nil {
		return "submission: rejected"
	}
	msg := e.Message
	if msg == "" {
		msg = "rejected"
	}
	if len(e.Fields) == 0 {
		return "submission: " + msg
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("submission: %s (%s)", msg, strings.Join(names, ", "))
}

// IsRejection reports whether err carries a RejectionError.
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}

// Retryable reports whether err is worth another attempt.
func Retryable(err error) bool {
	if err == nil || IsRejection(err) {
		return false
	}
	return true
}
