package format

import (
	"fmt"
	"strings"
	"time"
)

// ISODateLayout is the layout of date values stored in form state.
const ISODateLayout = "2006-01-02"

// ISODate formats t as YYYY-MM-DD. A nil date yields the empty string.
func ISODate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(ISODateLayout)
}

// ParseISODate parses a YYYY-MM-DD value in loc (UTC when nil).
func ParseISODate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	parsed, err := time.ParseInLocation(ISODateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("format: parse date %q: %w", value, err)
	}
	return parsed, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
