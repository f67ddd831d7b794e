package format

import "strings"

// PhoneDigits is the maximum number of digits kept by Phone.
const PhoneDigits = 10

// Phone strips every non-digit from raw, keeps at most ten digits and inserts
// hyphens after the third and sixth digit: "2406613222" -> "240-661-3222",
// "24066" -> "240-66".
func Phone(raw string) string {
	digits := Digits(raw)
	if len(digits) > PhoneDigits {
		digits = digits[:PhoneDigits]
	}
	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 6:
		return digits[:3] + "-" + digits[3:]
	default:
		return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
	}
}

// Digits returns only the ASCII digits of raw.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
