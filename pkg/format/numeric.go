package format

import "strings"

// AcceptNumericKey reports whether a keystroke may enter a non-negative
// integer input. Sign, decimal point and exponent keys are refused.
func AcceptNumericKey(key string) bool {
	switch key {
	case "-", "+", ".", "e", "E":
		return false
	default:
		return true
	}
}

// AcceptNumericPaste reports whether pasted text may enter a non-negative
// integer input. Anything other than plain digits (negative numbers,
// decimals, exponents) is refused. Empty text clears the input and is
// accepted.
func AcceptNumericPaste(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
