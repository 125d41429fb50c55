// Package phone normalizes US phone numbers. The wire format is ten raw
// digits; formatting is display-only.
package phone

import "strings"

// Normalize strips everything but digits and drops a leading country
// code 1 from eleven-digit input. The result is what gets transmitted.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	return digits
}

// Display renders ten digits as (XXX) XXX-XXXX. Anything else is
// returned unchanged.
func Display(s string) string {
	digits := Normalize(s)
	if len(digits) != 10 {
		return s
	}
	return "(" + digits[0:3] + ") " + digits[3:6] + "-" + digits[6:10]
}
