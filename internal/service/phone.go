package service

import (
	"regexp"
	"strings"
)

var e164USPattern = regexp.MustCompile(`^\+1\d{10}$`)

// NormalizePhoneNumber strips formatting and returns the E.164 form for
// a US number. "(555) 555-0123" and "15555550123" both normalize to
// "+15555550123". The country code is prefixed only when the digits do
// not already start with "1". The result is not guaranteed valid; check
// with ValidPhoneNumber.
func NormalizePhoneNumber(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	normalized := digits.String()
	if normalized == "" {
		return ""
	}
	if !strings.HasPrefix(normalized, "1") {
		normalized = "1" + normalized
	}
	return "+" + normalized
}

// ValidPhoneNumber reports whether the value is a normalized US number.
func ValidPhoneNumber(phone string) bool {
	return e164USPattern.MatchString(phone)
}
