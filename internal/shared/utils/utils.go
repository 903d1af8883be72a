package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NormalizeEmail returns the canonical stored form of an email address:
// trimmed and lowercased. Uniqueness checks always run against this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName trims a name field and title-cases each word.
func NormalizeName(name string) string {
	fields := strings.Fields(name)
	for i, f := range fields {
		runes := []rune(strings.ToLower(f))
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		}
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}

// ParseStringToUUID parses a path or query parameter into a UUID.
func ParseStringToUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}
