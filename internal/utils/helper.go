package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewRequestID returns a random identifier for correlating log lines.
func NewRequestID() string {
	return uuid.NewString()
}

// NormalizeEmail trims surrounding whitespace. Lookups by email are exact
// matches, so callers normalize before both writes and reads.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
