package util

import (
	"os"
	"strings"
)

// EnvOrDefault returns the environment variable value or fallback when it is empty.
func EnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Initials derives up-to-two uppercase avatar initials from a display name.
// "Ada Lovelace" becomes "AL", a single word falls back to its first two runes.
func Initials(displayName string) string {
	fields := strings.Fields(displayName)
	switch {
	case len(fields) == 0:
		return "?"
	case len(fields) == 1:
		runes := []rune(fields[0])
		if len(runes) == 1 {
			return strings.ToUpper(string(runes[0]))
		}
		return strings.ToUpper(string(runes[:2]))
	default:
		first := []rune(fields[0])
		last := []rune(fields[len(fields)-1])
		return strings.ToUpper(string(first[0]) + string(last[0]))
	}
}
