// Package identity maps raw contributor display names to canonical
// usernames. Every component that groups or counts by user goes through
// Normalize so the same person never splits into multiple keys.
package identity

import (
	"strings"
)

// Normalize maps a raw display name or handle to a canonical username:
// trimmed, lowercased, a leading "@" dropped, and internal whitespace
// collapsed to single dashes. An empty input stays empty.
func Normalize(name string) string {
	s := strings.TrimSpace(name)
	s = strings.TrimPrefix(s, "@")
	s = strings.ToLower(s)
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), "-")
}
