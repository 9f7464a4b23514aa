package keys

import (
	"fmt"
	"strings"
)

// sanitizeKey replaces spaces and slashes with hyphens and lowercases the
// string.
func sanitizeKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(" ", "-", "/", "-").Replace(s)
	return strings.ToLower(s)
}

// Places returns the object key of a user's places snapshot.
func Places(nickname string) string {
	return fmt.Sprintf("places/%s.json", sanitizeKey(nickname))
}
