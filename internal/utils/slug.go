package utils

import (
	"strings"
	"unicode"
)

// SlugifyRoleName derives a role id from a display name: lower-cased, with
// runs of non-alphanumeric characters collapsed to single underscores.
// "Team Lead" becomes "team_lead".
func SlugifyRoleName(name string) string {
	var b strings.Builder
	lastUnderscore := true // trim leading separators
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
