package helpers

import "strings"

// NullString returns nil for an empty string so optional columns are stored as NULL.
func NullString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so s only ever matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Contains builds a LIKE pattern matching s anywhere in the value.
func Contains(s string) string {
	return "%" + EscapeLike(s) + "%"
}
