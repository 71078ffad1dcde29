package helpers

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so term matches literally.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// ContainsPattern builds an ILIKE pattern matching term anywhere in a column.
func ContainsPattern(term string) string {
	return "%" + EscapeLike(strings.TrimSpace(term)) + "%"
}

// NullIfEmpty converts an empty string into a NULL column value.
func NullIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
