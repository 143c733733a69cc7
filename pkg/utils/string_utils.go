package utils

import "strings"

// DerefString returns "" for nil.
func DerefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// LikePattern turns a user search term into a case-insensitive substring pattern.
// LIKE metacharacters in the term are escaped so they match literally.
func LikePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(term)) + "%"
}
