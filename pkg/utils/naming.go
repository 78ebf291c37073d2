package utils

import (
	"regexp"
	"strings"
)

var (
	internalNameRe = regexp.MustCompile(`^[a-z0-9_]+$`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// InternalName normalizes a display string into the machine token used
// as a template's internal name: lowercase, whitespace collapsed to
// single underscores, surrounding underscores trimmed.
func InternalName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// IsValidInternalName reports whether s is already a well-formed
// internal name token.
func IsValidInternalName(s string) bool {
	return internalNameRe.MatchString(s)
}
