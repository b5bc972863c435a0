package ir

import "strings"

// Sanitize derives a declaration-safe identifier from a display name:
// lowercase, non-alphanumerics become underscores, runs collapse to one, and
// edge underscores are trimmed. Names that would start with a digit get an
// "r_" prefix so the result always matches [a-z][a-z0-9_]*. Empty input
// yields empty output.
func Sanitize(name string) string {
	var b strings.Builder
	lastUnderscore := true // swallow leading separators
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	s := strings.TrimSuffix(b.String(), "_")
	if s == "" {
		return ""
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "r_" + s
	}
	return s
}

// EnvName renders a sanitized name as an environment-variable style key.
func EnvName(name string) string {
	return strings.ToUpper(Sanitize(name))
}
