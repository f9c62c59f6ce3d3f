package validate

import (
	"strings"
	"unicode"
)

// SanitizeText cleans single-line user input for storage: line breaks
// become spaces, other control characters are dropped, ends are trimmed.
func SanitizeText(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "\t", " ").Replace(s)
	return strings.TrimSpace(StripControlChars(s))
}

// StripControlChars removes all control characters from a string.
func StripControlChars(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
