package util

import "strings"

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// FirstNonEmpty returns the first string in the chain that is non-blank
// after trimming, or "" when every candidate is blank.
func FirstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
