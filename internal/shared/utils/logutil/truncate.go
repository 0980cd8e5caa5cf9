package logutil

import "unicode/utf8"

// TruncateForLog keeps the first maxLen runes of s and appends "..." when it cut anything.
// Prompts and model replies are logged through it so customer text never lands in logs whole.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
