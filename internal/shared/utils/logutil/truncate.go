// Package logutil holds helpers for keeping credentials and personal data
// out of log lines.
package logutil

import "strings"

// TruncateForLog keeps the first maxLen runes of s and marks the cut with "...".
// Use it for bearer tokens where a prefix is enough to correlate requests.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// MaskEmail keeps the first rune of the local part and the domain.
// "ann@example.com" becomes "a***@example.com".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "***"
	}
	runes := []rune(local)
	if len(runes) == 0 {
		return "***@" + domain
	}
	return string(runes[0]) + "***@" + domain
}
