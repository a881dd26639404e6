// Package privacy keeps contact details out of logs and out of prompts sent
// to third-party language models.
package privacy

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxLogRunes = 200
	maxAPIRunes = 2000
)

var (
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Matches: 555-123-4567, (555) 123-4567, 555.123.4567, +1-555-123-4567, 555-1234
	phoneRegex = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]\d{4}|\b\d{3}[-.\s]\d{4}\b`)

	ssnRegex = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)

	// four groups of four, separated or not
	creditCardRegex = regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)
)

// RedactSensitiveData replaces emails, card numbers, SSNs and phone numbers
// with placeholders. Cards and SSNs are replaced first so their digit groups
// are not mistaken for phone numbers.
func RedactSensitiveData(text string) string {
	text = emailRegex.ReplaceAllString(text, "[EMAIL]")
	text = creditCardRegex.ReplaceAllString(text, "[CARD]")
	text = ssnRegex.ReplaceAllString(text, "[SSN]")
	text = phoneRegex.ReplaceAllString(text, "[PHONE]")
	return text
}

// SanitizeForLogging prepares user text for safe logging
func SanitizeForLogging(text string) string {
	return truncate(RedactSensitiveData(text), maxLogRunes)
}

// SanitizeForAPI removes PII and bounds the size of text sent to external APIs.
func SanitizeForAPI(text string) string {
	return truncate(strings.TrimSpace(RedactSensitiveData(text)), maxAPIRunes)
}

// ContainsPII checks if text contains potential PII
func ContainsPII(text string) bool {
	return emailRegex.MatchString(text) ||
		phoneRegex.MatchString(text) ||
		ssnRegex.MatchString(text) ||
		creditCardRegex.MatchString(text)
}

// truncate cuts text to at most limit runes, marking the cut with "...".
func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-3]) + "..."
}
