// Package redact strips credential-shaped substrings from error messages
// before they leave the data-access layer or reach a log line.
package redact

import (
	"errors"
	"regexp"
)

// Placeholder replaces every redacted value.
const Placeholder = "[REDACTED]"

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)password[:\s]*\S+`),
	regexp.MustCompile(`(?i)pwd[:\s]*\S+`),
	regexp.MustCompile(`(?i)token[:\s]*\S+`),
	regexp.MustCompile(`(?i)secret[:\s]*\S+`),
	regexp.MustCompile(`(?i)api[_-]?key[:\s]*\S+`),
}

// String returns s with passwords, tokens, secrets and API keys replaced by Placeholder.
func String(s string) string {
	for _, re := range sensitivePatterns {
		s = re.ReplaceAllString(s, Placeholder)
	}
	return s
}

// Error returns a new error carrying the redacted message of err.
// The original error is dropped from the chain so that nothing downstream can unwrap it.
func Error(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(String(err.Error()))
}
