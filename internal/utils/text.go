package utils

import (
	"regexp"
	"strings"
	"time"
)

// Question comments arrive with the platform's rich-text markup embedded.
var tagPattern = regexp.MustCompile(`<[^<]+?>`)

// StripMarkup removes every <...> tag span (non-greedy) and trims the
// surrounding whitespace. An empty input yields an empty string.
func StripMarkup(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// NowISO returns the current UTC time in the ISO-8601 form the submission
// endpoint expects for accessed_on / executed_on.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
