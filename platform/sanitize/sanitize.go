// Package sanitize provides text sanitization for user-supplied chat input.
package sanitize

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = html.UnescapeString(result)
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// ChatText prepares a chat widget message for classification: HTML is
// stripped, the text is NFC-normalised so composed and decomposed accents
// compare equal, control characters other than newline and tab are dropped,
// and the result is cut to maxRunes runes (0 means no limit).
func ChatText(s string, maxRunes int) string {
	s = norm.NFC.String(StripHTML(s))

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sb.WriteRune(r)
	}
	result := sb.String()

	if maxRunes > 0 && utf8.RuneCountInString(result) > maxRunes {
		runes := []rune(result)
		result = string(runes[:maxRunes])
	}
	return strings.TrimSpace(result)
}
