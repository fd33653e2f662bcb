package security

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString trims whitespace, removes null bytes and caps the result at
// maxRunes characters.
func SanitizeString(input string, maxRunes int) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if maxRunes > 0 && utf8.RuneCountInString(input) > maxRunes {
		input = string([]rune(input)[:maxRunes])
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// CleanText prepares user-typed plain text for storage. Tags are stripped,
// entities the policy escaped are turned back into characters and the result
// is trimmed. It does not truncate; callers enforce their own length rules.
func CleanText(input string) string {
	return SanitizeString(html.UnescapeString(SanitizeHTML(input)), 0)
}

// TooLong reports whether text exceeds maxRunes characters.
func TooLong(text string, maxRunes int) bool {
	return maxRunes > 0 && utf8.RuneCountInString(text) > maxRunes
}
