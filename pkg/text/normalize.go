package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	paragraphPattern = regexp.MustCompile(`\n\s*\n\s*`)
	linePattern      = regexp.MustCompile(`\n\s*`)
)

func Normalize(text string) string {
	text = strings.TrimSpace(text)

	// Remove any existing \a characters to prevent interference
	text = strings.ReplaceAll(text, "\a", "")

	// Convert Windows line endings to Unix
	text = strings.ReplaceAll(text, "\r\n", "\n")

	// Use \a as temporary marker for paragraph breaks (multiple newlines)
	text = paragraphPattern.ReplaceAllString(text, "\a\a")

	// Use \a as temporary marker for single line breaks
	text = linePattern.ReplaceAllString(text, "\a")

	// Collapse multiple spaces into single space
	text = strings.Join(strings.Fields(text), " ")

	// Restore line breaks from temporary markers
	text = strings.ReplaceAll(text, "\a", "\n")

	text = strings.TrimSpace(text)

	return text
}

// Fold decomposes the text, drops everything outside ASCII (which removes
// the combining marks left by the decomposition) and lower-cases the rest.
// "Qualità FONDO" becomes "qualita fondo".
func Fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isNonASCII)))

	result, _, err := transform.String(t, text)

	if err != nil {
		return strings.ToLower(text)
	}

	return strings.ToLower(result)
}

func isNonASCII(r rune) bool {
	return r > unicode.MaxASCII
}
