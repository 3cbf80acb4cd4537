package classification

import (
	"strings"
	"unicode"
)

// Normalize lowercases text and replaces every rune that is not a letter or
// digit with a space. Whitespace runs collapse to one space and the result
// is trimmed. Normalize is idempotent.
func Normalize(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	return strings.Join(strings.Fields(cleaned), " ")
}
