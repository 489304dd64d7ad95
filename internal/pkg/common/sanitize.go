package common

import "strings"

// MaxInputLength maximum number of characters kept from user input
const MaxInputLength = 500

// disallowedChars are stripped before user text reaches a prompt
const disallowedChars = "<>{}()[]"

// Sanitize strips brackets and angle brackets from text and truncates it to MaxInputLength characters
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(disallowedChars, r) {
			return -1
		}
		return r
	}, text)

	// truncate on rune boundaries
	runes := []rune(cleaned)
	if len(runes) > MaxInputLength {
		return string(runes[:MaxInputLength])
	}
	return cleaned
}

// SanitizePtr is Sanitize for optional input; nil yields ""
func SanitizePtr(text *string) string {
	if text == nil {
		return ""
	}
	return Sanitize(*text)
}
