package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenRunes drops single character tokens such as the "t" in "don't".
const minTokenRunes = 2

// tokenize lowercases text and splits it into maximal runs of word
// characters (letters, numbers, underscore) of at least two runes.
func tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = appendToken(tokens, text[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = appendToken(tokens, text[start:])
	}
	return tokens
}

func appendToken(tokens []string, tok string) []string {
	if utf8.RuneCountInString(tok) < minTokenRunes {
		return tokens
	}
	return append(tokens, tok)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
