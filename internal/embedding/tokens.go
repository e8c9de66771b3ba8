package embedding

import (
	"strings"
	"unicode"
)

// Words lowercases text and splits it on anything that is not a letter or digit.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Trigrams returns the rune trigrams of a word padded with '_' on both ends,
// so short inflections of the same stem share most of their features.
func Trigrams(word string) []string {
	runes := []rune("_" + word + "_")
	if len(runes) < 3 {
		return nil
	}
	out := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		out = append(out, string(runes[i:i+3]))
	}
	return out
}
