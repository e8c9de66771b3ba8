// Package utils provides shared helpers for text, math, and logging.
package utils

import (
	"regexp"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Truncate returns s cut to maxRunes runes with "..." appended when it was longer.
// A non-positive maxRunes returns s unchanged.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

// UTF16Len returns the length of s in UTF-16 code units, which is how browser
// clients measure message length.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// IsWordRune reports whether r is part of a word: letters, digits, combining marks and '_'.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// IsWordBoundary reports whether byte offset i in s sits between a word rune
// and a non-word rune (string edges count as non-word).
func IsWordBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = IsWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = IsWordRune(r)
	}
	return before != after
}

// FindWholeWords returns the [start, end) byte offsets of non-overlapping matches
// of re in s that begin and end on a word boundary. Unlike RE2's \b, boundaries
// are Unicode-aware, so Cyrillic words are delimited correctly.
func FindWholeWords(re *regexp.Regexp, s string) [][]int {
	var out [][]int
	pos := 0
	for pos <= len(s) {
		loc := re.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end > start && IsWordBoundary(s, start) && IsWordBoundary(s, end) {
			out = append(out, []int{start, end})
			pos = end
			continue
		}
		if start >= len(s) {
			break
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		pos = start + size
	}
	return out
}

// CountWholeWords returns the number of whole-word matches of re in s.
func CountWholeWords(re *regexp.Regexp, s string) int {
	return len(FindWholeWords(re, s))
}
