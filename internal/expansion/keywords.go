package expansion

import (
	"strings"
	"unicode/utf8"
)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		и в на с за от до по при или но
		a an and are as at be by for from has he in is it its of on that the to was will with
		this these those
		каква какво какви колко кога къде защо как
		what when where why how`) {
		stopWords[w] = struct{}{}
	}
}

// ExtractKeywords returns the lowercased query tokens longer than two
// characters that are not stop words, deduplicated in first-seen order.
func ExtractKeywords(query string) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, w := range Tokenize(query) {
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
	}
	return keywords
}

// IsStopWord reports whether w (lowercase) is a stop word.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}
