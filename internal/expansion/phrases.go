package expansion

import (
	"regexp"
	"strings"

	"github.com/hyperjump/hotelrag/pkg/utils"
)

var quotedPhrase = regexp.MustCompile(`"([^"]+)"`)

// domainPhrasePatterns are matched as whole words, case-insensitively, in this order.
var domainPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)check.?in|check.?out`),
	regexp.MustCompile(`(?i)full board|half board|bed and breakfast|b&b`),
	regexp.MustCompile(`(?i)sea view|mountain view|city view`),
	regexp.MustCompile(`(?i)double room|single room|twin room|triple room`),
	regexp.MustCompile(`(?i)стая за двама|двойна стая|единична стая`),
	regexp.MustCompile(`(?i)изглед към море|изглед планина`),
}

// ExtractKeyPhrases returns quoted segments (quotes stripped) in order of
// appearance, followed by lowercased matches of the domain phrase patterns.
// Duplicates are kept.
func ExtractKeyPhrases(query string) []string {
	var phrases []string
	for _, m := range quotedPhrase.FindAllStringSubmatch(query, -1) {
		phrases = append(phrases, m[1])
	}
	for _, re := range domainPhrasePatterns {
		for _, loc := range utils.FindWholeWords(re, query) {
			phrases = append(phrases, strings.ToLower(query[loc[0]:loc[1]]))
		}
	}
	return phrases
}
