package expansion

import "strings"

const (
	boostPerTerm = 0.1
	maxBoost     = 1.5
)

// ImportanceBoost returns 1 plus 0.1 for every entry of importantTerms found
// as a substring of the lowercased text, capped at 1.5.
func ImportanceBoost(text string, importantTerms []string) float64 {
	if len(importantTerms) == 0 {
		return 1.0
	}
	lower := strings.ToLower(text)
	boost := 1.0
	for _, term := range importantTerms {
		if strings.Contains(lower, term) {
			boost += boostPerTerm
		}
	}
	return min(boost, maxBoost)
}
