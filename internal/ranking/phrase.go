package ranking

import "strings"

// PhraseBonus returns 0.15 for every phrase contained in text (case-insensitive
// substring match), capped at 0.5. No phrases means no bonus.
func PhraseBonus(text string, phrases []string) float64 {
	if len(phrases) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	matches := 0
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			matches++
		}
	}
	return min(float64(matches)*PhraseBonusPerMatch, MaxPhraseBonus)
}
