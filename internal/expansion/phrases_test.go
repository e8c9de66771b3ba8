package expansion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeyPhrases(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "quoted then patterns",
			query: `Is "late checkout" possible with a sea view double room?`,
			want:  []string{"late checkout", "checkout", "sea view", "double room"},
		},
		{
			name:  "case-insensitive and lowercased",
			query: "Check-In time and CHECK-OUT",
			want:  []string{"check-in", "check-out"},
		},
		{
			name:  "board plans in text order",
			query: "B&B or Half Board",
			want:  []string{"b&b", "half board"},
		},
		{
			name:  "bulgarian patterns",
			query: "Искам двойна стая с изглед към море",
			want:  []string{"двойна стая", "изглед към море"},
		},
		{
			name:  "duplicates kept",
			query: `"sea view" sea view`,
			want:  []string{"sea view", "sea view", "sea view"},
		},
		{
			name:  "no match inside longer word",
			query: "checking in later",
			want:  nil,
		},
		{
			name:  "multiple quoted segments",
			query: `"pet policy" and "parking fee"`,
			want:  []string{"pet policy", "parking fee"},
		},
		{
			name:  "empty",
			query: "",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeyPhrases(tt.query))
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	assert.Equal(t,
		[]string{"price", "double", "room", "sea", "view?"},
		ExtractKeywords("What is the price of a double room with sea view?"))
	assert.Equal(t, []string{"цената", "стаята"}, ExtractKeywords("Каква е цената на стаята"))
	assert.Equal(t, []string{"wifi"}, ExtractKeywords("wifi WIFI WiFi"))
	assert.Nil(t, ExtractKeywords("a is of"))
	assert.True(t, IsStopWord("the"))
	assert.False(t, IsStopWord("room"))
}

func TestImportanceBoost(t *testing.T) {
	assert.Equal(t, 1.0, ImportanceBoost("anything", nil))
	assert.Equal(t, 1.0, ImportanceBoost("no amenities listed", []string{"wifi"}))
	assert.InDelta(t, 1.2, ImportanceBoost("Free WiFi and PARKING", []string{"wifi", "parking"}), 1e-9)
	assert.InDelta(t, 1.5,
		ImportanceBoost("wifi pool spa gym parking tv", []string{"wifi", "pool", "spa", "gym", "parking", "tv"}), 1e-9)
}
