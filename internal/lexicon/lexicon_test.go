package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	lex := Default()
	require.NotNil(t, lex)
	assert.Same(t, lex, Default(), "default lexicon is shared")

	assert.Equal(t, []string{"стая", "апартамент", "suite", "accommodation"}, lex.Synonyms("room"))
	assert.Equal(t, []string{"price", "rate", "тариф", "стойност", "сума", "cost"}, lex.Synonyms("цена"))
	assert.Equal(t, []string{"закуска", "morning meal"}, lex.Synonyms("breakfast"))
	assert.Nil(t, lex.Synonyms("pirate"))

	assert.True(t, lex.IsImportant("wifi"))
	assert.True(t, lex.IsImportant("рецепция"))
	assert.True(t, lex.IsImportant("check-in"))
	assert.False(t, lex.IsImportant("room"))
	assert.Len(t, lex.ImportantTerms(), 21)
	assert.Equal(t, "wifi", lex.ImportantTerms()[0])
}

func TestSynonymsAreCopies(t *testing.T) {
	lex := Default()
	syns := lex.Synonyms("room")
	syns[0] = "mutated"
	assert.Equal(t, "стая", lex.Synonyms("room")[0])

	terms := lex.ImportantTerms()
	terms[0] = "mutated"
	assert.Equal(t, "wifi", lex.ImportantTerms()[0])
}

func TestParse(t *testing.T) {
	lex, err := Parse([]byte(`
synonyms:
  Lobby: [фоайе, hall]
important_terms: [Sauna, sauna]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"фоайе", "hall"}, lex.Synonyms("lobby"))
	assert.True(t, lex.HasSynonyms("lobby"))
	assert.Equal(t, []string{"sauna"}, lex.ImportantTerms())
	assert.Equal(t, 1, lex.Size())

	_, err = Parse([]byte("synonyms: {}\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("synonyms: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	lex, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), lex)

	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("important_terms: [jacuzzi]\n"), 0o644))
	lex, err = Load(path)
	require.NoError(t, err)
	assert.True(t, lex.IsImportant("jacuzzi"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
