package lexicon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rhasspy-grammar/grammarfst/core/lexicon"
	"github.com/rhasspy-grammar/grammarfst/core/numbers"
)

func newDB(words ...string) *lexicon.Database {
	d := lexicon.NewDatabase()
	for _, w := range words {
		d.Add(w, [][]string{{"DUMMY"}})
	}
	return d
}

func TestDatabaseExistsAndLookupCaseVariations(t *testing.T) {
	d := newDB("turn")
	assert.True(t, d.Exists("turn"))
	assert.True(t, d.Exists("TURN"))
	assert.True(t, d.Exists("Turn"))
	assert.False(t, d.Exists("off"))
	assert.NotNil(t, d.Lookup("turn"))
	assert.Nil(t, d.Lookup("off"))
}

func TestSplitWordsKnownWordPassesThrough(t *testing.T) {
	d := newDB("turn", "on")
	got := lexicon.SplitWords("turn on", d, nil)
	var surfaces []string
	for _, sw := range got {
		surfaces = append(surfaces, sw.Surface)
		assert.Nil(t, sw.Output)
		assert.False(t, sw.Suppressed)
	}
	assert.Equal(t, []string{"turn", "on"}, surfaces)
}

func TestSplitWordsInitialismNoDots(t *testing.T) {
	d := newDB()
	got := lexicon.SplitWords("ABC", d, nil)
	var surfaces []string
	for _, sw := range got {
		surfaces = append(surfaces, sw.Surface)
	}
	assert.Equal(t, []string{"A", "B", "C"}, surfaces)
}

func TestSplitWordsInitialismWithDots(t *testing.T) {
	d := newDB()
	got := lexicon.SplitWords("U.S.A.", d, nil)
	var surfaces []string
	for _, sw := range got {
		surfaces = append(surfaces, sw.Surface)
	}
	assert.Equal(t, []string{"U", "S", "A"}, surfaces)
}

func TestSplitWordsNumberWithEngineCarriesOriginalOutputOnFirstWordOnly(t *testing.T) {
	d := newDB()
	got := lexicon.SplitWords("5", d, numbers.English{})
	if assert.Len(t, got, 1) {
		assert.Equal(t, "five", got[0].Surface)
		if assert.NotNil(t, got[0].Output) {
			assert.Equal(t, "5", *got[0].Output)
		}
		assert.False(t, got[0].Suppressed)
	}
}

func TestSplitWordsMultiWordNumberSuppressesTrailingWords(t *testing.T) {
	d := newDB()
	got := lexicon.SplitWords("123", d, numbers.English{})
	// "one hundred twenty-three" -> "one", "hundred", "twenty", "three"
	// (hyphens split words)
	if assert.Len(t, got, 4) {
		assert.NotNil(t, got[0].Output)
		assert.Equal(t, "123", *got[0].Output)
		assert.False(t, got[0].Suppressed)
		for _, sw := range got[1:] {
			assert.Nil(t, sw.Output)
			assert.True(t, sw.Suppressed, "word %q after the first must be suppressed", sw.Surface)
		}
	}
}

func TestSplitWordsWithoutEngineFallsBackToBareGuess(t *testing.T) {
	d := newDB()
	got := lexicon.SplitWords("5", d, nil)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "5", got[0].Surface)
		assert.Nil(t, got[0].Output)
	}
}

func TestSplitWordsTokenizesMixedAlphaDigit(t *testing.T) {
	d := newDB()
	got := lexicon.SplitWords("abc123def", d, nil)
	var surfaces []string
	for _, sw := range got {
		surfaces = append(surfaces, sw.Surface)
	}
	assert.Equal(t, []string{"abc", "123", "def"}, surfaces, "each alpha/digit run becomes its own sub-word")
}

func TestSplitWordsUnresolvedTokenIsBareGuess(t *testing.T) {
	d := newDB()
	got := lexicon.SplitWords("xyzzy", d, nil)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "xyzzy", got[0].Surface)
		assert.Nil(t, got[0].Output)
	}
}
