package lexicon_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhasspy-grammar/grammarfst/core/lexicon"
	"github.com/rhasspy-grammar/grammarfst/internal/toolrunner"
)

func TestGuesserGuessesUncachedWordsAndCachesResult(t *testing.T) {
	fake := toolrunner.NewFake()
	fake.On("phonetisaurus", toolrunner.Script{
		Stdout: []byte("widget 0 W IH1 JH IH0 T\n"),
	})
	cache, err := lexicon.OpenGuessCache(filepath.Join(t.TempDir(), "cache.cbor"))
	require.NoError(t, err)

	g := &lexicon.Guesser{
		Runner:    fake,
		Cache:     cache,
		BinPath:   "phonetisaurus",
		ModelPath: "model.fst",
	}

	result, err := g.Guess(context.Background(), []string{"widget"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"W", "IH1", "JH", "IH0", "T"}}, result["widget"])

	cached, ok := cache.Get("widget")
	require.True(t, ok)
	assert.Equal(t, [][]string{{"W", "IH1", "JH", "IH0", "T"}}, cached)
}

func TestGuesserSkipsAlreadyCachedWords(t *testing.T) {
	fake := toolrunner.NewFake()
	cache, err := lexicon.OpenGuessCache(filepath.Join(t.TempDir(), "cache.cbor"))
	require.NoError(t, err)
	cache.Put("widget", [][]string{{"W", "IH1", "JH", "IH0", "T"}})

	g := &lexicon.Guesser{Runner: fake, Cache: cache, BinPath: "phonetisaurus", ModelPath: "model.fst"}

	result, err := g.Guess(context.Background(), []string{"widget"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"W", "IH1", "JH", "IH0", "T"}}, result["widget"])
	assert.Empty(t, fake.Invocations)
}

func TestGuesserPropagatesToolError(t *testing.T) {
	fake := toolrunner.NewFake()
	fake.Default = toolrunner.Script{Err: assert.AnError}
	cache, err := lexicon.OpenGuessCache(filepath.Join(t.TempDir(), "cache.cbor"))
	require.NoError(t, err)

	g := &lexicon.Guesser{Runner: fake, Cache: cache, BinPath: "phonetisaurus", ModelPath: "model.fst"}
	_, err = g.Guess(context.Background(), []string{"widget"})
	assert.Error(t, err)
}
