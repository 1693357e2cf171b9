package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/rhasspy-grammar/grammarfst/core/fst"
	"github.com/rhasspy-grammar/grammarfst/core/lexicon"
	"github.com/rhasspy-grammar/grammarfst/internal/toolrunner"
)

// guessMissingPronunciations finds every non-meta word the compiled FST
// uses that the lexicon has no entry for, and, when a G2P model is
// configured, guesses pronunciations for them through the external
// phonetisaurus-style binary (core/lexicon.Guesser), persisting results to
// the on-disk guess cache so a later compile of the same templates never
// re-guesses the same word.
func guessMissingPronunciations(ctx context.Context, cfg Config, logger *slog.Logger, lex *lexicon.Database, words map[string]struct{}) (map[string][][]string, error) {
	if cfg.G2PModelPath == "" {
		return nil, nil
	}

	var missing []string
	for w := range words {
		if fst.IsMeta(w) {
			continue
		}
		if !lex.Exists(w) {
			missing = append(missing, w)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}
	sort.Strings(missing)

	cache, err := lexicon.OpenGuessCache(cfg.GuessCachePath)
	if err != nil {
		return nil, err
	}
	guesser := &lexicon.Guesser{
		Runner:    toolrunner.NewExec(logger),
		Cache:     cache,
		BinPath:   cfg.PhonetisaurusBin,
		ModelPath: cfg.G2PModelPath,
	}
	guessed, err := guesser.Guess(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("guessing pronunciations: %w", err)
	}
	if err := cache.Flush(); err != nil {
		return nil, fmt.Errorf("flushing guess cache: %w", err)
	}
	return guessed, nil
}

// writeLexiconReport writes a CMU-dict-style "word phone phone ..." line
// per guessed pronunciation, sorted by word, for downstream ASR tooling to
// pick up.
func writeLexiconReport(path string, guessed map[string][][]string) error {
	w, closeW, err := openOut(path)
	if err != nil {
		return err
	}
	defer closeW()

	bw := bufio.NewWriter(w)
	words := make([]string, 0, len(guessed))
	for word := range guessed {
		words = append(words, word)
	}
	sort.Strings(words)
	for _, word := range words {
		for _, pron := range guessed[word] {
			fmt.Fprintf(bw, "%s %s\n", word, strings.Join(pron, " "))
		}
	}
	return bw.Flush()
}
