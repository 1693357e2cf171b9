package lexicon

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rhasspy-grammar/grammarfst/internal/toolrunner"
)

// Guesser invokes an external phonetisaurus-style grapheme-to-phoneme
// binary for words the lexicon has no entry for, caching results in a
// GuessCache so the same unknown word is never re-guessed across compiles.
// Grounded on speech_to_phrase/g2p.py's guess_pronunciations: write the
// words to a temporary wordlist file, run `<bin> --model=<path>
// --wordlist=<file>`, and parse "word pron_index phoneme..." lines.
type Guesser struct {
	Runner    toolrunner.Runner
	Cache     *GuessCache
	BinPath   string
	ModelPath string
}

// Guess resolves pronunciations for every word not already cached, running
// the external G2P binary once for the whole batch, and returns the full
// word -> pronunciations map (cached and freshly guessed).
func (g *Guesser) Guess(ctx context.Context, words []string) (map[string][][]string, error) {
	result := make(map[string][][]string, len(words))
	var pending []string
	for _, w := range words {
		if prons, ok := g.Cache.Get(w); ok {
			result[w] = prons
			continue
		}
		pending = append(pending, w)
	}
	if len(pending) == 0 {
		return result, nil
	}

	wordlist, err := os.CreateTemp("", "grammarfst-g2p-wordlist-*.txt")
	if err != nil {
		return nil, fmt.Errorf("lexicon: creating g2p wordlist: %w", err)
	}
	defer os.Remove(wordlist.Name())
	for _, w := range pending {
		fmt.Fprintln(wordlist, w)
	}
	if err := wordlist.Close(); err != nil {
		return nil, fmt.Errorf("lexicon: writing g2p wordlist: %w", err)
	}

	argv := []string{g.BinPath, "--model=" + g.ModelPath, "--wordlist=" + wordlist.Name()}
	out, err := g.Runner.Run(ctx, argv, nil)
	if err != nil {
		return nil, fmt.Errorf("lexicon: running g2p guesser: %w", err)
	}

	guessed := parseG2POutput(out)
	for _, w := range pending {
		prons := guessed[w]
		g.Cache.Put(w, prons)
		result[w] = prons
	}
	return result, nil
}

// parseG2POutput parses phonetisaurus-style "word rank phoneme phoneme..."
// lines into one accumulated pronunciation list per word, in rank order.
func parseG2POutput(out []byte) map[string][][]string {
	result := make(map[string][][]string)
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		word := fields[0]
		phonemes := fields[2:]
		result[word] = append(result[word], phonemes)
	}
	return result
}
