package lexicon

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// guessEntry is the on-disk record for one G2P-guessed word.
type guessEntry struct {
	Word          string     `cbor:"word"`
	Pronunciation [][]string `cbor:"pronunciation"`
}

// GuessCache persists G2P pronunciation guesses across compiles, keyed by
// blake2b(word), so the same unknown word never has to be re-guessed by the
// external phonetisaurus-style binary. This has no equivalent in the
// original Python source (its LexiconDatabase caches in-process only); it
// exists here to give fxamacker/cbor and golang.org/x/crypto/blake2b a home.
type GuessCache struct {
	path    string
	entries map[string]guessEntry
}

// OpenGuessCache loads a cache file if it exists, or starts a fresh one.
func OpenGuessCache(path string) (*GuessCache, error) {
	c := &GuessCache{path: path, entries: make(map[string]guessEntry)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lexicon: open guess cache: %w", err)
	}
	var records []guessEntry
	if err := cbor.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("lexicon: decode guess cache: %w", err)
	}
	for _, r := range records {
		c.entries[cacheKey(r.Word)] = r
	}
	return c, nil
}

func cacheKey(word string) string {
	sum := blake2b.Sum256([]byte(word))
	return hex.EncodeToString(sum[:])
}

// Get returns a previously-guessed pronunciation for word, if cached.
func (c *GuessCache) Get(word string) ([][]string, bool) {
	e, ok := c.entries[cacheKey(word)]
	if !ok {
		return nil, false
	}
	return e.Pronunciation, true
}

// Put records a guessed pronunciation for word.
func (c *GuessCache) Put(word string, pronunciation [][]string) {
	c.entries[cacheKey(word)] = guessEntry{Word: word, Pronunciation: pronunciation}
}

// Flush writes the cache back to disk as a CBOR array of entries.
func (c *GuessCache) Flush() error {
	records := make([]guessEntry, 0, len(c.entries))
	for _, e := range c.entries {
		records = append(records, e)
	}
	data, err := cbor.Marshal(records)
	if err != nil {
		return fmt.Errorf("lexicon: encode guess cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("lexicon: write guess cache: %w", err)
	}
	return nil
}
