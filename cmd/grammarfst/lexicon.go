package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rhasspy-grammar/grammarfst/core/lexicon"
)

// loadLexicon reads a CMU-dict-style pronunciation file, one entry per
// line: "word phoneme phoneme ...", with an optional parenthesized
// variant suffix ("word(2) ph ph ...") folded into the same headword, the
// way CMUdict-derived lexicons used by speech_to_phrase's LexiconDatabase
// are distributed. A blank path yields an empty Database, letting the
// compiler's word splitter fall back to initialism/number handling only.
func loadLexicon(path string) (*lexicon.Database, error) {
	db := lexicon.NewDatabase()
	if path == "" {
		return db, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading lexicon %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		word := fields[0]
		if idx := strings.IndexByte(word, '('); idx >= 0 {
			word = word[:idx]
		}
		db.Add(word, [][]string{fields[1:]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading lexicon %s: %w", path, err)
	}
	return db, nil
}
