// Package lexicon implements the pronunciation database and the word
// splitter that breaks a raw token into sub-words aligned to lexicon
// entries, grounded on speech_to_phrase's g2p.py LexiconDatabase and
// split_words.
package lexicon

import (
	"regexp"
	"strings"

	"github.com/rhasspy-grammar/grammarfst/core/numbers"
)

// Database is an in-memory, case-variation-aware pronunciation lexicon. It
// satisfies core/grammar.Lexicon. The zero value is not usable; use
// NewDatabase.
type Database struct {
	entries map[string][][]string
}

// NewDatabase creates an empty Database.
func NewDatabase() *Database {
	return &Database{entries: make(map[string][][]string)}
}

// Add appends pronunciations for word (does not replace existing ones).
func (d *Database) Add(word string, pronunciations [][]string) {
	d.entries[word] = append(d.entries[word], pronunciations...)
}

// wordVariations yields word, then its lower-case, case-folded, and
// upper-case forms, skipping any that equal a form already yielded — the
// lookup order the original pronunciation database uses.
func wordVariations(word string) []string {
	variations := []string{word}
	lower := strings.ToLower(word)
	if lower != word {
		variations = append(variations, lower)
	}
	folded := strings.ToLower(strings.ToUpper(word)) // approximates Unicode casefold without an x/text dependency
	if folded != lower {
		variations = append(variations, folded)
	}
	upper := strings.ToUpper(word)
	if upper != word {
		variations = append(variations, upper)
	}
	return variations
}

// Exists reports whether any case variation of word has pronunciations.
func (d *Database) Exists(word string) bool {
	for _, v := range wordVariations(word) {
		if _, ok := d.entries[v]; ok {
			return true
		}
	}
	return false
}

// Lookup returns the pronunciations known for word, trying case variations
// in order and stopping at the first variation with any entries.
func (d *Database) Lookup(word string) [][]string {
	for _, v := range wordVariations(word) {
		if p, ok := d.entries[v]; ok {
			return p
		}
	}
	return nil
}

var (
	numberSplitRe    = regexp.MustCompile(`\d+(?:\.\d+)?`)
	initialismNoDots = regexp.MustCompile(`^[\p{Lu}]{2,}$`)
	initialismDots   = regexp.MustCompile(`^(?:\p{L}\.){2,}$`)
	numberRe         = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// existsChecker is the subset of grammar.Lexicon that word splitting needs.
type existsChecker interface {
	Exists(word string) bool
}

// SubWord is one piece of a split token: Surface is what the compiler
// treats as the spoken word; Output, when non-nil, is the text that should
// replace Surface in the decoded transcript (used so a multi-word number
// expansion reconstructs to its original digits). Suppressed marks a
// sub-word that must never contribute its own surface to the output side —
// set on every word of a number expansion after the first, so the decoded
// transcript carries the original digits exactly once.
type SubWord struct {
	Surface    string
	Output     *string
	Suppressed bool
}

// SplitWords splits whitespace-separated text into lexicon-alignable
// sub-words. Whole tokens already in the lexicon pass through unchanged;
// otherwise a token is split on digit/alpha boundaries ("abc123" ->
// "abc", "123") and each piece is classified: known-in-lexicon, initialism
// (spelled out letter by letter), or numeric (expanded through engine, when
// non-nil, into word sequences whose first word carries the original digits
// as Output). Anything else is returned as a bare guess for the caller to
// resolve via G2P.
func SplitWords(text string, lex existsChecker, engine numbers.Engine) []SubWord {
	var out []SubWord
	for _, word := range strings.Fields(text) {
		if lex.Exists(word) {
			out = append(out, SubWord{Surface: word})
			continue
		}
		for _, piece := range tokenizeOnDigits(word) {
			out = append(out, classifyToken(piece, lex, engine)...)
		}
	}
	return out
}

// tokenizeOnDigits splits word into alternating non-digit and numeric runs,
// e.g. "abc123def" -> ["abc", "123", "def"], preserving order.
func tokenizeOnDigits(word string) []string {
	idx := numberSplitRe.FindAllStringIndex(word, -1)
	if idx == nil {
		return []string{word}
	}
	var out []string
	last := 0
	for _, pair := range idx {
		if pair[0] > last {
			out = append(out, word[last:pair[0]])
		}
		out = append(out, word[pair[0]:pair[1]])
		last = pair[1]
	}
	if last < len(word) {
		out = append(out, word[last:])
	}
	return out
}

func classifyToken(sub string, lex existsChecker, engine numbers.Engine) []SubWord {
	if sub == "" {
		return nil
	}

	if lex.Exists(sub) {
		return []SubWord{{Surface: sub}}
	}

	if initialismNoDots.MatchString(sub) {
		out := make([]SubWord, 0, len(sub))
		for _, r := range sub {
			out = append(out, SubWord{Surface: string(r)})
		}
		return out
	}

	if initialismDots.MatchString(sub) {
		var out []SubWord
		for _, r := range sub {
			if r == '.' {
				continue
			}
			out = append(out, SubWord{Surface: string(r)})
		}
		return out
	}

	if numberRe.MatchString(sub) && engine != nil {
		words, err := engine.FormatNumber(sub, numbers.RulesetCardinal)
		if err == nil {
			numberWords := strings.Fields(strings.ReplaceAll(words, "-", " "))
			out := make([]SubWord, 0, len(numberWords))
			for i, w := range numberWords {
				if i == 0 {
					orig := sub
					out = append(out, SubWord{Surface: w, Output: &orig})
				} else {
					out = append(out, SubWord{Surface: w, Suppressed: true})
				}
			}
			return out
		}
	}

	// Unresolvable here; caller guesses pronunciations via G2P.
	return []SubWord{{Surface: sub}}
}
