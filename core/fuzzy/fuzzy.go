// Package fuzzy builds the permissive "fuzzy" FST a decoder's noisy N-best
// hypotheses are composed against: every state of the strict compiled
// grammar gains a free epsilon self-loop and a self-loop per grammar word
// that consumes the word and produces nothing, at a fixed penalty. Grounded
// on speech_to_phrase/train.py's _create_fuzzy_fst.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/rhasspy-grammar/grammarfst/core/fst"
)

// FreeReentryWeight is the cost of the unconditional <eps>:<eps> self-loop
// every state gains.
const FreeReentryWeight = 0.0

// WordDeletionWeight is the cost of consuming one grammar word without
// producing any output, i.e. treating it as noise in the hypothesis.
const WordDeletionWeight = 1.0

// Build copies f (preserving every state, arc, and final marking) and adds,
// to every copied state, a free <eps>:<eps> self-loop plus a w:<eps>
// self-loop for every word in f.Words that is not itself a reserved or
// meta symbol (anything starting with "<" or "_"). The result tolerates
// hypotheses containing extra words the grammar never mentions, at
// WordDeletionWeight per deleted word.
func Build(f *fst.FST) *fst.FST {
	out := fst.New()
	mapped := map[int]int{f.Start: out.Start}
	stateFor := func(old int) int {
		if ns, ok := mapped[old]; ok {
			return ns
		}
		ns := out.NewState()
		mapped[old] = ns
		return ns
	}

	for _, s := range f.States() {
		ns := stateFor(s)
		if f.IsFinal(s) {
			out.Accept(ns)
		}
	}
	for _, s := range f.States() {
		ns := stateFor(s)
		for _, a := range f.Arcs(s) {
			to := stateFor(a.To)
			out.AddArc(ns, to, a.In, a.Out, a.Weight)
		}
	}

	words := make([]string, 0, len(f.Words))
	for w := range f.Words {
		if strings.HasPrefix(w, "<") || strings.HasPrefix(w, "_") {
			continue
		}
		words = append(words, w)
	}
	sort.Strings(words)

	for _, s := range f.States() {
		ns := stateFor(s)
		reentry := FreeReentryWeight
		out.AddArc(ns, ns, fst.Eps, fst.Eps, &reentry)
		for _, w := range words {
			deletion := WordDeletionWeight
			out.AddArc(ns, ns, w, fst.Eps, &deletion)
		}
	}
	return out
}
