// Package passes implements the two post-compilation transforms spec.md
// §4.G describes: removing <space> boundary arcs while merging the
// compiler's one-arc-per-word output into the whole-word alphabet the
// downstream language model expects (honoring the output-suppression state
// machine around __begin_output:/__end_output/__sentence_output: tokens),
// and dead-branch pruning. Grounded on hassil_fst.py's remove_spaces and
// prune.
package passes

import (
	"strings"

	"github.com/rhasspy-grammar/grammarfst/core/fst"
)

// WordPenalty is the constant cost attached to every whole-word arc emitted
// by RemoveSpaces, breaking ties in favor of the shortest matching
// hypothesis.
const WordPenalty = 0.03

// RemoveSpaces walks f from its start state and builds a new FST with every
// <space> arc stripped and every run of sub-word arcs it separated merged
// into whole-word arcs carrying WordPenalty.
//
// The walk's simplifying assumption, true of every FST core/compile
// produces: a <space> arc always separates distinct sub-words, so no two
// non-space word arcs are ever adjacent without one between them. That
// means the "accumulated partial word" spec.md's state-machine table
// describes never spans more than a single arc here, and the table
// collapses to: strip space and <space>/meta-structural arcs transparently;
// when a __begin_output:/…/__end_output block is open, remember the most
// recently captured __output: token and attach it (once) to the next
// whole-word arc, after which subsequent words in the same block default to
// epsilon output (already baked in by the compiler's output suppression).
// A state is cached (and reused across converging paths, e.g. an
// Alternative's join state) only at these neutral, no-pending-output
// boundaries, matching the spec's intent that the visited-map lets the walk
// terminate and preserves sharing.
func RemoveSpaces(old *fst.FST) *fst.FST {
	w := &walker{old: old, new: fst.New(), cache: make(map[int]int)}
	w.cache[old.Start] = w.new.Start
	if old.IsFinal(old.Start) {
		w.new.Accept(w.new.Start)
	}
	for _, a := range old.Arcs(old.Start) {
		w.emit(a, w.new.Start, "")
	}
	return w.new
}

type walker struct {
	old   *fst.FST
	new   *fst.FST
	cache map[int]int // old boundary state -> new state
}

// boundary returns the new state for a neutral (no pending output) visit to
// oldState, reusing a cached state when this boundary was already reached.
func (w *walker) boundary(oldState int) int {
	if ns, ok := w.cache[oldState]; ok {
		return ns
	}
	ns := w.new.NewState()
	w.cache[oldState] = ns
	if w.old.IsFinal(oldState) {
		w.new.Accept(ns)
	}
	for _, a := range w.old.Arcs(oldState) {
		w.emit(a, ns, "")
	}
	return ns
}

// emit processes one old arc whose source maps to newFrom in the new FST,
// given pendingMeta: the most recently captured __output: token still
// waiting to be attached to a whole-word arc ("" if none is pending).
func (w *walker) emit(a *fst.Arc, newFrom int, pendingMeta string) {
	// newTo is the new state a.To maps onto; the transparent cases below
	// fold a.To into newFrom.
	newTo := newFrom
	switch {
	case a.In == fst.Space:
		dst := w.boundary(a.To)
		w.new.AddArc(newFrom, dst, fst.Eps, fst.Eps, nil)

	case a.Out == fst.BeginOutput:
		// Enter an output-bearing block: no word or space consumed, and any
		// prior pending token cannot survive across a block boundary.
		for _, next := range w.old.Arcs(a.To) {
			w.emit(next, newFrom, "")
		}

	case a.In == fst.Eps && strings.HasPrefix(a.Out, fst.OutputPrefix):
		for _, next := range w.old.Arcs(a.To) {
			w.emit(next, newFrom, a.Out)
		}

	case a.Out == fst.EndOutput:
		for _, next := range w.old.Arcs(a.To) {
			w.emit(next, newFrom, pendingMeta)
		}

	case strings.HasPrefix(a.Out, fst.SentenceOutputPrefix):
		mid := w.new.NewState()
		newTo = mid
		w.new.AddArc(newFrom, mid, fst.Eps, a.Out, nil)
		for _, next := range w.old.Arcs(a.To) {
			w.emit(next, mid, pendingMeta)
		}

	case a.In == fst.Eps:
		// Plain structural epsilon (an Alternative's join arc, an optional
		// skip, …): transparent, carries pendingMeta through unchanged.
		for _, next := range w.old.Arcs(a.To) {
			w.emit(next, newFrom, pendingMeta)
		}

	default:
		out := a.Out
		nextPending := pendingMeta
		if pendingMeta != "" {
			out = pendingMeta
			nextPending = ""
		}
		weight := WordPenalty
		to := w.new.NewState()
		newTo = to
		w.new.AddArc(newFrom, to, a.In, out, &weight)
		for _, next := range w.old.Arcs(a.To) {
			w.emit(next, to, nextPending)
		}
	}

	// boundary() marks finals reached over <space> arcs; every other arc
	// carries its old destination's finality over to newTo.
	if a.In != fst.Space && w.old.IsFinal(a.To) {
		w.new.Accept(newTo)
	}
}
