// Package nbest resolves a decoder's N-best hypotheses against a fuzzy FST:
// build a linear FST from the ranked hypotheses, compose it (via an
// external OpenFst-style pipeline) against the fuzzy FST, and extract the
// cheapest accepting path's decoded text and cost. Grounded on
// speech_to_phrase/transcribe.py's _get_fuzzy_text.
package nbest

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/rhasspy-grammar/grammarfst/core/cerr"
	"github.com/rhasspy-grammar/grammarfst/core/fst"
	"github.com/rhasspy-grammar/grammarfst/core/meta"
	"github.com/rhasspy-grammar/grammarfst/internal/toolrunner"
)

// NBestPenalty is the per-rank weight added to a hypothesis's linear FST so
// that, all else equal, a higher-ranked (cheaper, more acoustically
// plausible) hypothesis is preferred by the subsequent shortest-path
// search.
const NBestPenalty = 0.1

// DefaultMaxFuzzyCost is the fuzzy-cost threshold above which Resolve
// reports no match, per spec's "default 2.0 ... 3.0" guidance; callers with
// a stricter or looser tolerance set Resolver.MaxFuzzyCost explicitly.
const DefaultMaxFuzzyCost = 2.0

// Hypothesis is one decoder N-best line: an utterance id ("utt-<n>") and
// its word sequence, already remapped from symbol ids to words.
type Hypothesis struct {
	Utt   string
	Words []string
}

// ParseNBest reads newline-delimited "utt-id w1 w2 ..." records. Blank
// lines are skipped. This is tolerant of already-decoded hypothesis lines
// (no acoustic-scale column) the same way transcribe.py's lattice-to-nbest
// parsing is, rather than only the bare format spec.md's §6 describes.
func ParseNBest(r *bufio.Scanner) ([]Hypothesis, error) {
	var hyps []Hypothesis
	for r.Scan() {
		line := strings.TrimSpace(r.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		hyps = append(hyps, Hypothesis{Utt: fields[0], Words: fields[1:]})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("nbest: scanning hypotheses: %w", err)
	}
	return hyps, nil
}

// BuildLinear builds one accepting chain per hypothesis, all sharing the
// same start state, each chain's first arc carrying the hypothesis's full
// rank-indexed penalty (rank*NBestPenalty) so a path through it inherits
// that cost exactly once.
func BuildLinear(hyps []Hypothesis) *fst.FST {
	f := fst.New()
	for rank, h := range hyps {
		state := f.Start
		penalty := float64(rank) * NBestPenalty
		first := true
		for _, w := range h.Words {
			var weight *float64
			if first {
				v := penalty
				weight = &v
				first = false
			}
			state = f.NextEdge(state, w, w, weight)
		}
		if first {
			// Empty hypothesis: the penalty has nowhere to attach but the
			// chain itself, so mark start final directly.
			f.Accept(f.Start)
			continue
		}
		f.Accept(state)
	}
	return f
}

// Resolver composes N-best hypotheses against a pre-built fuzzy FST through
// an external tool pipeline.
type Resolver struct {
	Runner toolrunner.Runner
	Logger *slog.Logger

	// FuzzyFSTPath and SymbolsPath name the on-disk fuzzy FST and output
	// symbol table the external pipeline reads; this package never writes
	// them itself (that is the caller's compile-time responsibility).
	FuzzyFSTPath string
	SymbolsPath  string

	// MaxFuzzyCost is the rejection threshold; zero means DefaultMaxFuzzyCost.
	MaxFuzzyCost float64
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Resolver) threshold() float64 {
	if r.MaxFuzzyCost > 0 {
		return r.MaxFuzzyCost
	}
	return DefaultMaxFuzzyCost
}

// Resolve builds the linear FST for hyps, composes it against the fuzzy
// FST, and returns the decoded text and its cost. ok is false when no
// accepting path exists ("out of vocabulary") or the cheapest path's cost
// exceeds the threshold (DecodeRejected, logged, not returned as an error).
func (r *Resolver) Resolve(ctx context.Context, hyps []Hypothesis) (text string, cost float64, ok bool, err error) {
	linear := BuildLinear(hyps)
	var buf bytes.Buffer
	if werr := linear.Write(&buf); werr != nil {
		return "", 0, false, fmt.Errorf("nbest: writing linear fst: %w", werr)
	}

	stages := [][]string{
		{"fstcompile"},
		{"fstcompose", "-", r.FuzzyFSTPath},
		{"fstshortestpath"},
		{"fstrmepsilon"},
		{"fsttopsort"},
		{"fstproject", "--project_type=output"},
		{"fstprint", "--osymbols=" + r.SymbolsPath},
	}
	out, err := r.Runner.RunPipeline(ctx, stages, buf.Bytes())
	if err != nil {
		return "", 0, false, fmt.Errorf("nbest: tool pipeline: %w", err)
	}

	words, pathCost, found := parsePrintedPath(out)
	if !found {
		return "", 0, false, nil
	}

	decoded, derr := meta.DecodeMeta(strings.Join(words, " "))
	if derr != nil {
		return "", 0, false, fmt.Errorf("nbest: decoding meta output: %w", derr)
	}

	if pathCost > r.threshold() {
		rejected := &cerr.DecodeRejected{Cost: pathCost, Threshold: r.threshold()}
		r.logger().Warn("nbest: rejecting fuzzy match", "error", rejected)
		return "", pathCost, false, nil
	}
	return decoded, pathCost, true, nil
}

// parsePrintedPath reads fstprint's text output (lines "from to ilabel
// olabel [weight]" plus trailing final-state lines) and reconstructs the
// path's output labels in state order, summing every arc's weight into a
// total cost. found is false when the pipeline produced no arcs at all,
// meaning no hypothesis matched the grammar.
func parsePrintedPath(data []byte) (words []string, cost float64, found bool) {
	type arcLine struct {
		from   int
		output string
		weight float64
	}
	var arcs []arcLine

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		switch len(fields) {
		case 0:
			continue
		case 1, 2:
			continue // final-state line, bare or with a final weight (not added to cost)
		default:
			from, err := strconv.Atoi(fields[0])
			if err != nil {
				continue
			}
			weight := 0.0
			if len(fields) >= 5 {
				weight, _ = strconv.ParseFloat(fields[4], 64)
			}
			arcs = append(arcs, arcLine{from: from, output: fields[3], weight: weight})
		}
	}
	if len(arcs) == 0 {
		return nil, 0, false
	}

	sort.SliceStable(arcs, func(i, j int) bool { return arcs[i].from < arcs[j].from })
	for _, a := range arcs {
		if a.output != fst.Eps {
			words = append(words, a.output)
		}
		cost += a.weight
	}
	return words, cost, true
}
