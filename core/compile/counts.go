package compile

import (
	"github.com/rhasspy-grammar/grammarfst/core/expr"
	"github.com/rhasspy-grammar/grammarfst/core/grammar"
	"github.com/rhasspy-grammar/grammarfst/core/invariant"
	"github.com/rhasspy-grammar/grammarfst/core/resolve"
)

// GetCount returns the number of distinct input strings e would accept once
// compiled, per spec.md §8 testable property 6: a range contributes its
// arithmetic cardinality, an alternative sums its items (plus one for
// "optional"), a group multiplies, and an unresolved rule or list
// contributes zero. It is kept public even though this repository compiles
// unweighted (see SPEC_FULL.md §E.1): callers reconstructing a
// per-sentence-prior weighting scheme need it.
func GetCount(e expr.Expression, r *resolve.Resolver, data *grammar.IntentData) int {
	switch v := e.(type) {
	case expr.TextChunk:
		return 1
	case expr.Group:
		count := 1
		for _, item := range v.Items {
			count *= GetCount(item, r, data)
		}
		return count
	case expr.Alternative:
		count := 0
		for _, item := range v.Items {
			count += GetCount(item, r, data)
		}
		if v.Optional {
			count++
		}
		return count
	case expr.ListRef:
		list, ok := r.ResolveList(v.ListName, data)
		if !ok {
			return 0
		}
		switch sl := list.(type) {
		case grammar.TextSlotList:
			n := 0
			for _, val := range sl.Values {
				if matchesGroupContext(val.Context, data) {
					n++
				}
			}
			return n
		case grammar.RangeSlotList:
			if sl.Step == 0 {
				return 0
			}
			if sl.Step > 0 {
				if sl.Start > sl.Stop {
					return 0
				}
				return (sl.Stop-sl.Start)/sl.Step + 1
			}
			if sl.Start < sl.Stop {
				return 0
			}
			return (sl.Start-sl.Stop)/(-sl.Step) + 1
		default:
			invariant.Precondition(false, "compile: unhandled slot list type %T", list)
			panic("unreachable")
		}
	case expr.RuleRef:
		body, ok := r.ResolveRule(v.RuleName, data)
		if !ok {
			return 0
		}
		return GetCount(body, r, data)
	default:
		invariant.Precondition(false, "compile: unhandled expression type %T", e)
		panic("unreachable")
	}
}

// LCM returns the least common multiple of counts, well-defined for any
// non-empty finite set of positive counts (spec.md §8 testable property 7).
func LCM(counts []int) int {
	invariant.Precondition(len(counts) > 0, "compile: LCM requires at least one count")
	result := counts[0]
	invariant.Precondition(result > 0, "compile: LCM requires positive counts")
	for _, c := range counts[1:] {
		invariant.Precondition(c > 0, "compile: LCM requires positive counts")
		result = lcmPair(result, c)
	}
	return result
}

func lcmPair(a, b int) int {
	return a / gcd(a, b) * b
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
