// Package resolve implements scope-aware lookup of named lists and
// expansion rules, context-based filtering of slot-list values, and
// rule-expansion cycle detection, grounded on the teacher's
// runtime/validation recursion-detection DFS and on hassil_fst.py's context
// matching rules.
package resolve

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/rhasspy-grammar/grammarfst/core/cerr"
	"github.com/rhasspy-grammar/grammarfst/core/expr"
	"github.com/rhasspy-grammar/grammarfst/core/grammar"
)

// Resolver looks up named lists and expansion rules with the precedence
// spec.md §4.C defines: for lists, an explicit caller-supplied map first,
// then the owning IntentData, then the cross-group Intents; for rules, the
// same minus the caller map (rules are never supplied by the caller).
type Resolver struct {
	Intents     *grammar.Intents
	CallerLists map[string]grammar.SlotList
}

// New creates a Resolver over intents, with an optional caller-supplied
// list override map (nil is fine).
func New(intents *grammar.Intents, callerLists map[string]grammar.SlotList) *Resolver {
	return &Resolver{Intents: intents, CallerLists: callerLists}
}

// ResolveList finds a named slot list, honoring the caller > data-group >
// grammar precedence.
func (r *Resolver) ResolveList(name string, data *grammar.IntentData) (grammar.SlotList, bool) {
	if r.CallerLists != nil {
		if l, ok := r.CallerLists[name]; ok {
			return l, true
		}
	}
	if data != nil && data.SlotLists != nil {
		if l, ok := data.SlotLists[name]; ok {
			return l, true
		}
	}
	if r.Intents != nil && r.Intents.SlotLists != nil {
		if l, ok := r.Intents.SlotLists[name]; ok {
			return l, true
		}
	}
	return nil, false
}

// ResolveRule finds a named expansion rule, honoring the data-group >
// grammar precedence.
func (r *Resolver) ResolveRule(name string, data *grammar.IntentData) (expr.Expression, bool) {
	if data != nil && data.ExpansionRules != nil {
		if e, ok := data.ExpansionRules[name]; ok {
			return e, true
		}
	}
	if r.Intents != nil && r.Intents.ExpansionRules != nil {
		if e, ok := r.Intents.ExpansionRules[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// UnknownRuleErr builds an UnknownRuleError with fuzzy-ranked suggestions
// drawn from every rule name known across data and the grammar.
func (r *Resolver) UnknownRuleErr(name string, data *grammar.IntentData) *cerr.UnknownRuleError {
	var candidates []string
	if data != nil {
		for n := range data.ExpansionRules {
			candidates = append(candidates, n)
		}
	}
	if r.Intents != nil {
		for n := range r.Intents.ExpansionRules {
			candidates = append(candidates, n)
		}
	}
	return &cerr.UnknownRuleError{RuleName: name, Suggestions: rank(name, candidates)}
}

// UnknownListErr builds an UnknownListError with fuzzy-ranked suggestions.
func (r *Resolver) UnknownListErr(name string, data *grammar.IntentData) *cerr.UnknownListError {
	var candidates []string
	if data != nil {
		for n := range data.SlotLists {
			candidates = append(candidates, n)
		}
	}
	if r.Intents != nil {
		for n := range r.Intents.SlotLists {
			candidates = append(candidates, n)
		}
	}
	for n := range r.CallerLists {
		candidates = append(candidates, n)
	}
	return &cerr.UnknownListError{ListName: name, Suggestions: rank(name, candidates)}
}

// rank returns up to three candidates ranked by closeness to name (nearest
// Levenshtein edit distance first), skipping exact self-matches.
func rank(name string, candidates []string) []string {
	var ranks fuzzy.Ranks
	for _, c := range candidates {
		if c != name {
			ranks = append(ranks, fuzzy.Rank{Source: name, Target: c, Distance: fuzzy.LevenshteinDistance(name, c)})
		}
	}
	sort.Sort(ranks)

	var out []string
	for i, r := range ranks {
		if i >= 3 {
			break
		}
		out = append(out, r.Target)
	}
	return out
}

// DetectRuleCycles walks every expansion rule reachable from data and the
// grammar's cross-group rules, failing with a RuleCycleError the first time
// a RuleRef chain revisits a rule it is already expanding. This bounds what
// spec.md leaves undefined (the source treats rule cycles as undefined
// behaviour) by failing explicitly instead of recursing forever.
func DetectRuleCycles(r *Resolver, data *grammar.IntentData) error {
	visited := make(map[string]bool)
	for name := range allRuleNames(r, data) {
		if err := detectFrom(r, data, name, nil, make(map[string]bool), visited); err != nil {
			return err
		}
	}
	return nil
}

func allRuleNames(r *Resolver, data *grammar.IntentData) map[string]bool {
	names := make(map[string]bool)
	if data != nil {
		for n := range data.ExpansionRules {
			names[n] = true
		}
	}
	if r.Intents != nil {
		for n := range r.Intents.ExpansionRules {
			names[n] = true
		}
	}
	return names
}

func detectFrom(r *Resolver, data *grammar.IntentData, name string, path []string, visiting map[string]bool, fullyChecked map[string]bool) error {
	if fullyChecked[name] {
		return nil
	}
	if visiting[name] {
		cycleStart := 0
		for i, p := range path {
			if p == name {
				cycleStart = i
				break
			}
		}
		cycle := append(append([]string{}, path[cycleStart:]...), name)
		return &cerr.RuleCycleError{Cycle: cycle}
	}

	body, ok := r.ResolveRule(name, data)
	if !ok {
		// Unresolved rules are reported by the compiler itself when it
		// actually tries to inline them; cycle detection only cares about
		// rules that do exist.
		return nil
	}

	visiting[name] = true
	newPath := append(append([]string{}, path...), name)
	for _, ref := range ruleRefsIn(body) {
		if err := detectFrom(r, data, ref, newPath, visiting, fullyChecked); err != nil {
			return err
		}
	}
	delete(visiting, name)
	fullyChecked[name] = true
	return nil
}

// ruleRefsIn collects every RuleRef name reachable from e without
// inlining anything, used only for cycle detection.
func ruleRefsIn(e expr.Expression) []string {
	var out []string
	var walk func(expr.Expression)
	walk = func(e expr.Expression) {
		switch v := e.(type) {
		case expr.TextChunk:
		case expr.RuleRef:
			out = append(out, v.RuleName)
		case expr.ListRef:
		case expr.Group:
			for _, c := range v.Items {
				walk(c)
			}
		case expr.Alternative:
			for _, c := range v.Items {
				walk(c)
			}
		default:
			panic(fmt.Sprintf("resolve: unhandled expression type %T", e))
		}
	}
	walk(e)
	return out
}

// MatchesContext applies spec.md §4.C's context-filtering rule: a value
// (described by its own context map) is kept when every key of require is
// satisfied (missing keys on the value are permissible) and rejected when
// any key of exclude matches. A required/excluded spec value may be a
// scalar, a {"value": …} wrapper, or a collection tested by membership.
func MatchesContext(valueContext map[string]any, require map[string]any, exclude map[string]any) bool {
	for key, want := range require {
		have, present := valueContext[key]
		if !present {
			continue // missing keys are permissible
		}
		if !contextMatches(have, want) {
			return false
		}
	}
	for key, avoid := range exclude {
		have, present := valueContext[key]
		if !present {
			continue
		}
		if contextMatches(have, avoid) {
			return false
		}
	}
	return true
}

// contextMatches tests have against a requirement/exclusion spec that may
// be a scalar, a {"value": …} wrapper, or a collection (membership test).
func contextMatches(have any, spec any) bool {
	switch s := spec.(type) {
	case map[string]any:
		if wrapped, ok := s["value"]; ok {
			return contextMatches(have, wrapped)
		}
		return false
	case []any:
		for _, item := range s {
			if contextMatches(have, item) {
				return true
			}
		}
		return false
	default:
		return fmt.Sprintf("%v", have) == fmt.Sprintf("%v", spec)
	}
}
