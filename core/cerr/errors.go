// Package cerr collects the typed error kinds callers need to distinguish
// via errors.As, matching the error taxonomy this repository's compiler and
// resolver surface: shape problems in a template document, unresolved rule
// and list references, grammars that expand to nothing, and rejected fuzzy
// decodes. Internal programmer errors (symbol invariant violations) are not
// here — those panic through core/invariant, because they are never
// user-facing.
package cerr

import "fmt"

// TemplateShapeError is a malformed template document: a missing
// "sentences" key, an unterminated "(" alternative, a "{" list reference
// without a matching "}", and similar parse-time shape problems.
type TemplateShapeError struct {
	File    string
	Line    int
	Message string
}

func (e *TemplateShapeError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: template shape error: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("template shape error: %s", e.Message)
}

// UnknownRuleError means a <rule_name> reference could not be resolved
// against either the owning data group's or the grammar's expansion rules.
// It is fatal for the compilation that raised it.
type UnknownRuleError struct {
	RuleName    string
	Suggestions []string // near-miss candidates, ranked
}

func (e *UnknownRuleError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("unknown rule <%s> (did you mean: %v?)", e.RuleName, e.Suggestions)
	}
	return fmt.Sprintf("unknown rule <%s>", e.RuleName)
}

// UnknownListError means a {list_name} reference could not be resolved.
// It is non-fatal: the compiler emits a placeholder arc and prune() removes
// it unless something downstream keeps it reachable.
type UnknownListError struct {
	ListName    string
	Suggestions []string
}

func (e *UnknownListError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("unknown list {%s} (did you mean: %v?)", e.ListName, e.Suggestions)
	}
	return fmt.Sprintf("unknown list {%s}", e.ListName)
}

// RuleCycleError reports a cycle found while inlining <rule_name>
// references; the source doesn't specify cycle semantics, so this
// implementation bounds recursion and fails explicitly rather than looping.
type RuleCycleError struct {
	Cycle []string
}

func (e *RuleCycleError) Error() string {
	return fmt.Sprintf("rule expansion cycle: %v", e.Cycle)
}

// EmptyExpansionError means every value of a slot list was filtered out by
// its context predicate; the caller treats the expression as a dead branch
// and prunes it.
type EmptyExpansionError struct {
	ListName string
}

func (e *EmptyExpansionError) Error() string {
	return fmt.Sprintf("empty expansion: every value of {%s} was excluded by context filtering", e.ListName)
}

// EmptyGrammarError means pruning removed every accepting path from the
// compiled FST.
type EmptyGrammarError struct{}

func (e *EmptyGrammarError) Error() string {
	return "grammar compiled to an empty FST (no accepting path survived pruning)"
}

// DecodeRejected is not an error in the Go sense (callers are expected to
// treat it as "return an empty transcript", not surface a failure) but is
// named here so call sites document the branch explicitly.
type DecodeRejected struct {
	Cost      float64
	Threshold float64
}

func (e *DecodeRejected) Error() string {
	return fmt.Sprintf("fuzzy decode rejected: cost %.3f exceeds threshold %.3f", e.Cost, e.Threshold)
}
