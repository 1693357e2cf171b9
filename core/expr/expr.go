// Package expr is the in-memory, immutable representation of template
// expressions: text chunks, groups, alternatives, and references to named
// lists or expansion rules.
//
// Expression is a tagged union: every concrete node implements the marker
// method expr(), which is unexported so no type outside this package can
// satisfy the interface. core/compile switches exhaustively over the
// concrete types; adding a new variant here forces a compile error at every
// switch site that is missing a case (when that switch has a default that
// panics via invariant, as core/compile's does).
package expr

// Expression is any node in a template's expansion tree.
type Expression interface {
	expr()
}

// TextChunk is literal text. Leading/trailing whitespace is significant: it
// denotes word boundaries and is materialized as <space> arcs during
// compilation.
type TextChunk struct {
	OriginalText string
}

func (TextChunk) expr() {}

// Group is a concatenation of children, compiled in sequence.
type Group struct {
	Items []Expression
}

func (Group) expr() {}

// Alternative matches any one of Items. When Optional is set, compilation
// additionally adds a free epsilon transition around the whole alternative.
type Alternative struct {
	Items    []Expression
	Optional bool
}

func (Alternative) expr() {}

// ListRef references a named value set ("{list_name}" or "{list_name:slot}"
// in template text). SlotName, when non-empty, is the output key used to
// report the matched value instead of ListName.
type ListRef struct {
	ListName string
	SlotName string
}

func (ListRef) expr() {}

// RuleRef references a named expansion rule ("<rule_name>" in template
// text), resolved and inlined at compile time.
type RuleRef struct {
	RuleName string
}

func (RuleRef) expr() {}
