// Package grammar holds the data model a template document expands into:
// slot lists, per-group and cross-group intent data, the lexicon interface
// the compiler and resolver depend on, and the small records that travel
// through the meta-output codec.
package grammar

import "github.com/rhasspy-grammar/grammarfst/core/expr"

// SlotList is a named set of alternative values referenced from templates
// as "{name}". It is a tagged union of TextSlotList and RangeSlotList.
type SlotList interface {
	slotList()
}

// SlotValue is one entry of a TextSlotList.
type SlotValue struct {
	TextIn   expr.Expression
	ValueOut *string        // output override; nil means "use the spoken text"
	Context  map[string]any // nil means "always matches"
}

// TextSlotList enumerates explicit values, each independently filterable by
// context and independently able to override its output text.
type TextSlotList struct {
	Values []SlotValue
}

func (TextSlotList) slotList() {}

// RangeSlotList is a closed numeric interval [Start, Stop] stepped by Step,
// materialized through a number-to-words engine (core/numbers) into one
// alternative per rendered number, with the decimal string as output.
type RangeSlotList struct {
	Start, Stop, Step int
}

func (RangeSlotList) slotList() {}

// IntentData is one data group: its own slot lists and expansion rules
// (which shadow cross-group ones of the same name), context filters applied
// to the whole group, the sentence expressions it contributes, and an
// optional sentence-level output override template.
type IntentData struct {
	Intent          string // name of the owning intent, for compile-time include/exclude filtering
	Sentences       []expr.Expression
	SlotLists       map[string]SlotList
	ExpansionRules  map[string]expr.Expression
	RequiresContext map[string]any
	ExcludesContext map[string]any
	Output          string // metadata.output template using {slot} placeholders; "" means none
}

// Intents owns cross-group slot lists and expansion rules plus the
// collection of data groups that make up the grammar.
type Intents struct {
	SlotLists      map[string]SlotList
	ExpansionRules map[string]expr.Expression
	Data           []IntentData
}

// Lexicon is the pronunciation database the compiler and word splitter
// consult. Implementations decide storage (in-memory map, sqlite, etc.);
// core/lexicon provides the one this repository ships.
type Lexicon interface {
	// Exists reports whether any case variation of word has pronunciations.
	Exists(word string) bool
	// Lookup returns the pronunciations (one phoneme slice per
	// pronunciation) known for word, trying case variations in order.
	Lookup(word string) [][]string
}

// SlotOutput is the decoded payload of a single __output: token: the
// surface text produced for a slot, and, when the slot came from a named
// list, the list name it was bound to.
type SlotOutput struct {
	Text string
	List string
}
