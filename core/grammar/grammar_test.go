package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rhasspy-grammar/grammarfst/core/expr"
	"github.com/rhasspy-grammar/grammarfst/core/grammar"
)

func TestSlotListTaggedUnion(t *testing.T) {
	var lists []grammar.SlotList
	lists = append(lists, grammar.TextSlotList{Values: []grammar.SlotValue{{TextIn: expr.TextChunk{OriginalText: "kitchen"}}}})
	lists = append(lists, grammar.RangeSlotList{Start: 1, Stop: 10, Step: 1})

	for _, l := range lists {
		switch v := l.(type) {
		case grammar.TextSlotList:
			assert.Len(t, v.Values, 1)
		case grammar.RangeSlotList:
			assert.Equal(t, 1, v.Step)
		default:
			t.Fatalf("unrecognized slot list variant %T", l)
		}
	}
}

func TestIntentDataDefaultsToAlwaysMatch(t *testing.T) {
	data := grammar.IntentData{Intent: "set_timer"}
	assert.Nil(t, data.RequiresContext)
	assert.Nil(t, data.ExcludesContext)
	assert.Empty(t, data.Output)
}

func TestSlotValueOutputOverrideIsOptional(t *testing.T) {
	plain := grammar.SlotValue{TextIn: expr.TextChunk{OriginalText: "kitchen"}}
	assert.Nil(t, plain.ValueOut)

	override := "the kitchen"
	overridden := grammar.SlotValue{TextIn: expr.TextChunk{OriginalText: "kitchen"}, ValueOut: &override}
	assert.Equal(t, "the kitchen", *overridden.ValueOut)
}
