package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rhasspy-grammar/grammarfst/core/expr"
)

// TestExhaustiveSwitchCoversEveryVariant guards the tagged-union contract
// every switch over expr.Expression relies on: each variant in this list
// must be matched by its own case of the switch below. A variant missing
// from the list is not checked.
func TestExhaustiveSwitchCoversEveryVariant(t *testing.T) {
	variants := []expr.Expression{
		expr.TextChunk{OriginalText: "turn on"},
		expr.Group{Items: []expr.Expression{expr.TextChunk{OriginalText: "a"}}},
		expr.Alternative{Items: []expr.Expression{expr.TextChunk{OriginalText: "a"}}, Optional: true},
		expr.ListRef{ListName: "rooms", SlotName: "room"},
		expr.RuleRef{RuleName: "toggle"},
	}

	for _, v := range variants {
		switch v.(type) {
		case expr.TextChunk, expr.Group, expr.Alternative, expr.ListRef, expr.RuleRef:
			// recognized
		default:
			t.Fatalf("unrecognized expression variant %T", v)
		}
	}
}

func TestListRefSlotNameDefaultsToListNameAtCallSite(t *testing.T) {
	// ListRef itself does not default SlotName; that is the compiler's job
	// (see core/compile.compileListRef). Verify the zero value stays empty
	// so callers cannot accidentally assume otherwise.
	l := expr.ListRef{ListName: "rooms"}
	assert.Empty(t, l.SlotName)
}

func TestAlternativeOptionalFlag(t *testing.T) {
	a := expr.Alternative{Items: nil, Optional: true}
	assert.True(t, a.Optional)
	assert.Empty(t, a.Items)
}
