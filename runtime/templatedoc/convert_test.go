package templatedoc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhasspy-grammar/grammarfst/core/grammar"
	"github.com/rhasspy-grammar/grammarfst/runtime/templatedoc"
)

func TestToIntentGroupsOneGroupPerSentence(t *testing.T) {
	yaml := `
sentences:
  - "turn on the light"
  - "turn off the light"
lists:
  rooms:
    values:
      - in: "kitchen"
`
	doc, err := templatedoc.Load("doc.yaml", strings.NewReader(yaml))
	require.NoError(t, err)

	groups, err := doc.ToIntentGroups("lights")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.Equal(t, "lights", g.Intent)
		assert.Len(t, g.Sentences, 1)
		assert.Contains(t, g.SlotLists, "rooms")
	}
}

func TestToIntentGroupsSentenceOutputOverridesDocumentMetadata(t *testing.T) {
	yaml := `
sentences:
  - in: "set timer to {duration}"
    out: "timer:{duration}"
metadata:
  output: "default template"
`
	doc, err := templatedoc.Load("doc.yaml", strings.NewReader(yaml))
	require.NoError(t, err)

	groups, err := doc.ToIntentGroups("timers")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "timer:{duration}", groups[0].Output)
}

func TestToIntentGroupsFallsBackToDocumentMetadataOutput(t *testing.T) {
	yaml := `
sentences:
  - "set timer"
metadata:
  output: "default template"
`
	doc, err := templatedoc.Load("doc.yaml", strings.NewReader(yaml))
	require.NoError(t, err)

	groups, err := doc.ToIntentGroups("timers")
	require.NoError(t, err)
	assert.Equal(t, "default template", groups[0].Output)
}

func TestToIntentGroupsRangeList(t *testing.T) {
	yaml := `
sentences:
  - "channel {n}"
lists:
  n:
    range: {from: 1, to: 3}
`
	doc, err := templatedoc.Load("doc.yaml", strings.NewReader(yaml))
	require.NoError(t, err)

	groups, err := doc.ToIntentGroups("channels")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	rl, ok := groups[0].SlotLists["n"].(grammar.RangeSlotList)
	require.True(t, ok)
	assert.Equal(t, grammar.RangeSlotList{Start: 1, Stop: 3, Step: 1}, rl)
}

func TestToIntentGroupsSentenceContextOverridesDocumentContext(t *testing.T) {
	yaml := `
requires_context: {floor: ground}
sentences:
  - in: "turn on the light"
    requires_context: {floor: upstairs}
  - "turn off the light"
`
	doc, err := templatedoc.Load("doc.yaml", strings.NewReader(yaml))
	require.NoError(t, err)

	groups, err := doc.ToIntentGroups("lights")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, map[string]any{"floor": "upstairs"}, groups[0].RequiresContext)
	assert.Equal(t, map[string]any{"floor": "ground"}, groups[1].RequiresContext)
}
