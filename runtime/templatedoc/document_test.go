package templatedoc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhasspy-grammar/grammarfst/core/cerr"
	"github.com/rhasspy-grammar/grammarfst/runtime/templatedoc"
)

func TestLoadParsesSentencesListsAndRules(t *testing.T) {
	yaml := `
sentences:
  - "turn (on|off) the light"
  - in: "set timer to {duration}"
    out: "{duration}"
lists:
  duration:
    values:
      - in: "five minutes"
        out: "5m"
expansion_rules:
  toggle: "(on|off)"
`
	doc, err := templatedoc.Load("doc.yaml", strings.NewReader(yaml))
	require.NoError(t, err)
	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, []string{"turn (on|off) the light"}, doc.Sentences[0].In)
	assert.Equal(t, []string{"set timer to {duration}"}, doc.Sentences[1].In)
	assert.Equal(t, "{duration}", doc.Sentences[1].Out)
	require.Contains(t, doc.Lists, "duration")
	require.Contains(t, doc.ExpansionRules, "toggle")
}

func TestLoadAcceptsSentenceInAsList(t *testing.T) {
	yaml := `
sentences:
  - in: ["turn on the light", "switch on the light"]
`
	doc, err := templatedoc.Load("doc.yaml", strings.NewReader(yaml))
	require.NoError(t, err)
	require.Len(t, doc.Sentences, 1)
	assert.Equal(t, []string{"turn on the light", "switch on the light"}, doc.Sentences[0].In)
}

func TestLoadRejectsMissingSentences(t *testing.T) {
	_, err := templatedoc.Load("doc.yaml", strings.NewReader("lists: {}\n"))
	require.Error(t, err)
	var shapeErr *cerr.TemplateShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestLoadRejectsUnknownTopLevelKey(t *testing.T) {
	yaml := "sentences: [\"hi\"]\nbogus: true\n"
	_, err := templatedoc.Load("doc.yaml", strings.NewReader(yaml))
	assert.Error(t, err)
}

func TestLoadAcceptsMatchingSchemaVersionMajor(t *testing.T) {
	yaml := "schema_version: v1.2.0\nsentences: [\"hi\"]\n"
	_, err := templatedoc.Load("doc.yaml", strings.NewReader(yaml))
	assert.NoError(t, err)
}

func TestLoadRejectsMismatchedSchemaVersionMajor(t *testing.T) {
	yaml := "schema_version: v2.0.0\nsentences: [\"hi\"]\n"
	_, err := templatedoc.Load("doc.yaml", strings.NewReader(yaml))
	require.Error(t, err)
	var shapeErr *cerr.TemplateShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	_, err := templatedoc.Load("doc.yaml", strings.NewReader("sentences: [unterminated\n"))
	assert.Error(t, err)
}
