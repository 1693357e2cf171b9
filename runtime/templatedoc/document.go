// Package templatedoc ingests a template document (§6 External Interfaces):
// YAML parsed with gopkg.in/yaml.v3, shape-validated against an embedded
// JSON Schema with santhosh-tekuri/jsonschema/v5, and gated on an optional
// schema_version field with golang.org/x/mod/semver — grounded on the
// teacher's core/types/validation.go + jsonschema.go (schema compilation,
// caching, and compatibility gating pattern).
package templatedoc

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/rhasspy-grammar/grammarfst/core/cerr"
)

// SupportedSchemaVersion is the major schema version this build ingests. A
// document whose schema_version carries a different major version is
// rejected rather than silently mis-parsed.
const SupportedSchemaVersion = "v1"

// Document is the parsed shape of a template document.
type Document struct {
	SchemaVersion   string             `yaml:"schema_version,omitempty"`
	Sentences       []RawSentence      `yaml:"sentences"`
	Lists           map[string]RawList `yaml:"lists,omitempty"`
	ExpansionRules  map[string]string  `yaml:"expansion_rules,omitempty"`
	RequiresContext map[string]any     `yaml:"requires_context,omitempty"`
	ExcludesContext map[string]any     `yaml:"excludes_context,omitempty"`
	Metadata        struct {
		Output string `yaml:"output,omitempty"`
	} `yaml:"metadata,omitempty"`
}

// RawSentence is one "sentences" entry: either a bare template string, or
// an object carrying "in" (a string or list of equivalent template
// strings), an optional "out" sentence-level output override, and optional
// context predicates.
type RawSentence struct {
	In              []string
	Out             string
	RequiresContext map[string]any
	ExcludesContext map[string]any
}

// UnmarshalYAML accepts both the bare-string and object forms §6 describes.
func (s *RawSentence) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.In = []string{value.Value}
		return nil
	}

	var obj struct {
		In              yaml.Node      `yaml:"in"`
		Out             string         `yaml:"out"`
		RequiresContext map[string]any `yaml:"requires_context"`
		ExcludesContext map[string]any `yaml:"excludes_context"`
	}
	if err := value.Decode(&obj); err != nil {
		return err
	}

	switch obj.In.Kind {
	case yaml.ScalarNode:
		s.In = []string{obj.In.Value}
	case yaml.SequenceNode:
		if err := obj.In.Decode(&s.In); err != nil {
			return err
		}
	default:
		return fmt.Errorf("templatedoc: sentence \"in\" must be a string or a list of strings")
	}
	s.Out = obj.Out
	s.RequiresContext = obj.RequiresContext
	s.ExcludesContext = obj.ExcludesContext
	return nil
}

// RawList is one "lists" entry: either explicit values or a numeric range.
type RawList struct {
	Values []RawSlotValue `yaml:"values,omitempty"`
	Range  *RawRange      `yaml:"range,omitempty"`
}

// RawSlotValue is one TextSlotList value.
type RawSlotValue struct {
	In      string         `yaml:"in"`
	Out     string         `yaml:"out,omitempty"`
	Context map[string]any `yaml:"context,omitempty"`
}

// RawRange is a {from, to, step?} numeric range; Step defaults to 1.
type RawRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
	Step int `yaml:"step,omitempty"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("templatedoc://document.json", strings.NewReader(documentSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("templatedoc://document.json")
	})
	return schema, schemaErr
}

// Load reads, shape-validates, and parses a template document. file is
// used only to annotate error messages; it need not be a real path.
func Load(file string, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("templatedoc: reading %s: %w", file, err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &cerr.TemplateShapeError{File: file, Message: err.Error()}
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("templatedoc: compiling embedded schema: %w", err)
	}
	if err := s.Validate(raw); err != nil {
		return nil, &cerr.TemplateShapeError{File: file, Message: err.Error()}
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &cerr.TemplateShapeError{File: file, Message: err.Error()}
	}
	if err := checkSchemaVersion(doc.SchemaVersion); err != nil {
		return nil, &cerr.TemplateShapeError{File: file, Message: err.Error()}
	}
	return &doc, nil
}

func checkSchemaVersion(v string) error {
	if v == "" {
		return nil
	}
	vv := v
	if !strings.HasPrefix(vv, "v") {
		vv = "v" + vv
	}
	if !semver.IsValid(vv) {
		return fmt.Errorf("invalid schema_version %q", v)
	}
	if semver.Major(vv) != SupportedSchemaVersion {
		return fmt.Errorf("unsupported schema_version %q (this build supports %s.x)", v, SupportedSchemaVersion)
	}
	return nil
}

const documentSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["sentences"],
  "properties": {
    "schema_version": {"type": "string"},
    "sentences": {
      "type": "array",
      "minItems": 1,
      "items": {
        "oneOf": [
          {"type": "string"},
          {
            "type": "object",
            "required": ["in"],
            "properties": {
              "in": {"oneOf": [{"type": "string"}, {"type": "array", "items": {"type": "string"}}]},
              "out": {"type": "string"},
              "requires_context": {"type": "object"},
              "excludes_context": {"type": "object"}
            }
          }
        ]
      }
    },
    "lists": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "values": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["in"],
              "properties": {
                "in": {"type": "string"},
                "out": {"type": "string"},
                "context": {"type": "object"}
              }
            }
          },
          "range": {
            "type": "object",
            "required": ["from", "to"],
            "properties": {
              "from": {"type": "integer"},
              "to": {"type": "integer"},
              "step": {"type": "integer"}
            }
          }
        }
      }
    },
    "expansion_rules": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "requires_context": {"type": "object"},
    "excludes_context": {"type": "object"},
    "metadata": {
      "type": "object",
      "properties": {"output": {"type": "string"}}
    }
  },
  "additionalProperties": false
}`
