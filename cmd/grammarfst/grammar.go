package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rhasspy-grammar/grammarfst/core/grammar"
	"github.com/rhasspy-grammar/grammarfst/runtime/templatedoc"
)

// loadIntents reads every *.yaml/*.yml file in dir into one grammar.Intents,
// naming each file's intent after its base name without extension — the
// one-sentence-file-per-intent convention the rhasspy sentence-file layout
// uses. Cross-group slot lists and expansion rules are left empty: nothing
// in the template document schema (§6) names a cross-file scope, so every
// list and rule a document defines stays scoped to its own intent's groups.
func loadIntents(dir string) (*grammar.Intents, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading templates directory %s: %w", dir, err)
	}

	intents := &grammar.Intents{
		SlotLists: map[string]grammar.SlotList{},
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		intentName := strings.TrimSuffix(entry.Name(), ext)

		path := filepath.Join(dir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		doc, err := templatedoc.Load(path, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}

		groups, err := doc.ToIntentGroups(intentName)
		if err != nil {
			return nil, fmt.Errorf("converting %s: %w", path, err)
		}
		for _, g := range groups {
			intents.Data = append(intents.Data, *g)
		}
	}
	return intents, nil
}
