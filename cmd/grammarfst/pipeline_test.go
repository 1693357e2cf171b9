package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rhasspy-grammar/grammarfst/core/fuzzy"
)

func discardLoggerForCLI() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriterCLI{}, nil))
}

type discardWriterCLI struct{}

func (discardWriterCLI) Write(p []byte) (int, error) { return len(p), nil }

func writeTemplateDir(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCompileGrammarProducesAcceptingFST(t *testing.T) {
	dir := writeTemplateDir(t, map[string]string{
		"lights.yaml": `
sentences:
  - "turn on the {device}"
lists:
  device:
    values:
      - in: "light"
      - in: "fan"
`,
	})

	cfg := Config{TemplatesDir: dir, NumberLanguage: "english"}
	f, lex, err := compileGrammar(cfg, discardLoggerForCLI())
	if err != nil {
		t.Fatalf("compileGrammar: %v", err)
	}
	if lex == nil {
		t.Fatal("expected a non-nil lexicon")
	}
	strs := f.ToStrings(true)
	if len(strs) == 0 {
		t.Fatal("expected at least one accepted sentence")
	}
	foundLight, foundFan := false, false
	for _, s := range strs {
		if strings.Contains(s, "light") {
			foundLight = true
		}
		if strings.Contains(s, "fan") {
			foundFan = true
		}
	}
	if !foundLight || !foundFan {
		t.Fatalf("expected both device values reachable, got %v", strs)
	}
}

func TestCompileGrammarNoTemplatesIsUsageError(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{TemplatesDir: dir}
	if _, _, err := compileGrammar(cfg, discardLoggerForCLI()); err == nil {
		t.Fatal("expected an error when no template documents are found")
	}
}

func TestCompileGrammarThenFuzzyBuildRoundTrips(t *testing.T) {
	dir := writeTemplateDir(t, map[string]string{
		"lights.yaml": `
sentences:
  - "turn on the light"
`,
	})
	cfg := Config{TemplatesDir: dir, NumberLanguage: "english"}
	strict, _, err := compileGrammar(cfg, discardLoggerForCLI())
	if err != nil {
		t.Fatalf("compileGrammar: %v", err)
	}
	permissive := fuzzy.Build(strict)
	if len(permissive.OutputWords) == 0 {
		t.Fatal("expected the fuzzy FST to carry output-side symbols")
	}
}
