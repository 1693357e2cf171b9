package main

import (
	"fmt"
	"log/slog"

	"github.com/rhasspy-grammar/grammarfst/core/cerr"
	"github.com/rhasspy-grammar/grammarfst/core/compile"
	"github.com/rhasspy-grammar/grammarfst/core/fst"
	"github.com/rhasspy-grammar/grammarfst/core/lexicon"
	"github.com/rhasspy-grammar/grammarfst/core/passes"
)

// compileGrammar runs the full in-process pipeline (§4.F-G): load the
// template documents, compile them into a weighted FST, remove <space>
// arcs, and prune dead branches. Warnings (unknown lists, empty
// expansions) are logged rather than failing the run, matching spec.md §7's
// distinction between fatal and non-fatal conditions. It also returns the
// lexicon consulted during compilation so callers can report words it had
// no pronunciation for.
func compileGrammar(cfg Config, logger *slog.Logger) (*fst.FST, *lexicon.Database, error) {
	intents, err := loadIntents(cfg.TemplatesDir)
	if err != nil {
		return nil, nil, err
	}
	if len(intents.Data) == 0 {
		return nil, nil, &CLIError{
			Type:    "usage",
			Message: fmt.Sprintf("no *.yaml template documents found in %s", cfg.TemplatesDir),
			Hint:    "pass --templates pointing at a directory of sentence-template YAML files",
		}
	}

	lex, err := loadLexicon(cfg.LexiconPath)
	if err != nil {
		return nil, nil, err
	}

	raw, warnings, err := compile.Compile(intents, compile.Options{
		NumberEngine: cfg.numberEngine(),
		Lexicon:      lex,
	})
	for _, w := range warnings {
		logger.Warn("compile: non-fatal warning", "error", w)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("compiling grammar: %w", err)
	}

	cleaned := passes.RemoveSpaces(raw)
	passes.Prune(cleaned)
	if len(cleaned.FinalStates()) == 0 {
		return nil, nil, &cerr.EmptyGrammarError{}
	}
	return cleaned, lex, nil
}
