package main

import (
	"log/slog"
	"os"

	"github.com/rhasspy-grammar/grammarfst/core/numbers"
)

// Config collects the flags every subcommand shares: where the external
// G2P binary and model live, which number-to-words ruleset engine to use,
// and the fuzzy-decode rejection threshold. Bound in main.go the teacher's
// way: cobra.Command persistent flags into local vars, gathered here rather
// than read back off the command at call sites.
type Config struct {
	TemplatesDir string
	OutFST       string
	OutSymbols   string
	OutLexicon   string

	// PhonetisaurusBin and G2PModelPath configure the grapheme-to-phoneme
	// guesser (core/lexicon.Guesser); the OpenFst binary names
	// (fstcompile, fstcompose, ...) are not configurable here because
	// core/nbest.Resolver invokes them by their fixed, spec-mandated
	// names directly.
	PhonetisaurusBin string
	G2PModelPath     string
	LexiconPath      string
	GuessCachePath   string

	NumberLanguage string
	MaxFuzzyCost   float64

	Debug   bool
	NoColor bool
}

// numberEngine resolves Config.NumberLanguage to a core/numbers.Engine.
// "english" (the default) is the only ruleset this repository ships; an
// unrecognised language degrades to no engine, matching core/compile's
// documented AllowDecimalFallback behavior for "no number engine available".
func (c Config) numberEngine() numbers.Engine {
	switch c.NumberLanguage {
	case "", "english", "en":
		return numbers.English{}
	default:
		return nil
	}
}

// newLogger builds the process-wide logger, ported from the teacher's
// runtime/lexer.New construction: a text handler on stderr, debug level
// gated by --debug or GRAMMARFST_DEBUG, with the time and level keys
// stripped outside debug mode for cleaner CLI output.
func newLogger(debug bool) *slog.Logger {
	if os.Getenv("GRAMMARFST_DEBUG") != "" {
		debug = true
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if debug {
				return a
			}
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
