package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rhasspy-grammar/grammarfst/core/fst"
)

func newCompileCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile sentence-template documents into a weighted FST",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cfg.Debug)
			f, lex, err := compileGrammar(*cfg, logger)
			if err != nil {
				return err
			}
			if err := writeFST(cfg.OutFST, cfg.OutSymbols, f, f.Words); err != nil {
				return err
			}

			if cfg.OutLexicon == "" {
				return nil
			}
			guessed, err := guessMissingPronunciations(cmd.Context(), *cfg, logger, lex, f.Words)
			if err != nil {
				return err
			}
			return writeLexiconReport(cfg.OutLexicon, guessed)
		},
	}
	return cmd
}

// writeFST writes an FST in OpenFst text format plus a symbol table built
// from symbols, the §6 "FST text format (emitted)" contract. outFST or
// outSymbols being "-" writes to stdout. Callers pass f.Words for an input
// symbol table (the "compile" subcommand) or f.OutputWords for an output
// symbol table (the "fuzzy" subcommand, whose symbols feed fstprint
// --osymbols in the decode pipeline).
func writeFST(outFST, outSymbols string, f *fst.FST, symbols map[string]struct{}) error {
	fw, closeFW, err := openOut(outFST)
	if err != nil {
		return err
	}
	defer closeFW()
	if err := f.Write(fw); err != nil {
		return fmt.Errorf("writing fst to %s: %w", outFST, err)
	}

	if outSymbols == "" {
		return nil
	}
	sw, closeSW, err := openOut(outSymbols)
	if err != nil {
		return err
	}
	defer closeSW()
	if err := fst.WriteSymbols(sw, symbols); err != nil {
		return fmt.Errorf("writing symbols to %s: %w", outSymbols, err)
	}
	return nil
}

// openOut opens path for writing, or returns os.Stdout (with a no-op
// closer) for "-" or "" so callers can defer the close unconditionally.
func openOut(path string) (*os.File, func() error, error) {
	if path == "-" || path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, f.Close, nil
}
