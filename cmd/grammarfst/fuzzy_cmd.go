package main

import (
	"github.com/spf13/cobra"

	"github.com/rhasspy-grammar/grammarfst/core/fuzzy"
)

func newFuzzyCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuzzy",
		Short: "Compile templates and build the permissive fuzzy-decode FST",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cfg.Debug)
			strict, _, err := compileGrammar(*cfg, logger)
			if err != nil {
				return err
			}
			permissive := fuzzy.Build(strict)
			return writeFST(cfg.OutFST, cfg.OutSymbols, permissive, permissive.OutputWords)
		},
	}
	return cmd
}
