package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rhasspy-grammar/grammarfst/core/nbest"
	"github.com/rhasspy-grammar/grammarfst/internal/toolrunner"
)

func newDecodeCmd(cfg *Config) *cobra.Command {
	var hypPath string

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Resolve decoder N-best hypotheses against a fuzzy FST",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cfg.Debug)

			in := os.Stdin
			if hypPath != "" && hypPath != "-" {
				f, err := os.Open(hypPath)
				if err != nil {
					return fmt.Errorf("opening %s: %w", hypPath, err)
				}
				defer f.Close()
				in = f
			}

			hyps, err := nbest.ParseNBest(bufio.NewScanner(in))
			if err != nil {
				return err
			}

			resolver := &nbest.Resolver{
				Runner:       toolrunner.NewExec(logger),
				Logger:       logger,
				FuzzyFSTPath: cfg.OutFST,
				SymbolsPath:  cfg.OutSymbols,
				MaxFuzzyCost: cfg.MaxFuzzyCost,
			}

			text, cost, ok, err := resolver.Resolve(cmd.Context(), hyps)
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			if !ok {
				logger.Info("decode: no accepted transcript", "cost", cost)
				return nil
			}
			fmt.Println(text)
			return nil
		},
	}
	cmd.Flags().StringVar(&hypPath, "hypotheses", "-", "path to newline-delimited N-best hypotheses (\"-\" for stdin)")
	return cmd
}
