package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rhasspy-grammar/grammarfst/core/meta"
)

func newStringsCmd(cfg *Config) *cobra.Command {
	var showTokens bool
	var showOutput bool

	cmd := &cobra.Command{
		Use:   "strings",
		Short: "Compile templates and print every accepted sentence",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cfg.Debug)
			f, _, err := compileGrammar(*cfg, logger)
			if err != nil {
				return err
			}

			if showOutput {
				for _, s := range f.ToOutputStrings() {
					decoded, err := meta.DecodeMeta(s)
					if err != nil {
						return err
					}
					fmt.Println(decoded)
				}
				return nil
			}

			if showTokens {
				for _, toks := range f.ToTokens(true) {
					fmt.Println(strings.Join(toks, " "))
				}
				return nil
			}

			for _, s := range f.ToStrings(true) {
				fmt.Println(s)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTokens, "tokens", false, "print each accepted path as its raw token sequence")
	cmd.Flags().BoolVar(&showOutput, "output", false, "print each accepted path's output-side (decoded meta) text instead of its input-side text")
	return cmd
}
