// Command grammarfst compiles sentence-template documents into weighted
// finite-state transducers and resolves decoder N-best hypotheses against
// the resulting fuzzy FST. See SPEC_FULL.md for the full requirements this
// implements; ported from the teacher's cli/main.go flag-binding and
// error-reporting style.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	cfg := &Config{}
	var noColor bool

	rootCmd := &cobra.Command{
		Use:           "grammarfst",
		Short:         "Grammar-to-FST compiler and fuzzy decoder for constrained speech-to-text",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.NoColor = noColor
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.TemplatesDir, "templates", "templates", "directory of sentence-template YAML documents")
	rootCmd.PersistentFlags().StringVar(&cfg.OutFST, "out", "-", "output FST path (\"-\" for stdout)")
	rootCmd.PersistentFlags().StringVar(&cfg.OutSymbols, "out-symbols", "", "output symbol table path (empty skips the symbol table)")
	rootCmd.PersistentFlags().StringVar(&cfg.OutLexicon, "out-lexicon", "", "compile subcommand only: write guessed pronunciations for lexicon-unknown words here")
	rootCmd.PersistentFlags().StringVar(&cfg.LexiconPath, "lexicon", "", "CMU-dict-style pronunciation lexicon file")
	rootCmd.PersistentFlags().StringVar(&cfg.GuessCachePath, "guess-cache", "grammarfst-g2p-cache.cbor", "path to the on-disk G2P guess cache")
	rootCmd.PersistentFlags().StringVar(&cfg.PhonetisaurusBin, "phonetisaurus-bin", "phonetisaurus-apply", "grapheme-to-phoneme binary")
	rootCmd.PersistentFlags().StringVar(&cfg.G2PModelPath, "g2p-model", "", "grapheme-to-phoneme model path")
	rootCmd.PersistentFlags().StringVar(&cfg.NumberLanguage, "number-language", "english", "number-to-words ruleset language")
	rootCmd.PersistentFlags().Float64Var(&cfg.MaxFuzzyCost, "max-fuzzy-cost", 0, "fuzzy-decode rejection threshold (0 uses the package default)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored error output")

	rootCmd.AddCommand(
		newCompileCmd(cfg),
		newFuzzyCmd(cfg),
		newDecodeCmd(cfg),
		newStringsCmd(cfg),
		newWatchCmd(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		FormatError(os.Stderr, err, ShouldUseColor(cfg.NoColor))
		os.Exit(1)
	}
}
