package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rhasspy-grammar/grammarfst/core/cerr"
)

// CLIError is a formatted command-line error with an optional hint,
// ported from the teacher's cli/errors.go CLIError.
type CLIError struct {
	Type    string // "usage", "compile", "decode"
	Message string
	Hint    string
}

func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError prints err to w, colorized, with a tailored hint for the
// typed error kinds core/cerr defines, the way the teacher's FormatError
// dispatches on *planner.PlanError vs *CLIError.
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		fmt.Fprintf(w, "%s%s%s\n", Colorize("Error: ", ColorRed, useColor), cliErr.Message, ColorReset)
		if cliErr.Hint != "" {
			fmt.Fprintf(w, "%s%s%s\n", Colorize("Hint: ", ColorYellow, useColor), cliErr.Hint, ColorReset)
		}
		return
	}

	var shapeErr *cerr.TemplateShapeError
	var ruleErr *cerr.UnknownRuleError
	var listErr *cerr.UnknownListError
	var cycleErr *cerr.RuleCycleError
	var emptyGrammarErr *cerr.EmptyGrammarError
	switch {
	case errors.As(err, &shapeErr):
		fmt.Fprintf(w, "%s%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error(), ColorReset)
		fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), "check the template document's sentences/lists/expansion_rules shape against the schema")
	case errors.As(err, &ruleErr):
		fmt.Fprintf(w, "%s%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error(), ColorReset)
	case errors.As(err, &listErr):
		fmt.Fprintf(w, "%s%s%s\n", Colorize("Warning: ", ColorYellow, useColor), err.Error(), ColorReset)
	case errors.As(err, &cycleErr):
		fmt.Fprintf(w, "%s%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error(), ColorReset)
	case errors.As(err, &emptyGrammarErr):
		fmt.Fprintf(w, "%s%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error(), ColorReset)
		fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), "every accepting path was pruned; check context filters and rule/list references")
	default:
		fmt.Fprintf(w, "%s%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error(), ColorReset)
	}
}
