package templatedoc

import (
	"fmt"

	"github.com/rhasspy-grammar/grammarfst/core/expr"
	"github.com/rhasspy-grammar/grammarfst/core/grammar"
)

// ToIntentGroups parses every sentence, slot list value, and expansion rule
// template string and returns one grammar.IntentData per sentence "in"
// template, named intentName. A sentence's own "out"/context overrides
// replace the document-level ones for that group only; the document's
// metadata.output is used as the group's output when the sentence itself
// carries no "out".
// Splitting per sentence (rather than carrying one shared IntentData, as
// core/grammar models only one Output per group) is a deliberate choice:
// it lets each sentence's own output-template override take effect without
// widening core/grammar's shape.
func (d *Document) ToIntentGroups(intentName string) ([]*grammar.IntentData, error) {
	slotLists := make(map[string]grammar.SlotList, len(d.Lists))
	for name, rl := range d.Lists {
		sl, err := rl.toSlotList(name)
		if err != nil {
			return nil, err
		}
		slotLists[name] = sl
	}

	expansionRules := make(map[string]expr.Expression, len(d.ExpansionRules))
	for name, tmpl := range d.ExpansionRules {
		e, err := ParseTemplate(tmpl)
		if err != nil {
			return nil, fmt.Errorf("expansion_rules[%s]: %w", name, err)
		}
		expansionRules[name] = e
	}

	var groups []*grammar.IntentData
	for _, s := range d.Sentences {
		requires := s.RequiresContext
		if requires == nil {
			requires = d.RequiresContext
		}
		excludes := s.ExcludesContext
		if excludes == nil {
			excludes = d.ExcludesContext
		}
		output := s.Out
		if output == "" {
			output = d.Metadata.Output
		}

		for _, in := range s.In {
			e, err := ParseTemplate(in)
			if err != nil {
				return nil, fmt.Errorf("sentences: %w", err)
			}
			groups = append(groups, &grammar.IntentData{
				Intent:          intentName,
				Sentences:       []expr.Expression{e},
				SlotLists:       slotLists,
				ExpansionRules:  expansionRules,
				RequiresContext: requires,
				ExcludesContext: excludes,
				Output:          output,
			})
		}
	}
	return groups, nil
}

func (rl RawList) toSlotList(name string) (grammar.SlotList, error) {
	if rl.Range != nil {
		step := rl.Range.Step
		if step == 0 {
			step = 1
		}
		return grammar.RangeSlotList{Start: rl.Range.From, Stop: rl.Range.To, Step: step}, nil
	}

	values := make([]grammar.SlotValue, 0, len(rl.Values))
	for _, v := range rl.Values {
		e, err := ParseTemplate(v.In)
		if err != nil {
			return nil, fmt.Errorf("lists[%s]: %w", name, err)
		}
		sv := grammar.SlotValue{TextIn: e, Context: v.Context}
		if v.Out != "" {
			out := v.Out
			sv.ValueOut = &out
		}
		values = append(values, sv)
	}
	return grammar.TextSlotList{Values: values}, nil
}
