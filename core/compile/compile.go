// Package compile recursively compiles a grammar's expression trees into a
// weighted FST, grounded on hassil_fst.py's expression_to_fst and
// intents_to_fst and on the teacher's core/transform recursive-descent
// style (a tagged-union type switch per node kind, threading state through
// each call).
package compile

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/rhasspy-grammar/grammarfst/core/cerr"
	"github.com/rhasspy-grammar/grammarfst/core/expr"
	"github.com/rhasspy-grammar/grammarfst/core/fst"
	"github.com/rhasspy-grammar/grammarfst/core/grammar"
	"github.com/rhasspy-grammar/grammarfst/core/invariant"
	"github.com/rhasspy-grammar/grammarfst/core/lexicon"
	"github.com/rhasspy-grammar/grammarfst/core/meta"
	"github.com/rhasspy-grammar/grammarfst/core/numbers"
	"github.com/rhasspy-grammar/grammarfst/core/resolve"
)

// Options configures one compilation.
type Options struct {
	// NumberEngine renders numeric sub-words and RangeSlotList values into
	// spoken word sequences. Nil means no number engine is available.
	NumberEngine numbers.Engine
	// Lexicon is consulted by the word splitter; nil falls back to
	// whitespace-only splitting (no sub-word/initialism/number handling).
	Lexicon grammar.Lexicon
	// Include, when non-empty, restricts compilation to these intent
	// names. Exclude always wins over Include for a name present in both.
	Include map[string]bool
	Exclude map[string]bool
	// CallerSlotLists are consulted before any data-group or grammar list
	// of the same name (highest precedence, per core/resolve).
	CallerSlotLists map[string]grammar.SlotList
	// AllowDecimalFallback controls RangeSlotList behavior when no number
	// engine is configured: false (default) treats it as a dead branch;
	// true spells the range's decimal digits out literally. See
	// SPEC_FULL.md §E.2 for why the default differs from the Python source.
	AllowDecimalFallback bool
}

// Warning is a non-fatal condition recorded during compilation:
// cerr.UnknownListError or cerr.EmptyExpansionError.
type Warning = error

// Compiler holds everything one compilation needs: the in-progress FST, the
// resolver, and the range memoization table. It is not safe for concurrent
// use — compilation is single-threaded per spec.md §5, and a Compiler must
// not be shared across goroutines; build one per FST.
type Compiler struct {
	opts     Options
	resolver *resolve.Resolver
	f        *fst.FST
	warnings []Warning

	rangeMemo map[string][]renderedNumber
}

type renderedNumber struct {
	decimal string
	words   string
}

// Compile builds a weighted FST for every selected intent's data groups and
// sentences. It returns the FST, any non-fatal warnings encountered
// (unknown lists, empty expansions), and a fatal error if one occurred
// (unknown rule, rule cycle).
func Compile(intents *grammar.Intents, opts Options) (*fst.FST, []Warning, error) {
	c := &Compiler{
		opts:      opts,
		resolver:  resolve.New(intents, opts.CallerSlotLists),
		f:         fst.New(),
		rangeMemo: make(map[string][]renderedNumber),
	}

	for i := range intents.Data {
		data := &intents.Data[i]
		if !c.selected(data.Intent) {
			continue
		}
		if err := resolve.DetectRuleCycles(c.resolver, data); err != nil {
			return nil, c.warnings, err
		}
		for _, sentence := range data.Sentences {
			if err := c.compileSentence(sentence, data); err != nil {
				return nil, c.warnings, err
			}
		}
	}

	return c.f, c.warnings, nil
}

func (c *Compiler) selected(intent string) bool {
	if c.opts.Exclude != nil && c.opts.Exclude[intent] {
		return false
	}
	if len(c.opts.Include) > 0 {
		return c.opts.Include[intent]
	}
	return true
}

func (c *Compiler) compileSentence(sentence expr.Expression, data *grammar.IntentData) error {
	sentStart := c.f.NextEdge(c.f.Start, fst.Space, fst.Space, nil)

	if data.Output != "" {
		sentStart = c.f.NextEdge(sentStart, fst.Eps, meta.EncodeSentenceOutput(data.Output), nil)
	}

	end, ok, err := c.compileExpr(sentence, sentStart, data, ctx{})
	if err != nil {
		return err
	}
	if !ok {
		// The whole sentence dead-branched (e.g. every alternative
		// referenced an empty-after-filtering list); nothing to accept.
		return nil
	}

	final := c.f.NextEdge(end, fst.Space, fst.Space, nil)
	c.f.Accept(final)
	return nil
}

// ctx carries per-call compilation state that must thread through nested
// expressions without polluting every function signature with new
// parameters each time the compiler grows a feature.
type ctx struct {
	suppressOutput bool
	ruleStack      []string
}

func (c ctx) suppressed() ctx {
	c.suppressOutput = true
	return c
}

func (c ctx) pushRule(name string) ctx {
	stack := make([]string, len(c.ruleStack)+1)
	copy(stack, c.ruleStack)
	stack[len(stack)-1] = name
	c.ruleStack = stack
	return c
}

func (c ctx) onStack(name string) bool {
	for _, n := range c.ruleStack {
		if n == name {
			return true
		}
	}
	return false
}

// compileExpr is the recursive core: compile(expr, state) -> state' from
// spec.md §4.F. ok=false means expr dead-branched: any arcs it emitted are
// orphaned and will be removed by core/passes.Prune; callers must propagate
// ok=false upward rather than connect the returned state to an accept path.
func (c *Compiler) compileExpr(e expr.Expression, state int, data *grammar.IntentData, cx ctx) (int, bool, error) {
	switch v := e.(type) {
	case expr.TextChunk:
		return c.compileTextChunk(v, state, cx), true, nil
	case expr.Group:
		return c.compileGroup(v, state, data, cx)
	case expr.Alternative:
		return c.compileAlternative(v, state, data, cx)
	case expr.ListRef:
		return c.compileListRef(v, state, data, cx)
	case expr.RuleRef:
		return c.compileRuleRef(v, state, data, cx)
	default:
		invariant.Precondition(false, "compile: unhandled expression type %T", e)
		panic("unreachable")
	}
}

func (c *Compiler) compileGroup(g expr.Group, state int, data *grammar.IntentData, cx ctx) (int, bool, error) {
	cur := state
	for _, child := range g.Items {
		next, ok, err := c.compileExpr(child, cur, data, cx)
		if err != nil {
			return cur, false, err
		}
		if !ok {
			return cur, false, nil
		}
		cur = next
	}
	return cur, true, nil
}

func (c *Compiler) compileAlternative(a expr.Alternative, state int, data *grammar.IntentData, cx ctx) (int, bool, error) {
	end := c.f.NewState()
	anyAlive := false

	for _, item := range a.Items {
		childEnd, ok, err := c.compileExpr(item, state, data, cx)
		if err != nil {
			return state, false, err
		}
		if !ok {
			continue
		}
		anyAlive = true
		if childEnd != state {
			c.f.AddArc(childEnd, end, fst.Eps, fst.Eps, nil)
		}
	}

	if a.Optional {
		c.f.AddArc(state, end, fst.Eps, fst.Eps, nil)
		anyAlive = true
	}

	if !anyAlive {
		return state, false, nil
	}
	return end, true, nil
}

func (c *Compiler) compileRuleRef(r expr.RuleRef, state int, data *grammar.IntentData, cx ctx) (int, bool, error) {
	if cx.onStack(r.RuleName) {
		return state, false, &cerr.RuleCycleError{Cycle: append(append([]string{}, cx.ruleStack...), r.RuleName)}
	}
	body, ok := c.resolver.ResolveRule(r.RuleName, data)
	if !ok {
		return state, false, c.resolver.UnknownRuleErr(r.RuleName, data)
	}
	return c.compileExpr(body, state, data, cx.pushRule(r.RuleName))
}

// compileTextChunk emits <space> boundary arcs and one arc per sub-word.
// When the chunk is exactly a single space, it emits only the boundary arc
// (the compiler's one special case for pure whitespace, per spec.md §4.F).
func (c *Compiler) compileTextChunk(t expr.TextChunk, state int, cx ctx) int {
	if t.OriginalText == " " {
		return c.f.NextEdge(state, fst.Space, fst.Space, nil)
	}

	leadingSpace := strings.HasPrefix(t.OriginalText, " ")
	trailingSpace := strings.HasSuffix(t.OriginalText, " ")
	trimmed := strings.TrimSpace(t.OriginalText)
	if trimmed == "" {
		return state
	}

	subwords := c.splitWords(trimmed)

	cur := state
	if leadingSpace {
		cur = c.f.NextEdge(cur, fst.Space, fst.Space, nil)
	}
	for i, sw := range subwords {
		if i > 0 {
			cur = c.f.NextEdge(cur, fst.Space, fst.Space, nil)
		}
		out := sw.Surface
		if sw.Output != nil {
			out = *sw.Output
		}
		if sw.Suppressed || cx.suppressOutput {
			out = fst.Eps
		}
		cur = c.f.NextEdge(cur, sw.Surface, out, nil)
	}
	if trailingSpace {
		cur = c.f.NextEdge(cur, fst.Space, fst.Space, nil)
	}
	return cur
}

func (c *Compiler) splitWords(text string) []lexicon.SubWord {
	if c.opts.Lexicon == nil {
		var out []lexicon.SubWord
		for _, w := range strings.Fields(text) {
			out = append(out, lexicon.SubWord{Surface: w})
		}
		return out
	}
	return lexicon.SplitWords(text, c.opts.Lexicon, c.opts.NumberEngine)
}

func (c *Compiler) compileListRef(l expr.ListRef, state int, data *grammar.IntentData, cx ctx) (int, bool, error) {
	slotName := l.SlotName
	if slotName == "" {
		slotName = l.ListName
	}

	list, found := c.resolver.ResolveList(l.ListName, data)
	if !found {
		c.warnings = append(c.warnings, c.resolver.UnknownListErr(l.ListName, data))
		c.f.NextEdge(state, l.ListName, l.ListName, nil)
		return state, false, nil
	}

	switch sl := list.(type) {
	case grammar.TextSlotList:
		return c.compileTextSlotList(sl, slotName, l.ListName, state, data, cx)
	case grammar.RangeSlotList:
		return c.compileRangeSlotList(sl, slotName, l.ListName, state)
	default:
		invariant.Precondition(false, "compile: unhandled slot list type %T", list)
		panic("unreachable")
	}
}

func (c *Compiler) compileTextSlotList(sl grammar.TextSlotList, slotName, listName string, state int, data *grammar.IntentData, cx ctx) (int, bool, error) {
	end := c.f.NewState()
	anyAlive := false

	for _, value := range sl.Values {
		if !matchesGroupContext(value.Context, data) {
			continue
		}

		outputText := exprPlainText(value.TextIn)
		if value.ValueOut != nil {
			outputText = *value.ValueOut
		}

		s1 := c.f.NextEdge(state, fst.Eps, fst.BeginOutput, nil)
		encoded := meta.EncodeSlotOutput(grammar.SlotOutput{Text: outputText, List: slotName})
		s2 := c.f.NextEdge(s1, fst.Eps, encoded, nil)

		childEnd, ok, err := c.compileExpr(value.TextIn, s2, data, cx.suppressed())
		if err != nil {
			return state, false, err
		}
		if !ok {
			continue
		}
		s3 := c.f.NextEdge(childEnd, fst.Eps, fst.EndOutput, nil)
		c.f.AddArc(s3, end, fst.Eps, fst.Eps, nil)
		anyAlive = true
	}

	if !anyAlive {
		c.warnings = append(c.warnings, &cerr.EmptyExpansionError{ListName: listName})
		return state, false, nil
	}
	return end, true, nil
}

// matchesGroupContext applies spec.md §4.C filtering using the owning data
// group's requires_context/excludes_context against a value's own context.
// A value with no context of its own always matches.
func matchesGroupContext(valueContext map[string]any, data *grammar.IntentData) bool {
	if valueContext == nil {
		return true
	}
	return resolve.MatchesContext(valueContext, data.RequiresContext, data.ExcludesContext)
}

func (c *Compiler) compileRangeSlotList(sl grammar.RangeSlotList, slotName, listName string, state int) (int, bool, error) {
	rendered, err := c.renderRange(sl)
	if err != nil {
		return state, false, err
	}
	if len(rendered) == 0 {
		c.warnings = append(c.warnings, &cerr.EmptyExpansionError{ListName: listName})
		return state, false, nil
	}

	end := c.f.NewState()
	for _, r := range rendered {
		s1 := c.f.NextEdge(state, fst.Eps, fst.BeginOutput, nil)
		encoded := meta.EncodeSlotOutput(grammar.SlotOutput{Text: r.decimal, List: slotName})
		cur := c.f.NextEdge(s1, fst.Eps, encoded, nil)

		words := strings.Fields(r.words)
		for i, w := range words {
			if i > 0 {
				cur = c.f.NextEdge(cur, fst.Space, fst.Space, nil)
			}
			cur = c.f.NextEdge(cur, w, fst.Eps, nil)
		}
		s3 := c.f.NextEdge(cur, fst.Eps, fst.EndOutput, nil)
		c.f.AddArc(s3, end, fst.Eps, fst.Eps, nil)
	}
	return end, true, nil
}

// renderRange materializes (or fetches from the memo table) the list of
// (decimal, spoken-words) pairs for a RangeSlotList, keyed by
// blake2b(start, stop+1, step) per SPEC_FULL.md §B's wiring of blake2b into
// the compiler's memoization.
func (c *Compiler) renderRange(sl grammar.RangeSlotList) ([]renderedNumber, error) {
	key := rangeMemoKey(sl.Start, sl.Stop+1, sl.Step)
	if cached, ok := c.rangeMemo[key]; ok {
		return cached, nil
	}

	if sl.Step == 0 {
		return nil, nil
	}

	var values []int
	if sl.Step > 0 {
		for n := sl.Start; n <= sl.Stop; n += sl.Step {
			values = append(values, n)
		}
	} else {
		for n := sl.Start; n >= sl.Stop; n += sl.Step {
			values = append(values, n)
		}
	}

	var rendered []renderedNumber
	if c.opts.NumberEngine != nil {
		for _, n := range values {
			decimal := strconv.Itoa(n)
			seen := make(map[string]bool)
			for _, ruleset := range c.opts.NumberEngine.Rulesets() {
				words, err := c.opts.NumberEngine.FormatNumber(decimal, ruleset)
				if err != nil {
					// Not every ruleset renders every value (e.g. ordinal
					// rejects decimals); skip renderings that don't apply.
					continue
				}
				words = strings.ReplaceAll(words, "-", " ")
				if seen[words] {
					continue
				}
				seen[words] = true
				rendered = append(rendered, renderedNumber{decimal: decimal, words: words})
			}
			if len(seen) == 0 {
				return nil, fmt.Errorf("compile: render range value %d: no ruleset produced a rendering", n)
			}
		}
	} else if c.opts.AllowDecimalFallback {
		for _, n := range values {
			decimal := strconv.Itoa(n)
			spelled := make([]string, 0, len(decimal))
			for _, r := range decimal {
				spelled = append(spelled, string(r))
			}
			rendered = append(rendered, renderedNumber{decimal: decimal, words: strings.Join(spelled, " ")})
		}
	}
	// else: no engine and fallback not requested -> dead branch (nil rendered).

	c.rangeMemo[key] = rendered
	return rendered, nil
}

func rangeMemoKey(start, stopExclusive, step int) string {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%d:%d:%d", start, stopExclusive, step)))
	return hex.EncodeToString(sum[:])
}

// exprPlainText best-effort flattens an expression into literal text, used
// to derive a TextSlotList value's default output when it has no explicit
// ValueOut. TextChunk and Group render exactly; Alternative approximates
// with its first item (the source's own dataclasses store an explicit
// output override for any case where this approximation would be wrong).
func exprPlainText(e expr.Expression) string {
	switch v := e.(type) {
	case expr.TextChunk:
		return strings.TrimSpace(v.OriginalText)
	case expr.Group:
		var parts []string
		for _, c := range v.Items {
			if t := exprPlainText(c); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, " ")
	case expr.Alternative:
		if len(v.Items) > 0 {
			return exprPlainText(v.Items[0])
		}
		return ""
	case expr.ListRef:
		return v.ListName
	case expr.RuleRef:
		return v.RuleName
	default:
		return ""
	}
}
