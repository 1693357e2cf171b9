package templatedoc

import (
	"fmt"
	"strings"

	"github.com/rhasspy-grammar/grammarfst/core/cerr"
	"github.com/rhasspy-grammar/grammarfst/core/expr"
)

// ParseTemplate parses one sentence/expansion-rule template string (§6
// External Interfaces' mini-DSL: literal text, "(a|b|c)" alternatives,
// "[x]" optional groups, "{list_name}"/"{list_name:slot_name}" list
// references, "<rule_name>" rule references) into an expr.Expression tree.
// Whitespace in literal text is preserved verbatim since it denotes word
// boundaries at compile time. Grounded on the teacher's recursive-descent
// parser style (cli/internal/parser/parser.go), adapted to this smaller
// template grammar.
func ParseTemplate(s string) (expr.Expression, error) {
	p := &parser{s: s}
	items, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.s) {
		return nil, &cerr.TemplateShapeError{Message: fmt.Sprintf("unexpected %q at position %d", p.s[p.pos], p.pos)}
	}
	return collapse(items), nil
}

type parser struct {
	s   string
	pos int
}

const specialChars = "(){}[]<>|"

func collapse(items []expr.Expression) expr.Expression {
	if len(items) == 1 {
		return items[0]
	}
	return expr.Group{Items: items}
}

// parseSequence reads items until EOF or a '|', ')', ']' it does not own;
// the caller (parseGroup, or ParseTemplate at the top level) decides
// whether that trailing character is expected or a shape error.
func (p *parser) parseSequence() ([]expr.Expression, error) {
	var items []expr.Expression
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case '|', ')', ']':
			return items, nil
		case '(':
			p.pos++
			alt, err := p.parseGroup(')', false)
			if err != nil {
				return nil, err
			}
			items = append(items, alt)
		case '[':
			p.pos++
			alt, err := p.parseGroup(']', true)
			if err != nil {
				return nil, err
			}
			items = append(items, alt)
		case '{':
			p.pos++
			lr, err := p.parseListRef()
			if err != nil {
				return nil, err
			}
			items = append(items, lr)
		case '<':
			p.pos++
			rr, err := p.parseRuleRef()
			if err != nil {
				return nil, err
			}
			items = append(items, rr)
		case '}', '>':
			return nil, &cerr.TemplateShapeError{Message: fmt.Sprintf("unexpected %q", p.s[p.pos])}
		default:
			items = append(items, expr.TextChunk{OriginalText: p.parseText()})
		}
	}
	return items, nil
}

func (p *parser) parseText() string {
	start := p.pos
	for p.pos < len(p.s) && !strings.ContainsRune(specialChars, rune(p.s[p.pos])) {
		p.pos++
	}
	return p.s[start:p.pos]
}

// parseGroup parses the body of a '(' or '[' already consumed by the
// caller, as one or more '|'-separated sequences, and consumes the
// matching closeCh.
func (p *parser) parseGroup(closeCh byte, optional bool) (expr.Expression, error) {
	var alts []expr.Expression
	for {
		items, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		alts = append(alts, collapse(items))

		if p.pos >= len(p.s) {
			return nil, &cerr.TemplateShapeError{Message: fmt.Sprintf("unterminated group, expected %q", closeCh)}
		}
		switch p.s[p.pos] {
		case '|':
			p.pos++
			continue
		case closeCh:
			p.pos++
		default:
			return nil, &cerr.TemplateShapeError{Message: fmt.Sprintf("mismatched closer %q, expected %q", p.s[p.pos], closeCh)}
		}
		break
	}
	return expr.Alternative{Items: alts, Optional: optional}, nil
}

func (p *parser) parseListRef() (expr.Expression, error) {
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != '}' && p.s[p.pos] != ':' {
		p.pos++
	}
	name := p.s[start:p.pos]

	var slot string
	if p.pos < len(p.s) && p.s[p.pos] == ':' {
		p.pos++
		sstart := p.pos
		for p.pos < len(p.s) && p.s[p.pos] != '}' {
			p.pos++
		}
		slot = p.s[sstart:p.pos]
	}

	if p.pos >= len(p.s) || p.s[p.pos] != '}' {
		return nil, &cerr.TemplateShapeError{Message: "unterminated { list reference }"}
	}
	p.pos++

	if name == "" {
		return nil, &cerr.TemplateShapeError{Message: "empty {} list reference"}
	}
	return expr.ListRef{ListName: name, SlotName: slot}, nil
}

func (p *parser) parseRuleRef() (expr.Expression, error) {
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != '>' {
		p.pos++
	}
	name := p.s[start:p.pos]

	if p.pos >= len(p.s) {
		return nil, &cerr.TemplateShapeError{Message: "unterminated < rule reference >"}
	}
	p.pos++

	if name == "" {
		return nil, &cerr.TemplateShapeError{Message: "empty <> rule reference"}
	}
	return expr.RuleRef{RuleName: name}, nil
}
