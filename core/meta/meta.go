// Package meta implements the codec that smuggles structured slot and
// sentence outputs through an FST's symbol alphabet, which forbids
// whitespace: slot payloads are JSON-encoded and sentence templates are
// taken as raw text, then either is Base32-encoded without padding and
// tagged with one of the __output:/__sentence_output: prefixes defined in
// core/fst.
package meta

import (
	"encoding/base32"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rhasspy-grammar/grammarfst/core/fst"
	"github.com/rhasspy-grammar/grammarfst/core/grammar"
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// EncodeMeta Base32-encodes an arbitrary UTF-8 string with no padding.
// EncodeMeta composed with DecodeMetaSingle is the identity.
func EncodeMeta(payload string) string {
	return b32.EncodeToString([]byte(payload))
}

// DecodeMetaSingle reverses EncodeMeta.
func DecodeMetaSingle(encoded string) (string, error) {
	raw, err := b32.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("meta: decode payload: %w", err)
	}
	return string(raw), nil
}

// EncodeSlotOutput encodes a slot's output record as an __output: token.
func EncodeSlotOutput(out grammar.SlotOutput) string {
	b, err := json.Marshal(out)
	if err != nil {
		// SlotOutput is a plain struct of strings; marshaling cannot fail.
		panic(fmt.Sprintf("meta: marshal slot output: %v", err))
	}
	return fst.OutputPrefix + EncodeMeta(string(b))
}

// EncodeSentenceOutput encodes a sentence-level output template (containing
// "{slot}" placeholders) as a __sentence_output: token.
func EncodeSentenceOutput(template string) string {
	return fst.SentenceOutputPrefix + EncodeMeta(template)
}

var (
	outputTokenRe         = regexp.MustCompile(`__output:([A-Z2-7]+)`)
	sentenceOutputTokenRe = regexp.MustCompile(`__sentence_output:([A-Z2-7]+)`)
)

// DecodeMeta finds every __output: token in text, decodes it into a
// grammar.SlotOutput, replaces the token with the slot's surface text, and
// records {list: text} bindings. If at most one __sentence_output: token is
// present, it is decoded and formatted with those bindings substituted for
// "{slot}" placeholders, and that formatted string is returned instead of
// the slot-substituted text.
func DecodeMeta(text string) (string, error) {
	slots := make(map[string]string)

	substituted := outputTokenRe.ReplaceAllStringFunc(text, func(tok string) string {
		m := outputTokenRe.FindStringSubmatch(tok)
		raw, err := DecodeMetaSingle(m[1])
		if err != nil {
			return tok
		}
		var out grammar.SlotOutput
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return tok
		}
		if out.List != "" {
			slots[out.List] = out.Text
		}
		return out.Text
	})

	sentMatch := sentenceOutputTokenRe.FindStringSubmatch(substituted)
	if sentMatch == nil {
		return strings.TrimSpace(collapseSpaces(substituted)), nil
	}

	tmplRaw, err := DecodeMetaSingle(sentMatch[1])
	if err != nil {
		return "", fmt.Errorf("meta: decode sentence output: %w", err)
	}

	formatted := substituteSlots(tmplRaw, slots)
	// Drop the (now redundant) sentence-output token from the surrounding text.
	formatted = strings.TrimSpace(collapseSpaces(formatted))
	return formatted, nil
}

func substituteSlots(template string, slots map[string]string) string {
	var b strings.Builder
	for i := 0; i < len(template); {
		if template[i] == '{' {
			end := strings.IndexByte(template[i:], '}')
			if end >= 0 {
				name := template[i+1 : i+end]
				if val, ok := slots[name]; ok {
					b.WriteString(val)
					i += end + 1
					continue
				}
			}
		}
		b.WriteByte(template[i])
		i++
	}
	return b.String()
}

// collapseSpaces normalizes runs of whitespace left over from token removal
// into single spaces, the way the decoder's caller expects prose text.
func collapseSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
