// Package numbers provides a pluggable number-to-words engine. The compiler
// and lexicon word-splitter both expand digit runs into spoken word
// sequences through the Engine interface; core/compile uses it to
// materialize RangeSlotList alternatives, core/lexicon uses it to expand
// bare numeric sub-words encountered while splitting text against a
// pronunciation lexicon.
//
// No third-party package in the retrieved example pack implements an
// RBNF-style number formatter, so English is implemented here directly,
// following the teacher's convention (see core/types/duration.go in the
// reference pack) of a small, heavily-commented, self-contained
// parser/formatter pair.
package numbers

import (
	"fmt"
	"strconv"
	"strings"
)

// Engine converts a numeral into one or more spoken-word renderings. A
// single engine may expose several rulesets (e.g. cardinal vs. ordinal);
// core/compile enumerates Rulesets() to build one alternative per rendering
// when materializing a RangeSlotList.
type Engine interface {
	// Rulesets lists the renderings this engine can produce, in a stable
	// order (callers use the order to keep memoized output deterministic).
	Rulesets() []string
	// FormatNumber renders value (an integer or decimal literal, e.g. "5"
	// or "5.5") as words under the named ruleset.
	FormatNumber(value string, ruleset string) (string, error)
}

// English is the default Engine: cardinal and ordinal English number names
// for integers, plus a "point"-based reading for decimals.
type English struct{}

const (
	RulesetCardinal = "cardinal"
	RulesetOrdinal  = "ordinal"
)

func (English) Rulesets() []string {
	return []string{RulesetCardinal, RulesetOrdinal}
}

func (e English) FormatNumber(value string, ruleset string) (string, error) {
	whole, frac, isDecimal := strings.Cut(value, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return "", fmt.Errorf("numbers: %q is not a whole number: %w", whole, err)
	}

	switch ruleset {
	case RulesetCardinal:
		words := cardinal(n)
		if isDecimal {
			return words + " point " + digitsToWords(frac), nil
		}
		return words, nil
	case RulesetOrdinal:
		if isDecimal {
			return "", fmt.Errorf("numbers: ordinal ruleset does not support decimals")
		}
		return ordinal(n), nil
	default:
		return "", fmt.Errorf("numbers: unknown ruleset %q", ruleset)
	}
}

var ones = [...]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = [...]string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

var onesOrdinal = [...]string{
	"zeroth", "first", "second", "third", "fourth", "fifth", "sixth", "seventh",
	"eighth", "ninth", "tenth", "eleventh", "twelfth", "thirteenth", "fourteenth",
	"fifteenth", "sixteenth", "seventeenth", "eighteenth", "nineteenth",
}

var tensOrdinal = [...]string{
	"", "", "twentieth", "thirtieth", "fortieth", "fiftieth", "sixtieth",
	"seventieth", "eightieth", "ninetieth",
}

var scales = [...]string{"", " thousand", " million", " billion", " trillion"}

// cardinal renders n in English words, e.g. 123 -> "one hundred twenty-three".
func cardinal(n int64) string {
	if n == 0 {
		return "zero"
	}
	negative := n < 0
	if negative {
		n = -n
	}

	var groups []int64
	for n > 0 {
		groups = append(groups, n%1000)
		n /= 1000
	}

	var parts []string
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			continue
		}
		parts = append(parts, belowThousand(g)+scales[i])
	}

	out := strings.Join(parts, " ")
	if negative {
		out = "negative " + out
	}
	return out
}

func belowThousand(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, ones[n/100], "hundred")
		n %= 100
	}
	if n >= 20 {
		t := tens[n/10]
		rem := n % 10
		if rem == 0 {
			parts = append(parts, t)
		} else {
			parts = append(parts, t+"-"+ones[rem])
		}
	} else if n > 0 {
		parts = append(parts, ones[n])
	}
	return strings.Join(parts, " ")
}

// ordinal renders n as an English ordinal, e.g. 23 -> "twenty-third". Only
// the lowest non-zero group of three digits takes the ordinal suffix, and
// higher groups stay cardinal; when that lowest group sits above the units
// group, its scale word carries the suffix instead (1000 -> "one
// thousandth").
func ordinal(n int64) string {
	if n == 0 {
		return onesOrdinal[0]
	}
	negative := n < 0
	if negative {
		n = -n
	}
	if n < 1000 {
		out := ordinalBelowThousand(n)
		if negative {
			out = "negative " + out
		}
		return out
	}

	var groups []int64
	rem := n
	for rem > 0 {
		groups = append(groups, rem%1000)
		rem /= 1000
	}

	lowestNonZero := -1
	for i, g := range groups {
		if g != 0 {
			lowestNonZero = i
			break
		}
	}

	var parts []string
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			continue
		}
		switch {
		case i == lowestNonZero && i > 0:
			parts = append(parts, belowThousand(g)+scaleOrdinal(scales[i]))
		case i == lowestNonZero:
			parts = append(parts, ordinalBelowThousand(g))
		default:
			parts = append(parts, belowThousand(g)+scales[i])
		}
	}

	out := strings.Join(parts, " ")
	if negative {
		out = "negative " + out
	}
	return out
}

// scaleOrdinal turns a cardinal scale word (" thousand", " million", ...)
// into its ordinal form (" thousandth", " millionth", ...).
func scaleOrdinal(scale string) string {
	if scale == "" {
		return ""
	}
	return scale + "th"
}

func ordinalBelowThousand(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, ones[n/100], "hundred")
		n %= 100
		if n == 0 {
			return strings.Join(parts[:len(parts)-1], " ") + " hundredth"
		}
	}
	if n >= 20 {
		t := n / 10
		rem := n % 10
		if rem == 0 {
			parts = append(parts, tensOrdinal[t])
		} else {
			parts = append(parts, tens[t]+"-"+onesOrdinal[rem])
		}
	} else {
		parts = append(parts, onesOrdinal[n])
	}
	return strings.Join(parts, " ")
}

func digitsToWords(digits string) string {
	words := make([]string, 0, len(digits))
	for _, d := range digits {
		if d < '0' || d > '9' {
			continue
		}
		words = append(words, ones[d-'0'])
	}
	return strings.Join(words, " ")
}
