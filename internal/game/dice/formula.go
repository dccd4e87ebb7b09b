// Package dice provides the randomness abstraction and the tolerant
// damage-formula evaluator used by the combat engine.
//
// Formulas arrive from content files and from narrator output, so the parser
// never fails: malformed input degrades to documented defaults instead of
// propagating an error into a combat round.
package dice

import (
	"strconv"
	"strings"
)

// Documented fallback values for malformed formula input.
const (
	// DefaultCount is used when the die count before 'd' is missing or non-numeric.
	DefaultCount = 1
	// DefaultSides is used when the face count after 'd' is missing or non-numeric.
	DefaultSides = 6
	// FallbackLiteral is the result for a non-dice formula with no parseable integer.
	FallbackLiteral = 1
)

// Formula is a parsed damage formula.
//
// Invariant: if IsDice, Count >= 1 and Sides >= 1; otherwise Literal >= 1.
type Formula struct {
	Raw     string
	IsDice  bool
	Count   int
	Sides   int
	Literal int
}

// ParseFormula parses a damage formula string. It recognizes "<count>d<sides>"
// (e.g. "2d8"); any string without a 'd' is read as a literal integer, taking
// the leading digit run so range shorthand like "5-10" resolves to its low
// bound. ParseFormula never fails: missing or non-numeric pieces degrade to
// DefaultCount/DefaultSides/FallbackLiteral.
//
// Postcondition: the returned Formula satisfies the type invariant.
func ParseFormula(raw string) Formula {
	s := strings.ToLower(strings.TrimSpace(raw))

	dIdx := strings.IndexByte(s, 'd')
	if dIdx < 0 {
		lit := leadingInt(s)
		if lit < 1 {
			lit = FallbackLiteral
		}
		return Formula{Raw: raw, Literal: lit}
	}

	// Old saves carry junk like "1dd6d"; keep only digits on each side.
	count := digitsOnlyInt(s[:dIdx])
	if count < 1 {
		count = DefaultCount
	}
	sides := digitsOnlyInt(s[dIdx+1:])
	if sides < 1 {
		sides = DefaultSides
	}
	return Formula{Raw: raw, IsDice: true, Count: count, Sides: sides}
}

// Eval rolls the formula using src and returns the outcome.
//
// Precondition: src must be non-nil.
// Postcondition: for a dice formula the result is in [Count, Count*Sides];
// for a literal it equals Literal. The result is always >= 1.
func (f Formula) Eval(src Source) int {
	if !f.IsDice {
		return f.Literal
	}
	total := 0
	for i := 0; i < f.Count; i++ {
		total += src.Intn(f.Sides) + 1
	}
	return total
}

// Evaluate parses and rolls a formula string in a single call.
//
// Postcondition: result >= 1 for every input, including malformed ones.
func Evaluate(raw string, src Source) int {
	return ParseFormula(raw).Eval(src)
}

// leadingInt parses the leading run of digits in s, or -1 if there is none.
func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return -1
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return -1
	}
	return n
}

// digitsOnlyInt strips every non-digit byte from s and parses the remainder,
// returning -1 when nothing is left.
func digitsOnlyInt(s string) int {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	if b.Len() == 0 {
		return -1
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return -1
	}
	return n
}
