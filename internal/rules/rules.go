// Package rules classifies vocabulary items as usable or broken for a
// multiple-choice quiz. Every rule is a pure predicate over one item.
package rules

import (
	"github.com/abhisek/kotoba/internal/vocab"
)

// MinDistractors is the number of distractors a quiz question needs.
const MinDistractors = 3

// RuleID names one validation rule. The set is closed: every ID below has
// exactly one Rule in Default.
type RuleID string

const (
	RuleMissingStructure  RuleID = "missing-structure"
	RulePlaceholder       RuleID = "placeholder"
	RuleDuplicateReading  RuleID = "duplicate-reading"
	RuleInsufficient      RuleID = "insufficient"
	RuleInternalDuplicate RuleID = "internal-duplicate"
	RuleScriptViolation   RuleID = "script-violation"
)

// Rule checks one property of an item.
// Implementations must be stateless and deterministic.
type Rule interface {
	// ID returns the rule's identifier used in verdicts and reports.
	ID() RuleID

	// Violated reports whether the item breaks this rule.
	Violated(it *vocab.Item) bool
}

// Default is the rule set in report order. Missing structure is checked
// first; when it fires no other rule is evaluated.
var Default = []Rule{
	missingStructure{},
	placeholder{},
	duplicateReading{},
	insufficient{},
	internalDuplicate{},
	scriptViolation{},
}

// Verdict is the classification of one item.
type Verdict struct {
	Reasons []RuleID
}

// Valid reports whether no rule fired.
func (v Verdict) Valid() bool { return len(v.Reasons) == 0 }

// Classify runs the default rule set against it.
func Classify(it *vocab.Item) Verdict {
	return ClassifyWith(Default, it)
}

// ClassifyWith runs the given rules in order.
func ClassifyWith(rs []Rule, it *vocab.Item) Verdict {
	var v Verdict
	for _, r := range rs {
		if !r.Violated(it) {
			continue
		}
		v.Reasons = append(v.Reasons, r.ID())
		if r.ID() == RuleMissingStructure {
			break
		}
	}
	return v
}

// Invalid returns the indexes of items that fail at least one rule, in
// store order, together with their verdicts.
func Invalid(items []vocab.Item) ([]int, map[int]Verdict) {
	var idx []int
	verdicts := make(map[int]Verdict)
	for i := range items {
		v := Classify(&items[i])
		if v.Valid() {
			continue
		}
		idx = append(idx, i)
		verdicts[i] = v
	}
	return idx, verdicts
}

type missingStructure struct{}

func (missingStructure) ID() RuleID { return RuleMissingStructure }

func (missingStructure) Violated(it *vocab.Item) bool {
	return it.DistractorsMalformed()
}

type placeholder struct{}

func (placeholder) ID() RuleID { return RulePlaceholder }

func (placeholder) Violated(it *vocab.Item) bool {
	for _, d := range it.Distractors {
		if IsPlaceholder(d) {
			return true
		}
	}
	return false
}

type duplicateReading struct{}

func (duplicateReading) ID() RuleID { return RuleDuplicateReading }

// A distractor equal to the display form is treated like one equal to the
// reading: for kana words they are the same string, and for kanji words it
// repeats the prompt as an option.
func (duplicateReading) Violated(it *vocab.Item) bool {
	reading := Normalize(it.Reading)
	display := Normalize(it.DisplayForm)
	for _, d := range it.Distractors {
		n := Normalize(d)
		if n == reading || (display != "" && n == display) {
			return true
		}
	}
	return false
}

type insufficient struct{}

func (insufficient) ID() RuleID { return RuleInsufficient }

func (insufficient) Violated(it *vocab.Item) bool {
	return len(it.Distractors) < MinDistractors
}

type internalDuplicate struct{}

func (internalDuplicate) ID() RuleID { return RuleInternalDuplicate }

func (internalDuplicate) Violated(it *vocab.Item) bool {
	seen := make(map[string]struct{}, len(it.Distractors))
	for _, d := range it.Distractors {
		n := Normalize(d)
		if _, dup := seen[n]; dup {
			return true
		}
		seen[n] = struct{}{}
	}
	return false
}

type scriptViolation struct{}

func (scriptViolation) ID() RuleID { return RuleScriptViolation }

func (scriptViolation) Violated(it *vocab.Item) bool {
	for _, d := range it.Distractors {
		if ContainsHan(d) {
			return true
		}
	}
	return false
}
