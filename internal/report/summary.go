// Package report keeps the append-only curation log. Sections are written
// for humans; nothing in the pipeline reads the log back.
package report

import (
	"github.com/google/uuid"

	"github.com/abhisek/kotoba/internal/rules"
	"github.com/abhisek/kotoba/internal/vocab"
)

// NewRunID returns a fresh identifier shared by a run's report sections and
// LLM events.
func NewRunID() string {
	return uuid.NewString()
}

// Issue is one item with at least one rule violation or diagnostic.
type Issue struct {
	Index       int
	Kanji       string
	Reading     string
	Distractors string // as stored
	Reasons     []rules.RuleID
	Diagnostics []rules.DiagnosticID
}

// CheckSummary is the result of classifying one level.
type CheckSummary struct {
	Level        vocab.Level
	Items        int
	Invalid      int
	ByRule       map[rules.RuleID]int
	ByDiagnostic map[rules.DiagnosticID]int
	Issues       []Issue
}

// Summarize classifies and diagnoses every item of a level.
func Summarize(level vocab.Level, items []vocab.Item) CheckSummary {
	sum := CheckSummary{
		Level:        level,
		Items:        len(items),
		ByRule:       make(map[rules.RuleID]int),
		ByDiagnostic: make(map[rules.DiagnosticID]int),
	}
	for i := range items {
		it := &items[i]
		v := rules.Classify(it)
		diags := rules.Diagnose(it)
		if v.Valid() && len(diags) == 0 {
			continue
		}
		if !v.Valid() {
			sum.Invalid++
		}
		for _, r := range v.Reasons {
			sum.ByRule[r]++
		}
		for _, d := range diags {
			sum.ByDiagnostic[d]++
		}
		sum.Issues = append(sum.Issues, Issue{
			Index:       i,
			Kanji:       it.DisplayForm,
			Reading:     it.Reading,
			Distractors: it.DistractorsJSON(),
			Reasons:     v.Reasons,
			Diagnostics: diags,
		})
	}
	return sum
}
