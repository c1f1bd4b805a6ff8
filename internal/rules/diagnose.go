package rules

import (
	"strings"

	"github.com/abhisek/kotoba/internal/vocab"
)

// DiagnosticID names a report-only finding. Diagnostics never make an item
// eligible for repair; they exist so a reviewer can spot noise the rule set
// deliberately tolerates.
type DiagnosticID string

const (
	DiagLatinCharacters     DiagnosticID = "latin-characters"
	DiagExplicitInvalidText DiagnosticID = "explicit-invalid-text"
)

// AllDiagnostics lists diagnostics in report order.
var AllDiagnostics = []DiagnosticID{DiagLatinCharacters, DiagExplicitInvalidText}

// explicitInvalidMarkers are matched case-sensitively, the way a human
// scanning the file would label them.
var explicitInvalidMarkers = []string{"invalid", "incorrect", "Option"}

// Diagnose returns the report-only findings for an item.
func Diagnose(it *vocab.Item) []DiagnosticID {
	var out []DiagnosticID

	for _, d := range it.Distractors {
		if ContainsLatin(d) {
			out = append(out, DiagLatinCharacters)
			break
		}
	}

	for _, d := range it.Distractors {
		if containsAny(d, explicitInvalidMarkers) {
			out = append(out, DiagExplicitInvalidText)
			break
		}
	}

	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
