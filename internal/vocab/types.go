package vocab

import (
	"fmt"
	"slices"
	"strings"
)

// Level is the proficiency partition an item was ingested under.
type Level string

const (
	LevelN1 Level = "N1"
	LevelN2 Level = "N2"
	LevelN3 Level = "N3"
)

// AllLevels lists every level in the order the pipeline processes them.
var AllLevels = []Level{LevelN1, LevelN2, LevelN3}

// ParseLevel accepts "n3", "N3" and surrounding whitespace.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if !slices.Contains(AllLevels, l) {
		return "", fmt.Errorf("unknown level %q (want one of N1, N2, N3)", s)
	}
	return l, nil
}

// FileName returns the level's item file name, e.g. "n3-questions.json".
func (l Level) FileName() string {
	return strings.ToLower(string(l)) + "-questions.json"
}

// Item is one vocabulary quiz record.
//
// Fields the pipeline does not know about are kept and written back
// unchanged, so rewriting a file never drops data added by other tools.
type Item struct {
	// DisplayForm is the prompt shown to the learner. For loanwords and
	// particles it may be identical to Reading.
	DisplayForm string

	// Reading is the single correct answer.
	Reading string

	// Meaning is a short gloss. Empty means absent.
	Meaning string

	// Distractors are the wrong-answer candidates, ideally three.
	Distractors []string

	// Level is fixed at ingestion and never rewritten.
	Level Level

	// GameEnabled is nil until the eligibility filter has run.
	GameEnabled *bool

	// malformed is set when the distractors key is absent, null, or not
	// an array of strings. rawDistractors then holds the original value.
	malformed      bool
	rawDistractors []byte
	extra          map[string][]byte
}

// HasMeaning reports whether a gloss has been filled in.
func (it *Item) HasMeaning() bool {
	return strings.TrimSpace(it.Meaning) != ""
}

// DistractorsMalformed reports whether the stored distractors value was
// missing or not a list of strings.
func (it *Item) DistractorsMalformed() bool {
	return it.malformed
}

// SetDistractors replaces the distractors and clears any malformed state.
func (it *Item) SetDistractors(d []string) {
	it.Distractors = slices.Clone(d)
	it.malformed = false
	it.rawDistractors = nil
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	out := it
	out.Distractors = slices.Clone(it.Distractors)
	out.rawDistractors = slices.Clone(it.rawDistractors)
	if it.GameEnabled != nil {
		v := *it.GameEnabled
		out.GameEnabled = &v
	}
	if it.extra != nil {
		out.extra = make(map[string][]byte, len(it.extra))
		for k, v := range it.extra {
			out.extra[k] = slices.Clone(v)
		}
	}
	return out
}

// GameEligible reports whether the item can produce a meaningful
// multiple-choice question: a display form identical to its own reading
// cannot.
func (it *Item) GameEligible() bool {
	return it.DisplayForm != it.Reading
}
