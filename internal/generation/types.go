// Package generation talks to the external text-generation service on
// behalf of the curation passes. It builds the prompts, makes exactly one
// provider call per request and turns the untrusted reply into typed
// records. It never decides whether a record is good enough to keep; that
// is the caller's job.
package generation

import "errors"

// ErrEmptyResult is returned when the reply parsed cleanly but held no
// records.
var ErrEmptyResult = errors.New("generation returned no items")

const (
	// PurposeRepair labels distractor repair calls in the LLM event log.
	PurposeRepair = "distractor-repair"
	// PurposeGloss labels meaning augmentation calls in the LLM event log.
	PurposeGloss = "meaning-gloss"
)

// RepairInput is one item sent out for new distractors.
type RepairInput struct {
	Kanji       string   `json:"kanji"`
	Reading     string   `json:"reading"`
	Distractors []string `json:"distractors"`
}

// Correction is one proposed replacement distractor list. Reading is echoed
// back by most models but is not relied on.
type Correction struct {
	Kanji       string   `json:"kanji"`
	Reading     string   `json:"reading,omitempty"`
	Distractors []string `json:"distractors"`
}

// GlossInput is one item sent out for a short meaning.
type GlossInput struct {
	Kanji   string `json:"kanji"`
	Reading string `json:"reading"`
}

// Gloss is one returned meaning, keyed by display form.
type Gloss struct {
	Kanji   string `json:"kanji"`
	Meaning string `json:"meaning_zh"`
}
