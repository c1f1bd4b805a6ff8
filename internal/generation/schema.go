package generation

import "github.com/abhisek/kotoba/internal/llm"

// CorrectionsSchema is the shape of the list extracted from a repair reply.
var CorrectionsSchema = &llm.Schema{
	Name:        "distractor-corrections",
	Description: "Replacement distractor lists keyed by display form",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"kanji":   map[string]any{"type": "string", "minLength": 1},
				"reading": map[string]any{"type": "string"},
				"distractors": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"kanji", "distractors"},
		},
	},
}

// GlossesSchema is the shape of the list extracted from a gloss reply.
var GlossesSchema = &llm.Schema{
	Name:        "meaning-glosses",
	Description: "Short meanings keyed by display form",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"kanji":      map[string]any{"type": "string", "minLength": 1},
				"meaning_zh": map[string]any{"type": "string"},
			},
			"required": []any{"kanji", "meaning_zh"},
		},
	},
}
