package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func correctionSchema() *Schema {
	return &Schema{
		Name: "corrections-test",
		Definition: map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kanji":       map[string]any{"type": "string", "minLength": 1},
					"level":       map[string]any{"type": "string", "enum": []any{"N1", "N2", "N3"}},
					"distractors": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"required": []any{"kanji", "distractors"},
			},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `[{"kanji":"重力","level":"N3","distractors":["じゅうりょう","ちょうりょく","じゅうろく"]}]`, false},
		{"optional omitted", `[{"kanji":"猫","distractors":[]}]`, false},
		{"empty list", `[]`, false},
		{"missing distractors", `[{"kanji":"鳥"}]`, true},
		{"empty kanji", `[{"kanji":"","distractors":["a"]}]`, true},
		{"wrong element type", `[{"kanji":"魚","distractors":[1,2,3]}]`, true},
		{"unknown level", `[{"kanji":"馬","level":"N5","distractors":[]}]`, true},
		{"object instead of list", `{"items":[]}`, true},
		{"malformed", `[{not json}]`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(correctionSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got %T: %v", err, err)
			}
			if string(inv.Content) != tt.raw {
				t.Fatalf("raw reply not carried: %q", inv.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("expected nil schema to accept anything, got: %v", err)
	}
}

func TestValidateResponse_RedefinedSchemaRecompiles(t *testing.T) {
	loose := &Schema{Name: "gloss-test", Definition: map[string]any{"type": "array"}}
	strict := &Schema{Name: "gloss-test", Definition: map[string]any{"type": "array", "maxItems": 1}}
	raw := json.RawMessage(`[{"kanji":"犬"},{"kanji":"猫"}]`)

	if err := validateResponse(loose, raw); err != nil {
		t.Fatalf("loose schema: %v", err)
	}
	if err := validateResponse(strict, raw); err == nil {
		t.Fatal("expected strict schema under the same name to reject two items")
	}
}

func TestValidate_Exported(t *testing.T) {
	if err := Validate(correctionSchema(), json.RawMessage(`[{"kanji":"猫","distractors":["ぬこ"]}]`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	err := Validate(correctionSchema(), json.RawMessage(`[{"distractors":[]}]`))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}
