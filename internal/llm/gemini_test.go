package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.5-flash", "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"kanji":   map[string]any{"type": "string", "minLength": 1},
				"level":   map[string]any{"type": "string", "enum": []any{"N1", "N2", "N3"}},
				"game_ok": map[string]any{"type": "boolean"},
				"distractors": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"maxItems": float64(3),
				},
			},
			"required": []any{"kanji", "distractors"},
		},
	}

	schema := buildGeminiSchema(def)
	if schema.Type != genai.TypeArray {
		t.Fatalf("expected ARRAY, got %s", schema.Type)
	}
	item := schema.Items
	if item == nil || item.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT items, got %+v", item)
	}
	if len(item.Properties) != 4 || len(item.Required) != 2 {
		t.Fatalf("unexpected object shape: %d properties, %d required", len(item.Properties), len(item.Required))
	}

	kanji := item.Properties["kanji"]
	if kanji.Type != genai.TypeString || kanji.MinLength == nil || *kanji.MinLength != 1 {
		t.Fatalf("kanji not mapped: %+v", kanji)
	}
	if kanji.MaxLength != nil {
		t.Fatalf("unexpected maxLength %d", *kanji.MaxLength)
	}
	if got := item.Properties["level"].Enum; len(got) != 3 {
		t.Fatalf("expected 3 enum values, got %v", got)
	}
	if item.Properties["game_ok"].Type != genai.TypeBoolean {
		t.Fatalf("expected BOOLEAN, got %s", item.Properties["game_ok"].Type)
	}
	dist := item.Properties["distractors"]
	if dist.Items.Type != genai.TypeString || dist.MaxItems == nil || *dist.MaxItems != 3 {
		t.Fatalf("distractors not mapped: %+v", dist)
	}
}

func TestMapGeminiStopReason(t *testing.T) {
	candidate := func(reason string) *genai.GenerateContentResponse {
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReason(reason)}}}
	}
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{"stop", candidate("STOP"), StopEnd},
		{"max tokens", candidate("MAX_TOKENS"), StopMaxTokens},
		{"safety", candidate("SAFETY"), StopFiltered},
		{"recitation", candidate("RECITATION"), StopFiltered},
		{"no candidates", &genai.GenerateContentResponse{}, StopEnd},
		{"blocked prompt", &genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReason("SAFETY")},
		}, StopFiltered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapGeminiStopReason(tt.resp); got != tt.want {
				t.Fatalf("mapGeminiStopReason() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeminiConfig(t *testing.T) {
	plain := geminiConfig(Request{System: "sys", MaxTokens: 512})
	if plain.MaxOutputTokens != 512 || plain.ResponseMIMEType != "" || plain.Temperature != nil {
		t.Fatalf("unexpected plain config: %+v", plain)
	}
	if got := plain.SystemInstruction.Parts[0].Text; got != "sys" {
		t.Fatalf("system instruction = %q", got)
	}

	jsonMode := geminiConfig(Request{JSONObject: true, Temperature: 0.2})
	if jsonMode.ResponseMIMEType != "application/json" || jsonMode.ResponseSchema != nil {
		t.Fatalf("unexpected json config: %+v", jsonMode)
	}
	if jsonMode.Temperature == nil || *jsonMode.Temperature != float32(0.2) {
		t.Fatalf("temperature not set: %v", jsonMode.Temperature)
	}
	if jsonMode.SystemInstruction != nil {
		t.Fatal("expected no system instruction")
	}

	schema := geminiConfig(Request{Schema: &Schema{Name: "s", Definition: map[string]any{"type": "array"}}})
	if schema.ResponseSchema == nil || schema.ResponseSchema.Type != genai.TypeArray {
		t.Fatalf("schema not mapped: %+v", schema.ResponseSchema)
	}
}

func TestBuildGeminiContents(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "[]"},
		{Role: RoleAssistant, Content: `{"items":[]}`},
	})
	if len(contents) != 2 || contents[0].Role != "user" || contents[1].Role != "model" {
		t.Fatalf("unexpected contents: %+v", contents)
	}
}
