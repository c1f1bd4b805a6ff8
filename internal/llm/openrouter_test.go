package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"}); err == nil {
		t.Fatal("expected error for empty API key")
	}

	// Model IDs are vendor-prefixed and used as given.
	for _, model := range []string{"google/gemini-2.0-flash-exp", "anthropic/claude-3-haiku"} {
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: model})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != model {
			t.Errorf("model = %q, want %q", p.ModelID(), model)
		}
	}
}

func TestOpenRouterProvider_SendsAttribution(t *testing.T) {
	var header http.Header
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"items":[]}`, "stop"))
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "google/gemini-2.0-flash-exp",
		BaseURL: server.URL + "/api/v1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(context.Background(), repairRequest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if path != "/api/v1/chat/completions" {
		t.Errorf("path = %q", path)
	}
	if got := header.Get("X-Title"); got != openRouterTitle {
		t.Errorf("X-Title = %q, want %q", got, openRouterTitle)
	}
	if got := header.Get("HTTP-Referer"); got != openRouterReferer {
		t.Errorf("HTTP-Referer = %q, want %q", got, openRouterReferer)
	}
	if got := header.Get("Authorization"); got != "Bearer sk-or-test" {
		t.Errorf("Authorization = %q", got)
	}
}
