package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// chatServer answers every chat completion with status and body and keeps
// the last decoded request.
func chatServer(t *testing.T, status int, body any, got *map[string]any) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			json.NewDecoder(r.Body).Decode(got)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != 0 {
			w.WriteHeader(status)
		}
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server.URL + "/v1"
}

func newTestOpenAIProvider(t *testing.T, status int, body any, got *map[string]any) *OpenAIProvider {
	t.Helper()
	config := openai.DefaultConfig("test-key")
	config.BaseURL = chatServer(t, status, body, got)
	return &OpenAIProvider{client: openai.NewClientWithConfig(config), model: "gpt-5-nano"}
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-5-nano",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func chatError(kind, msg string) map[string]any {
	return map[string]any{"error": map[string]any{"type": kind, "message": msg}}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var got map[string]any
	p := newTestOpenAIProvider(t, 0, chatCompletion(`{"items":[{"kanji":"猫","distractors":["ぬこ","ねろ","わこ"]}]}`, "stop"), &got)

	resp, err := p.Generate(context.Background(), repairRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Fatalf("expected stop reason %q, got %q", StopEnd, resp.StopReason)
	}

	format, _ := got["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", got["response_format"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(msgs))
	}
	if first, _ := msgs[0].(map[string]any); first["role"] != "system" {
		t.Fatalf("expected system message first, got %v", msgs[0])
	}
}

func TestOpenAIProvider_FinishReasons(t *testing.T) {
	t.Run("length keeps content", func(t *testing.T) {
		p := newTestOpenAIProvider(t, 0, chatCompletion(`{"data":[]}`, "length"), nil)
		resp, err := p.Generate(context.Background(), repairRequest)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StopReason != StopMaxTokens {
			t.Fatalf("expected %q, got %q", StopMaxTokens, resp.StopReason)
		}
	})
	t.Run("length with nothing", func(t *testing.T) {
		p := newTestOpenAIProvider(t, 0, chatCompletion("", "length"), nil)
		_, err := p.Generate(context.Background(), repairRequest)
		var maxTok *ErrMaxTokensExceeded
		if !errors.As(err, &maxTok) {
			t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
		}
	})
	t.Run("content filter", func(t *testing.T) {
		p := newTestOpenAIProvider(t, 0, chatCompletion("", "content_filter"), nil)
		_, err := p.Generate(context.Background(), repairRequest)
		var inv *ErrInvalidResponse
		if !errors.As(err, &inv) {
			t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
		}
	})
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, chatError("tokens", "Rate limit exceeded"), func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"server error", http.StatusInternalServerError, chatError("server_error", "Internal server error"), func(err error) bool {
			var unavail *ErrProviderUnavailable
			return errors.As(err, &unavail)
		}},
		{"bad request", http.StatusBadRequest, chatError("invalid_request_error", "max_completion_tokens too large"), func(err error) bool {
			var rejected *ErrRequestRejected
			return errors.As(err, &rejected) && rejected.StatusCode == http.StatusBadRequest
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, tt.status, tt.body, nil)
			_, err := p.Generate(context.Background(), repairRequest)
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error: %T (%v)", err, err)
			}
		})
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	p := newTestOpenAIProvider(t, 0, map[string]any{"id": "chatcmpl-test", "model": "gpt-5-nano", "choices": []any{}}, nil)
	_, err := p.Generate(context.Background(), repairRequest)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-5-nano"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: "https://llm.internal.example/v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o" {
		t.Fatalf("expected 'gpt-4o', got %q", p.ModelID())
	}
}

func TestOpenAIResponseFormat(t *testing.T) {
	schema := &Schema{Name: "corrections", Definition: map[string]any{"type": "object"}}

	tests := []struct {
		name string
		req  Request
		want openai.ChatCompletionResponseFormatType
	}{
		{"schema wins over json mode", Request{Schema: schema, JSONObject: true}, openai.ChatCompletionResponseFormatTypeJSONSchema},
		{"json mode", Request{JSONObject: true}, openai.ChatCompletionResponseFormatTypeJSONObject},
		{"free text", Request{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := openAIResponseFormat(tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want == "" {
				if format != nil {
					t.Errorf("expected no response format, got %+v", format)
				}
				return
			}
			if format == nil || format.Type != tt.want {
				t.Fatalf("format = %+v, want type %q", format, tt.want)
			}
			if tt.want == openai.ChatCompletionResponseFormatTypeJSONSchema && (format.JSONSchema.Name != "corrections" || !format.JSONSchema.Strict) {
				t.Errorf("unexpected json schema block: %+v", format.JSONSchema)
			}
		})
	}
}
