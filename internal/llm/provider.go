package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

// Provider is the boundary to an external text-generation backend.
// Replies are untrusted: callers validate whatever comes back before
// touching the dataset.
type Provider interface {
	// Generate sends one request. When req.Schema is set the returned
	// Content has been checked against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model, before any backend substitution.
	ModelID() string
}

// Request is one generation call. Curation passes send instructions in
// System and the JSON batch payload as a single user message.
type Request struct {
	System   string
	Messages []Message

	// Schema binds the reply to a JSON Schema using the backend's native
	// structured output where it has one.
	Schema *Schema

	// JSONObject asks for a JSON reply of any shape. Ignored when Schema
	// is set. Backends without a JSON mode are told so in the prompt.
	JSONObject bool

	MaxTokens   int
	Temperature float64 // zero leaves the backend default
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name is kebab-case, e.g.
// "distractor-corrections".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a reply that passed the shared checks in finish.
type Response struct {
	// Content is the reply text. It is valid JSON only when the request
	// carried a Schema; otherwise it may wrap the JSON in prose.
	Content json.RawMessage
	Usage   Usage

	// Model is what the backend reports serving, which may be more
	// specific than ModelID.
	Model      string
	StopReason string
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopFiltered  = "filtered" // withheld by the backend's content policy
)

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish applies the checks every backend shares before a reply leaves the
// provider. A withheld or empty reply is invalid; a truncated one is
// reported as such when it cannot be used; a reply bound to a schema must
// conform to it.
func finish(req Request, resp *Response) (*Response, error) {
	if resp.StopReason == StopFiltered {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: errors.New("reply withheld by content filter")}
	}
	if len(bytes.TrimSpace(resp.Content)) == 0 {
		if resp.StopReason == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{}
		}
		return nil, &ErrInvalidResponse{Err: errors.New("empty reply")}
	}
	if req.Schema != nil {
		if err := validateResponse(req.Schema, resp.Content); err != nil {
			if resp.StopReason == StopMaxTokens {
				return nil, &ErrMaxTokensExceeded{Content: resp.Content}
			}
			return nil, err
		}
	}
	return resp, nil
}

// resolveModel maps a friendly model name to a provider model ID. Names not
// in the table are passed through, so full model IDs work too.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
