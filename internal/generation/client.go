package generation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/kotoba/internal/llm"
)

// Config tunes the requests the client sends.
type Config struct {
	RepairMaxTokens int
	GlossMaxTokens  int
	Temperature     float64
}

// DefaultConfig returns the token budgets used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		RepairMaxTokens: 4096,
		GlossMaxTokens:  8192,
	}
}

// Client requests distractors and meanings from a provider. It makes one
// provider call per method call and never retries on its own.
type Client struct {
	provider llm.Provider
	config   Config
}

// New creates a Client on top of provider.
func New(provider llm.Provider, cfg Config) *Client {
	return &Client{provider: provider, config: cfg}
}

// Distractors asks for replacement distractor lists for items.
func (c *Client) Distractors(ctx context.Context, items []RepairInput) ([]Correction, error) {
	ctx = llm.WithPurpose(ctx, PurposeRepair)

	payload := make([]RepairInput, len(items))
	for i, it := range items {
		if it.Distractors == nil {
			it.Distractors = []string{}
		}
		payload[i] = it
	}

	resp, err := c.call(ctx, repairSystemPrompt, payload, c.config.RepairMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("distractor generation failed: %w", err)
	}

	var out []Correction
	if err := decodeList(resp, CorrectionsSchema, &out); err != nil {
		return nil, fmt.Errorf("failed to parse distractor reply: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	return out, nil
}

// Meanings asks for short glosses of items in language.
func (c *Client) Meanings(ctx context.Context, items []GlossInput, language string) ([]Gloss, error) {
	ctx = llm.WithPurpose(ctx, PurposeGloss)

	resp, err := c.call(ctx, glossSystemPrompt(language), items, c.config.GlossMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("meaning generation failed: %w", err)
	}

	var out []Gloss
	if err := decodeList(resp, GlossesSchema, &out); err != nil {
		return nil, fmt.Errorf("failed to parse meaning reply: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, system string, payload any, maxTokens int) (*llm.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req := llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: string(body)},
		},
		JSONObject:  true,
		MaxTokens:   maxTokens,
		Temperature: c.config.Temperature,
	}
	return c.provider.Generate(ctx, req)
}
