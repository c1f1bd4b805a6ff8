package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/kotoba/internal/logger"
	"github.com/abhisek/kotoba/internal/store"
)

// LoggingProvider records every call in the event log and the process log.
type LoggingProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	log      *logger.Logger
}

// WithLogging wraps p. provider is the backend name stored with each event.
// repo and log may be nil.
func WithLogging(p Provider, provider string, repo store.EventRepo, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, provider: provider, repo: repo, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		RunID:        RunIDFrom(ctx),
		Provider:     l.provider,
		Model:        l.inner.ModelID(),
		Purpose:      PurposeFrom(ctx),
		LatencyMs:    time.Since(start).Milliseconds(),
		Success:      err == nil,
		RequestBody:  describeRequest(req),
		ResponseBody: string(rejectedReply(err)),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}

	fields := []any{"purpose", ev.Purpose, "model", ev.Model, "latency_ms", ev.LatencyMs}
	if err != nil {
		ev.ErrorMessage = err.Error()
		l.log.Warn("llm request failed", append(fields, "error", err)...)
	} else {
		l.log.Debug("llm request", append(fields,
			"input_tokens", ev.InputTokens, "output_tokens", ev.OutputTokens, "stop", resp.StopReason)...)
	}

	if l.repo != nil {
		if recErr := l.repo.AppendLLMRequest(context.WithoutCancel(ctx), ev); recErr != nil {
			l.log.Warn("record llm event", "error", recErr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// rejectedReply returns the raw reply carried by a parse or truncation
// failure, so the event log shows what the generator actually sent.
func rejectedReply(err error) json.RawMessage {
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		return inv.Content
	}
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return maxTok.Content
	}
	return nil
}

// describeRequest renders a request as sectioned plain text for the log.
func describeRequest(req Request) string {
	var b strings.Builder
	section := func(name, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", name, body)
	}

	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		section(string(m.Role), m.Content)
	}

	switch {
	case req.Schema != nil:
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	case req.JSONObject:
		b.WriteString("[format: json_object]\n")
	}
	return b.String()
}
