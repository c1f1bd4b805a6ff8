package llm

import "context"

type (
	purposeKey struct{}
	runIDKey   struct{}
)

// WithPurpose labels calls made under ctx, e.g. "distractor-repair".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// WithRunID ties calls made under ctx to one curation run.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

func RunIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(runIDKey{}).(string)
	return v
}
