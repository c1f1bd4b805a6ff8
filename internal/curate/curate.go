// Package curate holds the passes that rewrite level files: distractor
// repair, meaning augmentation, game eligibility and hand-written
// overrides. Passes run one level at a time and one batch at a time.
package curate

import (
	"context"
	"time"

	"github.com/abhisek/kotoba/internal/generation"
)

// DistractorSource proposes replacement distractors for a batch.
type DistractorSource interface {
	Distractors(ctx context.Context, items []generation.RepairInput) ([]generation.Correction, error)
}

// GlossSource proposes short meanings for a batch.
type GlossSource interface {
	Meanings(ctx context.Context, items []generation.GlossInput, language string) ([]generation.Gloss, error)
}

// batches splits idx into consecutive chunks of at most size.
func batches(idx []int, size int) [][]int {
	if size < 1 {
		size = 1
	}
	var out [][]int
	for start := 0; start < len(idx); start += size {
		end := min(start+size, len(idx))
		out = append(out, idx[start:end])
	}
	return out
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
