package curate

import (
	"context"
	"strings"
	"time"

	"github.com/abhisek/kotoba/internal/generation"
	"github.com/abhisek/kotoba/internal/logger"
	"github.com/abhisek/kotoba/internal/report"
	"github.com/abhisek/kotoba/internal/vocab"
)

// AugmentConfig tunes the meaning augmentation pass.
type AugmentConfig struct {
	BatchSize int
	Delay     time.Duration
	Language  string
}

// AugmentSummary counts what one augmentation run did to a level.
type AugmentSummary struct {
	Missing       int // items without a meaning at the start
	Filled        int
	MatchFailures int // glosses that matched no item still missing a meaning
	FailedBatches int
}

// Augmenter fills in absent meanings. It never overwrites one.
type Augmenter struct {
	source  GlossSource
	dataDir string
	config  AugmentConfig
	rec     report.Recorder
	log     *logger.Logger
}

// NewAugmenter creates an Augmenter over level files in dataDir.
func NewAugmenter(source GlossSource, dataDir string, cfg AugmentConfig, rec report.Recorder, log *logger.Logger) *Augmenter {
	if rec == nil {
		rec = report.Discard
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Augmenter{source: source, dataDir: dataDir, config: cfg, rec: rec, log: log}
}

// Augment loads a level and fills missing meanings batch by batch.
func (a *Augmenter) Augment(ctx context.Context, level vocab.Level) (AugmentSummary, error) {
	s, err := vocab.Load(a.dataDir, level)
	if err != nil {
		return AugmentSummary{}, err
	}
	return a.AugmentStore(ctx, s)
}

// AugmentStore runs the pass against an already loaded store.
func (a *Augmenter) AugmentStore(ctx context.Context, s *vocab.Store) (AugmentSummary, error) {
	log := a.log.With("level", s.Level)

	var missing []int
	for i := range s.Items {
		if !s.Items[i].HasMeaning() {
			missing = append(missing, i)
		}
	}
	sum := AugmentSummary{Missing: len(missing)}
	if len(missing) == 0 {
		log.Info("no meanings missing")
		return sum, nil
	}

	chunks := batches(missing, a.config.BatchSize)
	for n, batch := range chunks {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		blog := log.With("batch", n+1, "batches", len(chunks), "items", len(batch))

		filled, err := a.augmentBatch(ctx, s, batch, &sum)
		if err != nil {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			sum.FailedBatches++
			blog.Warn("augment batch failed", "error", err)
			a.rec.Record(report.Finding{
				Level:  s.Level,
				Kind:   report.KindBatchError,
				Kanji:  batchKeys(s, batch),
				Detail: err.Error(),
			})
		} else if filled > 0 {
			if err := s.Save(); err != nil {
				return sum, err
			}
			blog.Info("augment batch saved", "filled", filled)
		}

		if n < len(chunks)-1 {
			if err := sleep(ctx, a.config.Delay); err != nil {
				return sum, err
			}
		}
	}
	return sum, nil
}

func (a *Augmenter) augmentBatch(ctx context.Context, s *vocab.Store, batch []int, sum *AugmentSummary) (int, error) {
	payload := make([]generation.GlossInput, len(batch))
	for i, idx := range batch {
		payload[i] = generation.GlossInput{Kanji: s.Items[idx].DisplayForm, Reading: s.Items[idx].Reading}
	}

	glosses, err := a.source.Meanings(ctx, payload, a.config.Language)
	if err != nil {
		return 0, err
	}

	filled := 0
	for _, g := range glosses {
		meaning := strings.TrimSpace(g.Meaning)
		if meaning == "" {
			continue
		}
		idx, ok := firstMissing(s, batch, strings.TrimSpace(g.Kanji))
		if !ok {
			sum.MatchFailures++
			a.rec.Record(report.Finding{Level: s.Level, Kind: report.KindMatchFail, Kanji: g.Kanji})
			continue
		}
		s.Items[idx].Meaning = meaning
		filled++
		sum.Filled++
		a.rec.Record(report.Finding{Level: s.Level, Kind: report.KindFilled, Kanji: g.Kanji, Detail: meaning})
	}
	return filled, nil
}

func firstMissing(s *vocab.Store, batch []int, kanji string) (int, bool) {
	for _, idx := range batch {
		it := &s.Items[idx]
		if it.DisplayForm == kanji && !it.HasMeaning() {
			return idx, true
		}
	}
	return 0, false
}
