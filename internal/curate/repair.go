package curate

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/kotoba/internal/generation"
	"github.com/abhisek/kotoba/internal/logger"
	"github.com/abhisek/kotoba/internal/report"
	"github.com/abhisek/kotoba/internal/rules"
	"github.com/abhisek/kotoba/internal/vocab"
)

// RepairConfig tunes the repair pass.
type RepairConfig struct {
	BatchSize int
	Delay     time.Duration
}

// RepairSummary counts what one repair run did to a level.
type RepairSummary struct {
	Invalid       int // items selected at the start of the run
	Fixed         int // items whose distractors were replaced
	Forced        int // of Fixed, replaced by the last-resort list
	MatchFailures int // corrections that matched no pending item
	FailedBatches int
	Unresolved    int // items still invalid after the run
}

// Repairer runs the distractor repair pass.
type Repairer struct {
	source  DistractorSource
	dataDir string
	config  RepairConfig
	rec     report.Recorder
	log     *logger.Logger
}

// NewRepairer creates a Repairer reading and writing level files under
// dataDir.
func NewRepairer(source DistractorSource, dataDir string, cfg RepairConfig, rec report.Recorder, log *logger.Logger) *Repairer {
	if rec == nil {
		rec = report.Discard
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Repairer{source: source, dataDir: dataDir, config: cfg, rec: rec, log: log}
}

// Repair loads a level, repairs its invalid items batch by batch and
// rewrites the file after every batch that changed something. Load and
// save failures are returned; a failed batch is logged, recorded and
// skipped.
func (r *Repairer) Repair(ctx context.Context, level vocab.Level) (RepairSummary, error) {
	s, err := vocab.Load(r.dataDir, level)
	if err != nil {
		return RepairSummary{}, err
	}
	return r.RepairStore(ctx, s)
}

// RepairStore runs the pass against an already loaded store.
func (r *Repairer) RepairStore(ctx context.Context, s *vocab.Store) (RepairSummary, error) {
	log := r.log.With("level", s.Level)

	invalid, _ := rules.Invalid(s.Items)
	sum := RepairSummary{Invalid: len(invalid)}
	if len(invalid) == 0 {
		log.Info("nothing to repair")
		return sum, nil
	}

	chunks := batches(invalid, r.config.BatchSize)
	patched := make(map[int]bool, len(invalid))

	for n, batch := range chunks {
		if err := ctx.Err(); err != nil {
			return r.finish(s, sum), err
		}
		blog := log.With("batch", n+1, "batches", len(chunks), "items", len(batch))

		fixed, err := r.repairBatch(ctx, s, batch, patched, &sum, blog)
		if err != nil {
			if ctx.Err() != nil {
				return r.finish(s, sum), ctx.Err()
			}
			sum.FailedBatches++
			blog.Warn("repair batch failed", "error", err)
			r.rec.Record(report.Finding{
				Level:  s.Level,
				Kind:   report.KindBatchError,
				Kanji:  batchKeys(s, batch),
				Detail: err.Error(),
			})
		} else if fixed > 0 {
			if err := s.Save(); err != nil {
				return r.finish(s, sum), err
			}
			blog.Info("repair batch saved", "fixed", fixed)
		}

		if n < len(chunks)-1 {
			if err := sleep(ctx, r.config.Delay); err != nil {
				return r.finish(s, sum), err
			}
		}
	}

	return r.finish(s, sum), nil
}

// repairBatch makes one generation call for batch, builds the patch set and
// applies it to the store. It returns the number of items patched. On error
// nothing is applied.
func (r *Repairer) repairBatch(ctx context.Context, s *vocab.Store, batch []int, patched map[int]bool, sum *RepairSummary, log *logger.Logger) (int, error) {
	payload := make([]generation.RepairInput, len(batch))
	for i, idx := range batch {
		it := &s.Items[idx]
		payload[i] = generation.RepairInput{
			Kanji:       it.DisplayForm,
			Reading:     it.Reading,
			Distractors: slices.Clone(it.Distractors),
		}
	}

	corrections, err := r.source.Distractors(ctx, payload)
	if err != nil {
		return 0, err
	}

	type patch struct {
		idx    int
		list   []string
		forced bool
	}
	var patches []patch
	claimed := make(map[int]bool, len(batch))

	for _, c := range corrections {
		idx, ok := matchPending(s, batch, strings.TrimSpace(c.Kanji), patched, claimed)
		if !ok {
			sum.MatchFailures++
			log.Warn("correction matched no pending item", "kanji", c.Kanji)
			r.rec.Record(report.Finding{Level: s.Level, Kind: report.KindMatchFail, Kanji: c.Kanji})
			continue
		}
		claimed[idx] = true

		it := &s.Items[idx]
		p := patch{idx: idx}
		if !it.DistractorsMalformed() && slices.Equal(echoed(c.Distractors, it.Reading), it.Distractors) {
			p.list = sanitize(lastResort, it.Reading, it.DisplayForm)
			p.forced = true
		} else {
			p.list = sanitize(c.Distractors, it.Reading, it.DisplayForm)
		}
		patches = append(patches, p)
	}

	for _, p := range patches {
		it := &s.Items[p.idx]
		before := it.DistractorsJSON()
		it.SetDistractors(p.list)
		patched[p.idx] = true
		sum.Fixed++

		kind := report.KindFixed
		if p.forced {
			sum.Forced++
			kind = report.KindForced
		}
		r.rec.Record(report.Finding{
			Level:  s.Level,
			Kind:   kind,
			Kanji:  it.DisplayForm,
			Detail: fmt.Sprintf("%s -> %s", before, it.DistractorsJSON()),
		})
	}
	return len(patches), nil
}

// finish counts and records items still invalid after the run.
func (r *Repairer) finish(s *vocab.Store, sum RepairSummary) RepairSummary {
	idx, verdicts := rules.Invalid(s.Items)
	sum.Unresolved = len(idx)
	for _, i := range idx {
		r.rec.Record(report.Finding{
			Level:  s.Level,
			Kind:   report.KindUnresolved,
			Kanji:  s.Items[i].DisplayForm,
			Detail: joinRules(verdicts[i].Reasons),
		})
	}
	return sum
}

// matchPending returns the first item of batch, in store order, with the
// given display form that has not been patched in this run or claimed by an
// earlier correction of the same reply. A reply key that names an item of
// another batch matches nothing and counts as a match failure.
func matchPending(s *vocab.Store, batch []int, kanji string, patched, claimed map[int]bool) (int, bool) {
	for _, idx := range batch {
		if patched[idx] || claimed[idx] {
			continue
		}
		if s.Items[idx].DisplayForm == kanji {
			return idx, true
		}
	}
	return 0, false
}

func batchKeys(s *vocab.Store, batch []int) string {
	keys := make([]string, len(batch))
	for i, idx := range batch {
		keys[i] = s.Items[idx].DisplayForm
	}
	return strings.Join(keys, ",")
}

func joinRules(ids []rules.RuleID) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return strings.Join(out, ", ")
}
