package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/kotoba/internal/curate"
	"github.com/abhisek/kotoba/internal/generation"
	"github.com/abhisek/kotoba/internal/llm"
	"github.com/abhisek/kotoba/internal/store"
	"github.com/abhisek/kotoba/internal/ui/theme"
	"github.com/abhisek/kotoba/internal/vocab"
	"github.com/spf13/cobra"
)

// pipeline holds the opened event store and the curation passes.
type pipeline struct {
	*env
	st        *store.Store
	events    store.EventRepo
	repairer  *curate.Repairer
	augmenter *curate.Augmenter
}

// openPipeline loads config and opens the event store. With needProvider
// it also builds the generation client; a missing API key is an error.
func openPipeline(cmd *cobra.Command, needProvider bool) (*pipeline, context.Context, error) {
	e, err := loadEnv(cmd)
	if err != nil {
		return nil, nil, err
	}

	dbPath, err := resolveDBPath(cmd, e.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	p := &pipeline{env: e, st: st, events: st.EventRepo()}
	ctx := llm.WithRunID(cmd.Context(), e.report.RunID())

	if needProvider {
		if err := e.cfg.LLM.Validate(); err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("LLM provider not configured: %w", err)
		}
		provider, err := llm.NewProvider(ctx, e.cfg.LLM, p.events, e.log)
		if err != nil {
			st.Close()
			return nil, nil, err
		}
		client := generation.New(provider, e.cfg.Generation())
		p.repairer = curate.NewRepairer(client, e.cfg.DataDir, e.cfg.RepairOptions(), e.report, e.log)
		p.augmenter = curate.NewAugmenter(client, e.cfg.DataDir, e.cfg.AugmentOptions(), e.report, e.log)
		e.log.Info("generation provider ready", "provider", e.cfg.LLM.Provider, "model", provider.ModelID())
	}
	return p, ctx, nil
}

func (p *pipeline) close() {
	p.st.Close()
	p.env.close()
}

func (p *pipeline) repair(ctx context.Context, level vocab.Level) error {
	p.report.Begin("repair", level)
	sum, err := p.repairer.Repair(ctx, level)
	if errors.Is(err, vocab.ErrNotFound) {
		return err
	}
	p.recordPass(ctx, store.PassRunData{
		Level:         string(level),
		Pass:          "repair",
		Selected:      sum.Invalid,
		Changed:       sum.Fixed,
		Unresolved:    sum.Unresolved,
		FailedBatches: sum.FailedBatches,
	}, err)

	fmt.Println(theme.Card.Render(
		theme.Title.Render("repair "+string(level)) + "\n" +
			theme.Row("invalid", 14, theme.Body.Render(fmt.Sprint(sum.Invalid))) + "\n" +
			theme.Row("fixed", 14, theme.Good.Render(fmt.Sprint(sum.Fixed))) + "\n" +
			theme.Row("forced", 14, theme.Warn.Render(fmt.Sprint(sum.Forced))) + "\n" +
			theme.Row("match failures", 14, theme.Count(sum.MatchFailures)) + "\n" +
			theme.Row("failed batches", 14, theme.Count(sum.FailedBatches)) + "\n" +
			theme.Row("unresolved", 14, theme.Count(sum.Unresolved)),
	))
	return err
}

func (p *pipeline) augment(ctx context.Context, level vocab.Level) error {
	p.report.Begin("augment", level)
	sum, err := p.augmenter.Augment(ctx, level)
	if errors.Is(err, vocab.ErrNotFound) {
		return err
	}
	p.recordPass(ctx, store.PassRunData{
		Level:         string(level),
		Pass:          "augment",
		Selected:      sum.Missing,
		Changed:       sum.Filled,
		Unresolved:    sum.Missing - sum.Filled,
		FailedBatches: sum.FailedBatches,
	}, err)

	fmt.Println(theme.Card.Render(
		theme.Title.Render("augment "+string(level)) + "\n" +
			theme.Row("missing", 14, theme.Body.Render(fmt.Sprint(sum.Missing))) + "\n" +
			theme.Row("filled", 14, theme.Good.Render(fmt.Sprint(sum.Filled))) + "\n" +
			theme.Row("match failures", 14, theme.Count(sum.MatchFailures)) + "\n" +
			theme.Row("failed batches", 14, theme.Count(sum.FailedBatches)),
	))
	return err
}

func (p *pipeline) filter(ctx context.Context, level vocab.Level) error {
	changed, err := curate.Filter(p.cfg.DataDir, level)
	if errors.Is(err, vocab.ErrNotFound) {
		return err
	}
	p.recordPass(ctx, store.PassRunData{Level: string(level), Pass: "filter", Changed: changed}, err)
	if err == nil {
		p.log.Info("game eligibility updated", "level", level, "changed", changed)
	}
	fmt.Println(theme.Row("filter "+string(level), 14, theme.Body.Render(fmt.Sprintf("%d flags changed", changed))))
	return err
}

// recordPass appends a pass run to the event store. Failures are logged
// only; they never fail the pass.
func (p *pipeline) recordPass(ctx context.Context, data store.PassRunData, passErr error) {
	data.RunID = p.report.RunID()
	if passErr != nil {
		data.ErrorMessage = passErr.Error()
	}
	if err := p.events.AppendPassRun(context.WithoutCancel(ctx), data); err != nil {
		p.log.Warn("record pass run", "pass", data.Pass, "level", data.Level, "error", err)
	}
}
