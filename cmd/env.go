package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/kotoba/internal/config"
	"github.com/abhisek/kotoba/internal/logger"
	"github.com/abhisek/kotoba/internal/report"
	"github.com/abhisek/kotoba/internal/vocab"
	"github.com/spf13/cobra"
)

// env is what every command shares: effective config, logger, the levels
// to process and the report for this run.
type env struct {
	cfg    *config.Config
	log    *logger.Logger
	levels []vocab.Level
	report *report.Writer
}

// loadEnv reads config and applies the persistent flag overrides.
func loadEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if d, _ := cmd.Flags().GetString("data-dir"); d != "" {
		cfg.DataDir = d
	}
	if ls, _ := cmd.Flags().GetStringSlice("level"); len(ls) > 0 {
		cfg.Levels = ls
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.Log.Level = l
	}

	levels, err := cfg.ParsedLevels()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	runID := report.NewRunID()
	return &env{
		cfg:    cfg,
		log:    log.With("run", runID),
		levels: levels,
		report: report.NewWriter(cfg.Report.Path, runID, log),
	}, nil
}

func (e *env) close() {
	e.log.Sync()
}

// forEachLevel runs fn over every selected level, pausing cooldown between
// levels. A missing level file is skipped with a warning. Other errors are
// collected so one broken level does not stop the rest; cancellation stops
// at once.
func (e *env) forEachLevel(ctx context.Context, cooldown time.Duration, fn func(context.Context, vocab.Level) error) error {
	var errs []error
	for i, level := range e.levels {
		if i > 0 && cooldown > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(append(errs, ctx.Err())...)
			case <-time.After(cooldown):
			}
		}

		err := fn(ctx, level)
		switch {
		case err == nil:
		case errors.Is(err, vocab.ErrNotFound):
			e.log.Warn("level file not found, skipping", "level", level, "error", err)
		case ctx.Err() != nil:
			return errors.Join(append(errs, err)...)
		default:
			e.log.Error("level failed", "level", level, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
