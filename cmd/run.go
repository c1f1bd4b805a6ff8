package cmd

import (
	"context"

	"github.com/abhisek/kotoba/internal/vocab"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Repair, augment and filter every level in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ctx, err := openPipeline(cmd, true)
		if err != nil {
			return err
		}
		defer p.close()

		return p.forEachLevel(ctx, p.cfg.Pipeline.LevelCooldown, func(ctx context.Context, level vocab.Level) error {
			// A structural failure in one pass leaves the file suspect, so
			// the remaining passes for that level are skipped.
			if err := p.repair(ctx, level); err != nil {
				return err
			}
			if err := p.augment(ctx, level); err != nil {
				return err
			}
			return p.filter(ctx, level)
		})
	},
}
