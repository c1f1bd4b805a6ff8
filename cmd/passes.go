package cmd

import (
	"github.com/spf13/cobra"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Replace invalid distractors through the generation service",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ctx, err := openPipeline(cmd, true)
		if err != nil {
			return err
		}
		defer p.close()
		return p.forEachLevel(ctx, 0, p.repair)
	},
}

var augmentCmd = &cobra.Command{
	Use:   "augment",
	Short: "Fill missing meanings through the generation service",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ctx, err := openPipeline(cmd, true)
		if err != nil {
			return err
		}
		defer p.close()
		return p.forEachLevel(ctx, 0, p.augment)
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Recompute which items are usable in the game",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ctx, err := openPipeline(cmd, false)
		if err != nil {
			return err
		}
		defer p.close()
		return p.forEachLevel(ctx, 0, p.filter)
	},
}
