package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/kotoba/internal/curate"
	"github.com/abhisek/kotoba/internal/store"
	"github.com/abhisek/kotoba/internal/ui/theme"
	"github.com/spf13/cobra"
)

var overridesCmd = &cobra.Command{
	Use:   "apply-overrides <file>",
	Short: "Apply hand-written distractor lists from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := curate.LoadOverrides(args[0])
		if err != nil {
			return err
		}

		p, ctx, err := openPipeline(cmd, false)
		if err != nil {
			return err
		}
		defer p.close()

		p.report.Begin("overrides", "")
		sum, err := curate.NewOverrider(p.cfg.DataDir, p.report, p.log).Apply(p.levels, overrides)

		levels := make([]string, len(p.levels))
		for i, l := range p.levels {
			levels[i] = string(l)
		}
		p.recordPass(ctx, store.PassRunData{
			Level:      strings.Join(levels, ","),
			Pass:       "overrides",
			Selected:   len(overrides),
			Changed:    sum.Applied,
			Unresolved: sum.Rejected + sum.MatchFailures,
		}, err)

		fmt.Println(theme.Card.Render(
			theme.Title.Render("overrides") + "\n" +
				theme.Row("applied", 14, theme.Good.Render(fmt.Sprint(sum.Applied))) + "\n" +
				theme.Row("unchanged", 14, theme.Body.Render(fmt.Sprint(sum.Unchanged))) + "\n" +
				theme.Row("rejected", 14, theme.Count(sum.Rejected)) + "\n" +
				theme.Row("match failures", 14, theme.Count(sum.MatchFailures)),
		))
		return err
	},
}
