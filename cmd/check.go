package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/kotoba/internal/report"
	"github.com/abhisek/kotoba/internal/rules"
	"github.com/abhisek/kotoba/internal/ui/theme"
	"github.com/abhisek/kotoba/internal/vocab"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Classify every item and write the findings to the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		var invalid int
		err = e.forEachLevel(cmd.Context(), 0, func(_ context.Context, level vocab.Level) error {
			s, err := vocab.Load(e.cfg.DataDir, level)
			if err != nil {
				return err
			}
			sum := e.report.Check(level, s.Items)
			invalid += sum.Invalid
			printCheck(sum)
			return nil
		})
		if err != nil {
			return err
		}
		if strict && invalid > 0 {
			return fmt.Errorf("%d invalid items", invalid)
		}
		return nil
	},
}

func printCheck(sum report.CheckSummary) {
	body := theme.Title.Render("check "+string(sum.Level)) + "\n" +
		theme.Row("items", 18, theme.Body.Render(fmt.Sprint(sum.Items))) + "\n" +
		theme.Row("invalid", 18, theme.Count(sum.Invalid))
	for _, r := range rules.Default {
		if n := sum.ByRule[r.ID()]; n > 0 {
			body += "\n" + theme.Row("  "+string(r.ID()), 18, theme.Bad.Render(fmt.Sprint(n)))
		}
	}
	for _, id := range rules.AllDiagnostics {
		if n := sum.ByDiagnostic[id]; n > 0 {
			body += "\n" + theme.Row("  "+string(id), 18, theme.Warn.Render(fmt.Sprint(n)))
		}
	}
	fmt.Println(theme.Card.Render(body))
}

func init() {
	checkCmd.Flags().Bool("strict", false, "Exit non-zero when any item is invalid")
}
