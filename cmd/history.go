package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/kotoba/internal/store"
	"github.com/abhisek/kotoba/internal/ui/theme"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded curation pass runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		pass, _ := cmd.Flags().GetString("pass")
		runID, _ := cmd.Flags().GetString("run")

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.EventRepo().QueryPassRuns(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: pass, RunID: runID})
		if err != nil {
			return fmt.Errorf("query pass runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println(theme.Hint.Render("No pass runs recorded."))
			return nil
		}

		tbl := &theme.Table{
			Headers: []string{"Time", "Run", "Pass", "Level", "Selected", "Changed", "Unresolved", "Failed", "Error"},
			Right:   map[int]bool{4: true, 5: true, 6: true, 7: true},
		}
		for _, r := range runs {
			errMsg := ""
			if r.ErrorMessage != "" {
				errMsg = theme.Bad.Render(truncate(r.ErrorMessage, 60))
			}
			tbl.Add(
				r.Timestamp.Local().Format(timeLayout),
				shortRun(r.RunID),
				r.Pass,
				r.Level,
				strconv.Itoa(r.Selected),
				strconv.Itoa(r.Changed),
				theme.Count(r.Unresolved),
				theme.Count(r.FailedBatches),
				errMsg,
			)
		}
		fmt.Print(tbl.String())
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().String("pass", "", "Filter by pass (repair, augment, filter, overrides)")
	historyCmd.Flags().String("run", "", "Filter by run ID")
}
