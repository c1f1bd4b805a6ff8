package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kotoba/internal/config"
	"github.com/abhisek/kotoba/internal/llm"
	"github.com/abhisek/kotoba/internal/store"
	"github.com/abhisek/kotoba/internal/ui/theme"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded generation calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generation calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		runID, _ := cmd.Flags().GetString("run")

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose, RunID: runID})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println(theme.Hint.Render("No generation calls recorded."))
			return nil
		}

		tbl := &theme.Table{
			Headers: []string{"ID", "Time", "Run", "Purpose", "Model", "In", "Out", "Ms", ""},
			Right:   map[int]bool{0: true, 5: true, 6: true, 7: true},
		}
		failed := 0
		for _, e := range events {
			mark := theme.Good.Render("ok")
			if !e.Success {
				mark = theme.Bad.Render("fail")
				failed++
			}
			tbl.Add(
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format(timeLayout),
				shortRun(e.RunID),
				e.Purpose,
				truncate(e.Model, 28),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				mark,
			)
		}
		fmt.Print(tbl.String())
		fmt.Println(theme.Hint.Render(fmt.Sprintf("%d calls, %d failed", len(events), failed)))
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one generation call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event ID %q", args[0])
		}

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		const w = 8
		status := theme.Good.Render("ok")
		if !e.Success {
			status = theme.Bad.Render(e.ErrorMessage)
		}
		lines := []string{
			theme.Title.Render(fmt.Sprintf("Call %d", e.ID)),
			theme.Row("time", w, e.Timestamp.Local().Format(timeLayout)),
			theme.Row("run", w, e.RunID),
			theme.Row("purpose", w, e.Purpose),
			theme.Row("model", w, e.Provider+" / "+e.Model),
			theme.Row("tokens", w, fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens)),
			theme.Row("latency", w, fmt.Sprintf("%dms", e.LatencyMs)),
			theme.Row("status", w, status),
		}
		fmt.Println(theme.Card.Render(strings.Join(lines, "\n")))

		fmt.Println(theme.Title.Render("Prompt"))
		fmt.Println(orNotCaptured(e.RequestBody))
		fmt.Println()
		fmt.Println(theme.Title.Render("Reply"))
		fmt.Println(orNotCaptured(indentJSON(e.ResponseBody)))
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println(theme.Hint.Render("No generation calls recorded."))
			return nil
		}

		usage := &theme.Table{
			Headers: []string{"Purpose", "Calls", "Input", "Output", "Avg ms"},
			Right:   map[int]bool{1: true, 2: true, 3: true, 4: true},
		}
		var calls, in, out int
		for _, u := range byPurpose {
			usage.Add(u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10))
			calls += u.Calls
			in += u.InputTokens
			out += u.OutputTokens
		}
		usage.Add("total", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), "")
		fmt.Print(usage.String())

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		cost := &theme.Table{
			Headers: []string{"Model", "Calls", "Input", "Output", "USD"},
			Right:   map[int]bool{1: true, 2: true, 3: true, 4: true},
		}
		var total float64
		var unpriced []string
		for _, m := range byModel {
			price := "?"
			if c := llm.LookupCost(m.Model); c != nil {
				usd := c.Cost(m.InputTokens, m.OutputTokens)
				total += usd
				price = formatCost(usd)
			} else {
				unpriced = append(unpriced, m.Model)
			}
			cost.Add(truncate(m.Model, 32), strconv.Itoa(m.Calls), strconv.Itoa(m.InputTokens), strconv.Itoa(m.OutputTokens), price)
		}
		label := "total"
		if len(unpriced) > 0 {
			label = "total (partial)"
		}
		cost.Add(label, "", "", "", formatCost(total))

		fmt.Println()
		fmt.Print(cost.String())
		if len(unpriced) > 0 {
			fmt.Println(theme.Warn.Render("no pricing for " + strings.Join(unpriced, ", ")))
		}
		return nil
	},
}

// openEventStore opens the event database named by flags and config.
func openEventStore(cmd *cobra.Command) (*store.Store, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// shortRun keeps the leading block of a uuid run ID.
func shortRun(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return truncate(id, 8)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

// indentJSON pretty-prints a stored reply when it is JSON and returns it
// unchanged otherwise.
func indentJSON(s string) string {
	var b bytes.Buffer
	if err := json.Indent(&b, []byte(s), "", "  "); err != nil {
		return s
	}
	return b.String()
}

func orNotCaptured(s string) string {
	if s == "" {
		return theme.Hint.Render("(not captured)")
	}
	return s
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (distractor-repair or meaning-gloss)")
	llmListCmd.Flags().String("run", "", "Filter by run ID")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
