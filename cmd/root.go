package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/kotoba/internal/config"
	"github.com/abhisek/kotoba/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kotoba",
	Short: "Validate and repair the vocabulary quiz dataset",
	Long: "Kotoba checks every level file of the quiz dataset against the distractor rules, " +
		"repairs what fails through a generation service, fills missing meanings and marks " +
		"which items can be used in the game.",
	SilenceUsage: true,
}

// Execute runs the root command. An interrupt cancels the command's
// context; passes stop between batches and keep what was already saved.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to YAML config file (overrides KOTOBA_CONFIG env var)")
	pf.String("data-dir", "", "Directory holding the level files")
	pf.String("db", "", "Path to SQLite database file (overrides KOTOBA_DB env var)")
	pf.StringSlice("level", nil, "Level to process, repeatable (default: every configured level)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(augmentCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(overridesCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then db_path from config or KOTOBA_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
