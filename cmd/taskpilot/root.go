package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskpilot/internal/config"
	"taskpilot/internal/llm"
	"taskpilot/internal/state"
	"taskpilot/internal/store"

	"github.com/anthropics/anthropic-sdk-go"
)

var rootCmd = &cobra.Command{
	Use:   "taskpilot",
	Short: "AI-assisted task list and day planner",
	Long: `Taskpilot keeps a hierarchical task list and offloads two steps to a
language model: breaking a task into 3-5 actionable subtasks, and turning
the pending list into a time-aware daily plan.

Run 'taskpilot serve' to expose the HTTP API, or use the subcommands to
work with the local task list directly.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(clearPlanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// openStore opens the snapshot database and loads the task list.
// The caller owns closing the returned DB.
func openStore(cfg *config.Config) (*store.Store, *state.DB, error) {
	dbPath := cfg.Storage.DBPath
	if dbPath == "" {
		dbPath = state.DefaultPath()
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open state db: %w", err)
	}

	st := store.New(db, nil)
	if err := st.Load(); err != nil {
		// Persistence is best-effort: a broken snapshot starts empty.
		fmt.Fprintf(os.Stderr, "warning: could not load saved tasks: %v\n", err)
	}
	return st, db, nil
}

// newGenerator builds the model client from configuration.
func newGenerator(cfg *config.Config) (llm.Generator, error) {
	client, err := llm.NewClient(llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, fmt.Errorf("create model client: %w", err)
	}
	return client, nil
}
