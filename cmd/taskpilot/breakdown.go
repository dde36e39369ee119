package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"taskpilot/internal/breakdown"
	"taskpilot/internal/config"
)

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <id>",
	Short: "Break a task into AI-generated subtasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		st, db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		generator, err := newGenerator(cfg)
		if err != nil {
			return err
		}

		id, err := resolveID(st, args[0])
		if err != nil {
			return err
		}

		breaker := breakdown.New(generator, st, nil)
		subtasks, err := breaker.Break(context.Background(), id)
		if err != nil {
			return fmt.Errorf("break down task: %w", err)
		}

		if len(subtasks) == 0 {
			fmt.Println("The model returned no usable subtasks. Nothing was added.")
			return nil
		}
		fmt.Printf("added %d subtask(s):\n", len(subtasks))
		for _, sub := range subtasks {
			fmt.Printf("  %s  %s\n", shortID(sub.ID), sub.Title)
		}
		return nil
	},
}
