package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"taskpilot/internal/config"
	"taskpilot/internal/planner"
)

var planShowOnly bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a day plan for pending tasks",
	Args:  cobra.NoArgs,
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

		if planShowOnly {
			saved := st.Plan()
			if saved == nil {
				return fmt.Errorf("no saved plan; run %q first", "taskpilot plan")
			}
			return renderPlan(saved.Text)
		}

		generator, err := newGenerator(cfg)
		if err != nil {
			return err
		}

		p := planner.New(generator, st, nil)
		plan, err := p.PlanDay(context.Background(), planner.Request{
			TimeZone: cfg.Planner.TimeZone,
			Locale:   cfg.Planner.Locale,
		})
		if errors.Is(err, planner.ErrNoTasks) {
			fmt.Println("No tasks to plan. Add some with `taskpilot add`.")
			return nil
		}
		if err != nil {
			if plan.Text != "" {
				// The placeholder plan has already been saved.
				fmt.Fprintln(cmd.ErrOrStderr(), plan.Text)
			}
			return err
		}

		return renderPlan(plan.Text)
	},
}

var clearPlanCmd = &cobra.Command{
	Use:   "clear-plan",
	Short: "Discard the saved day plan",
	Args:  cobra.NoArgs,
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

		st.ClearPlan()
		fmt.Println("plan cleared")
		return nil
	},
}

func init() {
	planCmd.Flags().BoolVar(&planShowOnly, "show", false, "print the saved plan without generating a new one")
}

// renderPlan pretty-prints the plan markdown for the terminal, falling
// back to raw text when the renderer cannot be built.
func renderPlan(text string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		fmt.Println(text)
		return nil
	}
	out, err := renderer.Render(text)
	if err != nil {
		fmt.Println(text)
		return nil
	}
	fmt.Print(out)
	return nil
}
