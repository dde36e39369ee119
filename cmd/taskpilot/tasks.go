package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"taskpilot/internal/config"
	"taskpilot/pkg/models"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to the list",
	Args:  cobra.MinimumNArgs(1),
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

		task := st.Add(strings.Join(args, " "))
		if task == nil {
			return fmt.Errorf("title must not be blank")
		}
		fmt.Printf("added %s  %s\n", shortID(task.ID), task.Title)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all tasks",
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

		roots := st.Roots()
		if len(roots) == 0 {
			fmt.Println("No tasks yet. Add your first task with 'taskpilot add'.")
			return nil
		}

		for _, task := range roots {
			printTask(task, "")
			for _, sub := range st.Subtasks(task.ID) {
				printTask(sub, "    ")
			}
		}
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task's completed state",
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

		id, err := resolveID(st, args[0])
		if err != nil {
			return err
		}
		st.Toggle(id)
		task := st.Get(id)
		mark := "pending"
		if task.Completed {
			mark = "done"
		}
		fmt.Printf("%s  %s (%s)\n", shortID(task.ID), task.Title, mark)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task and its subtasks",
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

		id, err := resolveID(st, args[0])
		if err != nil {
			return err
		}
		removed := st.Delete(id)
		fmt.Printf("removed %d task(s)\n", removed)
		return nil
	},
}

// printTask renders one task line with a checkbox and provenance badge.
func printTask(task models.Task, indent string) {
	box := "[ ]"
	title := task.Title
	if task.Completed {
		box = "[x]"
		title = color.New(color.Faint).Sprint(title)
	}
	badge := ""
	if task.AIGenerated {
		badge = " " + color.CyanString("(AI)")
	}
	fmt.Printf("%s%s %s  %s%s\n", indent, box, shortID(task.ID), title, badge)
}

// shortID returns the first id segment, enough to address a task from
// the CLI.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// resolveID expands a short id prefix to a full task id. Ambiguous or
// unknown prefixes are errors.
func resolveID(st taskLister, prefix string) (string, error) {
	var match string
	for _, task := range st.List() {
		if task.ID == prefix {
			return task.ID, nil
		}
		if strings.HasPrefix(task.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("ambiguous id prefix %q", prefix)
			}
			match = task.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no task matches %q", prefix)
	}
	return match, nil
}

// taskLister is the slice of the store needed by resolveID.
type taskLister interface {
	List() []models.Task
}
