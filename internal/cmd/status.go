package cmd

import (
	"fmt"

	"github.com/specforge/specforge/internal/artifact"
	"github.com/specforge/specforge/internal/workflow"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workflow artifact status",
	Long:  `Display which workflow documents exist in the specs directory and where the next run would pick up.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := resolveStore(cmd, cfg)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Specs directory: ") + store.BaseDir())
	fmt.Println()

	for _, row := range documentRows(store) {
		fmt.Println(row)
	}
	fmt.Println()

	state, err := workflow.Probe(store, cfg.Workflow.TechStack)
	if err != nil {
		fmt.Println(errorStyle.Render("Not runnable: ") + err.Error())
		return nil
	}

	switch s := state.(type) {
	case workflow.TaskListState:
		fmt.Printf("Next run: implementation (%d unchecked task(s), approval skipped)\n", s.TaskCount)
	case workflow.PlanState:
		fmt.Println("Next run: task breakdown, then approval")
	case workflow.ContextState:
		fmt.Println("Next run: full pipeline from planning")
	}
	if store.Exists(artifact.Implementation) {
		fmt.Println(warnStyle.Render("implementation.md exists and will be overwritten by the next run"))
	}
	return nil
}

// documentRows renders one line per well-known document, present or not.
func documentRows(store *artifact.Store) []string {
	var rows []string
	for _, name := range artifact.Documents() {
		if store.Exists(name) {
			rows = append(rows, fmt.Sprintf("  %s %s", successStyle.Render("present"), name))
		} else {
			rows = append(rows, fmt.Sprintf("  %s %s", mutedStyle.Render("missing"), name))
		}
	}
	return rows
}
