package cmd

import (
	"fmt"

	"github.com/specforge/specforge/internal/validate"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate generated workflow artifacts",
	Long: `Inspect the artifacts in the specs directory and report on task
list format, plan structure, code block statistics, and how much of the
task list the implementation log covers. Output is YAML.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := resolveStore(cmd, cfg)
	if err != nil {
		return err
	}

	report, err := validate.Workflow(store)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	fmt.Print(string(out))

	if !report.OverallValid {
		return fmt.Errorf("validation failed")
	}
	return nil
}
