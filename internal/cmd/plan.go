package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/specforge/specforge/internal/event"
	"github.com/specforge/specforge/internal/generator"
	"github.com/specforge/specforge/internal/logging"
	"github.com/specforge/specforge/internal/workflow"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate the plan document only",
	Long: `Run the document phases (research, plan, data model) without
generating tasks or entering the approval gate. Useful for reviewing the
plan before committing to a full run.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().Bool("research", false, "generate research.md before planning")
	planCmd.Flags().Bool("data-model", false, "generate data-model.md after planning")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := resolveStore(cmd, cfg)
	if err != nil {
		return err
	}
	gen, err := generator.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	log := logging.NopLogger()
	if cfg.Logging.Enabled {
		log, err = logging.NewLogger(store.BaseDir(), cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer log.Close()
	}

	bus := event.NewBus()
	subscribeRenderer(bus)

	research, _ := cmd.Flags().GetBool("research")
	dataModel, _ := cmd.Flags().GetBool("data-model")

	runner := workflow.NewRunner(store, gen,
		workflow.WithBus(bus),
		workflow.WithLogger(log),
		workflow.WithTechStack(cfg.Workflow.TechStack),
		workflow.WithResearch(research || cfg.Workflow.IncludeResearch),
		workflow.WithDataModel(dataModel || cfg.Workflow.IncludeDataModel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := runner.Plan(ctx); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Plan ready: ") + "review plan.md, then run `specforge run`")
	return nil
}
