package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/specforge/specforge/internal/errors"
	"github.com/specforge/specforge/internal/event"
	"github.com/specforge/specforge/internal/generator"
	"github.com/specforge/specforge/internal/logging"
	"github.com/specforge/specforge/internal/workflow"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the generation pipeline",
	Long: `Run the pipeline against the specs directory. Requires
constitution.md and spec.md to exist. Generates whichever documents are
missing, pauses for task list approval, then implements each task and
saves extracted code under outputs/.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolP("yes", "y", false, "approve the generated task list without prompting")
	runCmd.Flags().Bool("research", false, "generate research.md before planning")
	runCmd.Flags().Bool("data-model", false, "generate data-model.md after planning")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
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
		workflow.WithPreviewChars(cfg.Workflow.PreviewChars),
		workflow.WithParser(workflow.NewParser(cfg.Parser.Extensions)),
		workflow.WithResearch(research || cfg.Workflow.IncludeResearch),
		workflow.WithDataModel(dataModel || cfg.Workflow.IncludeDataModel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(titleStyle.Render("specforge") + mutedStyle.Render("  "+store.BaseDir()))
	fmt.Printf("Generator: %s\n\n", gen.DisplayName())

	outcome, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if outcome.Pending != nil {
		approved, err := resolveApproval(cmd, outcome.Pending)
		if err != nil {
			return err
		}
		outcome, err = runner.Resume(ctx, outcome.Pending.RequestID, approved)
		if err != nil {
			return err
		}
	}

	printResult(outcome.Result)
	if outcome.Result.Cancelled {
		return errors.ErrRunCancelled
	}
	return nil
}

// resolveApproval decides the pending approval: the --yes flag approves
// outright, a terminal gets an interactive prompt, and a non-interactive
// run without --yes rejects so automation fails closed.
func resolveApproval(cmd *cobra.Command, pending *workflow.PendingApproval) (bool, error) {
	fmt.Println(previewStyle.Render(pending.Preview))
	fmt.Println()
	fmt.Println(pending.Message)

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		fmt.Println(successStyle.Render("Approved (--yes)"))
		return true, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println(warnStyle.Render("No terminal available; rejecting (use --yes to approve)"))
		return false, nil
	}

	fmt.Print("Approve and proceed with implementation? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read approval response: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func printResult(result *workflow.Result) {
	fmt.Println()
	if result.Cancelled {
		fmt.Println(warnStyle.Render("Run cancelled; plan.md and tasks.md were kept for review"))
		return
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Run complete: %d file(s) generated", result.FileCount)))
	for _, path := range result.GeneratedFiles {
		fmt.Printf("  %s\n", path)
	}
}

// subscribeRenderer prints pipeline lifecycle events as they happen.
func subscribeRenderer(bus *event.Bus) {
	bus.Subscribe("phase.started", func(e event.Event) {
		if evt, ok := e.(event.PhaseStartedEvent); ok {
			fmt.Println(titleStyle.Render("==> " + evt.Phase))
		}
	})
	bus.Subscribe("phase.completed", func(e event.Event) {
		if evt, ok := e.(event.PhaseCompletedEvent); ok {
			fmt.Printf("    %s (%d chars)\n", evt.ArtifactPath, evt.Chars)
		}
	})
	bus.Subscribe("run.progress", func(e event.Event) {
		if evt, ok := e.(event.ProgressEvent); ok {
			fmt.Println(mutedStyle.Render("    " + evt.Message))
		}
	})
	bus.Subscribe("item.completed", func(e event.Event) {
		if evt, ok := e.(event.TaskItemCompletedEvent); ok {
			if evt.SavedPath != "" {
				fmt.Printf("    %s %s -> %s\n", successStyle.Render("ok"), evt.TaskID, evt.SavedPath)
			} else {
				fmt.Printf("    %s %s (no file)\n", warnStyle.Render("--"), evt.TaskID)
			}
		}
	})
	bus.Subscribe("item.failed", func(e event.Event) {
		if evt, ok := e.(event.TaskItemFailedEvent); ok {
			fmt.Printf("    %s %s: %s\n", errorStyle.Render("fail"), evt.TaskID, evt.Error)
		}
	})
	bus.Subscribe("run.failed", func(e event.Event) {
		if evt, ok := e.(event.RunFailedEvent); ok {
			fmt.Println(errorStyle.Render(fmt.Sprintf("Run failed in %s: %s", evt.Phase, evt.Error)))
		}
	})
}
