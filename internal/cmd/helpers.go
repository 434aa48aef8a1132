package cmd

import (
	"fmt"
	"os"

	"github.com/specforge/specforge/internal/artifact"
	"github.com/specforge/specforge/internal/config"
	"github.com/spf13/cobra"
)

// loadConfig loads and validates the effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// resolveStore builds the artifact store for the current invocation. The
// --dir flag overrides the configured base directory.
func resolveStore(cmd *cobra.Command, cfg *config.Config) (*artifact.Store, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return nil, err
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cfg.Workflow.ResolveBaseDir(cwd)
	}
	return artifact.NewStore(dir), nil
}
