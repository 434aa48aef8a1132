package cmd

import (
	"strings"

	"github.com/specforge/specforge/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "specforge",
	Short: "Spec-driven development workflow runner",
	Long: `Specforge drives a multi-phase generation pipeline over a specs
directory: plan, task breakdown, human approval, then per-task
implementation with extracted code saved under outputs/.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/specforge/config.yaml)")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "specs directory (default from config, workflow.base_dir)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/specforge")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SPECFORGE")
	// Replace dots with underscores for nested keys in env vars
	// e.g., SPECFORGE_GENERATOR_BACKEND for generator.backend
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
