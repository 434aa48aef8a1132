package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Specforge configuration
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator" yaml:"generator"`
	Workflow  WorkflowConfig  `mapstructure:"workflow" yaml:"workflow"`
	Parser    ParserConfig    `mapstructure:"parser" yaml:"parser"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// GeneratorConfig controls which AI backend produces documents and code
type GeneratorConfig struct {
	// Backend selects the generation backend
	// Options: "claude", "codex"
	Backend string `mapstructure:"backend" yaml:"backend"`
	// TimeoutSeconds is the maximum time a single generation call may take
	// (0 = no limit)
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	// Claude holds Claude-specific settings
	Claude ClaudeBackendConfig `mapstructure:"claude" yaml:"claude"`
	// Codex holds Codex-specific settings
	Codex CodexBackendConfig `mapstructure:"codex" yaml:"codex"`
}

// ClaudeBackendConfig holds Claude CLI settings
type ClaudeBackendConfig struct {
	// Command is the CLI executable to invoke (default: "claude")
	Command string `mapstructure:"command" yaml:"command"`
	// SkipPermissions passes --dangerously-skip-permissions
	SkipPermissions bool `mapstructure:"skip_permissions" yaml:"skip_permissions"`
}

// CodexBackendConfig holds Codex CLI settings
type CodexBackendConfig struct {
	// Command is the CLI executable to invoke (default: "codex")
	Command string `mapstructure:"command" yaml:"command"`
	// ApprovalMode controls sandboxing: "full-auto", "bypass", or "" for none
	ApprovalMode string `mapstructure:"approval_mode" yaml:"approval_mode"`
}

// WorkflowConfig controls pipeline behavior
type WorkflowConfig struct {
	// BaseDir is the directory workflow documents are stored in.
	// Relative paths are resolved against the working directory.
	// Supports ~ for home directory expansion.
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`
	// TechStack is the technology stack named in generation prompts
	TechStack string `mapstructure:"tech_stack" yaml:"tech_stack"`
	// PreviewChars is the maximum length of the task list preview shown
	// at the approval gate (default: 500)
	PreviewChars int `mapstructure:"preview_chars" yaml:"preview_chars"`
	// IncludeResearch adds a research document phase before planning
	IncludeResearch bool `mapstructure:"include_research" yaml:"include_research"`
	// IncludeDataModel adds a data model document phase before planning
	IncludeDataModel bool `mapstructure:"include_data_model" yaml:"include_data_model"`
}

// ParserConfig controls task list parsing
type ParserConfig struct {
	// Extensions are the file extensions recognized when recovering file
	// paths from task lines that lack backtick quoting
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Backend:        "claude",
			TimeoutSeconds: 600,
			Claude: ClaudeBackendConfig{
				Command:         "claude",
				SkipPermissions: true,
			},
			Codex: CodexBackendConfig{
				Command:      "codex",
				ApprovalMode: "full-auto",
			},
		},
		Workflow: WorkflowConfig{
			BaseDir:          "specs",
			TechStack:        "Go",
			PreviewChars:     500,
			IncludeResearch:  false,
			IncludeDataModel: false,
		},
		Parser: ParserConfig{
			Extensions: DefaultExtensions(),
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}
}

// DefaultExtensions returns the file extensions recognized by the task
// parser's fallback path heuristic
func DefaultExtensions() []string {
	return []string{
		".go", ".py", ".js", ".ts", ".tsx", ".rs", ".java", ".rb",
		".sql", ".sh", ".md", ".json", ".yaml", ".yml", ".toml",
		".html", ".css", ".proto",
	}
}

// Timeout returns the generation timeout as a time.Duration (0 means disabled)
func (g *GeneratorConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// ResolveBaseDir returns the resolved workflow base directory path.
// If BaseDir starts with ~, it expands to the user's home directory.
// If BaseDir is a relative path, it's resolved relative to workDir.
func (w *WorkflowConfig) ResolveBaseDir(workDir string) string {
	path := w.BaseDir
	if path == "" {
		path = "specs"
	}

	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	} else if len(path) > 1 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}

	if !filepath.IsAbs(path) {
		return filepath.Join(workDir, path)
	}
	return path
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Generator defaults
	viper.SetDefault("generator.backend", defaults.Generator.Backend)
	viper.SetDefault("generator.timeout_seconds", defaults.Generator.TimeoutSeconds)
	viper.SetDefault("generator.claude.command", defaults.Generator.Claude.Command)
	viper.SetDefault("generator.claude.skip_permissions", defaults.Generator.Claude.SkipPermissions)
	viper.SetDefault("generator.codex.command", defaults.Generator.Codex.Command)
	viper.SetDefault("generator.codex.approval_mode", defaults.Generator.Codex.ApprovalMode)

	// Workflow defaults
	viper.SetDefault("workflow.base_dir", defaults.Workflow.BaseDir)
	viper.SetDefault("workflow.tech_stack", defaults.Workflow.TechStack)
	viper.SetDefault("workflow.preview_chars", defaults.Workflow.PreviewChars)
	viper.SetDefault("workflow.include_research", defaults.Workflow.IncludeResearch)
	viper.SetDefault("workflow.include_data_model", defaults.Workflow.IncludeDataModel)

	// Parser defaults
	viper.SetDefault("parser.extensions", defaults.Parser.Extensions)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "specforge")
	}
	// Fall back to ~/.config/specforge
	home, err := os.UserHomeDir()
	if err != nil {
		return ".specforge"
	}
	return filepath.Join(home, ".config", "specforge")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
