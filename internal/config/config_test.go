package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Generator.Backend != "claude" {
		t.Errorf("expected default backend claude, got %q", cfg.Generator.Backend)
	}
	if cfg.Workflow.PreviewChars != 500 {
		t.Errorf("expected default preview_chars 500, got %d", cfg.Workflow.PreviewChars)
	}
	if cfg.Workflow.BaseDir != "specs" {
		t.Errorf("expected default base_dir specs, got %q", cfg.Workflow.BaseDir)
	}
	if len(cfg.Parser.Extensions) == 0 {
		t.Error("expected default parser extensions to be non-empty")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %q", cfg.Logging.Level)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Generator.Claude.Command != "claude" {
		t.Errorf("expected claude command, got %q", cfg.Generator.Claude.Command)
	}
	if cfg.Generator.TimeoutSeconds != 600 {
		t.Errorf("expected timeout 600, got %d", cfg.Generator.TimeoutSeconds)
	}
}

func TestLoadRejectsInvalidBackend(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()
	viper.Set("generator.backend", "gpt-in-a-box")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unknown backend")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative preview",
			mutate:  func(c *Config) { c.Workflow.PreviewChars = -1 },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Generator.TimeoutSeconds = -5 },
			wantErr: true,
		},
		{
			name:    "extension without dot",
			mutate:  func(c *Config) { c.Parser.Extensions = []string{"go"} },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "bad approval mode",
			mutate:  func(c *Config) { c.Generator.Codex.ApprovalMode = "yolo" },
			wantErr: true,
		},
		{
			name:    "empty log level allowed",
			mutate:  func(c *Config) { c.Logging.Level = "" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if tt.wantErr && len(errs) == 0 {
				t.Error("expected validation errors, got none")
			}
			if !tt.wantErr && len(errs) > 0 {
				t.Errorf("unexpected validation errors: %v", ValidationErrors(errs))
			}
		})
	}
}

func TestResolveBaseDir(t *testing.T) {
	w := &WorkflowConfig{BaseDir: "specs"}
	got := w.ResolveBaseDir("/work")
	if got != filepath.Join("/work", "specs") {
		t.Errorf("expected /work/specs, got %s", got)
	}

	w = &WorkflowConfig{BaseDir: "/abs/specs"}
	if got := w.ResolveBaseDir("/work"); got != "/abs/specs" {
		t.Errorf("expected absolute path preserved, got %s", got)
	}

	w = &WorkflowConfig{BaseDir: ""}
	if got := w.ResolveBaseDir("/work"); got != filepath.Join("/work", "specs") {
		t.Errorf("expected fallback to specs, got %s", got)
	}
}

func TestValidationErrorsFormatting(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a.b", Value: 1, Message: "too small"},
		{Field: "c.d", Value: "x", Message: "unknown"},
	}
	msg := errs.Error()
	if msg == "" {
		t.Fatal("expected non-empty error message")
	}
	if len(ValidationErrors{}) != 0 && (ValidationErrors{}).Error() != "" {
		t.Error("empty ValidationErrors should produce empty message")
	}
}
