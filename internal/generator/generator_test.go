package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specforge/specforge/internal/config"
	"github.com/specforge/specforge/internal/errors"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		backend  string
		wantName BackendName
		wantErr  bool
	}{
		{name: "claude", backend: "claude", wantName: BackendClaude},
		{name: "codex", backend: "codex", wantName: BackendCodex},
		{name: "empty defaults to claude", backend: "", wantName: BackendClaude},
		{name: "case insensitive", backend: "Claude", wantName: BackendClaude},
		{name: "unknown", backend: "chatgpt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Generator.Backend = tt.backend

			gen, err := NewFromConfig(cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, ErrUnknownBackend) {
					t.Errorf("expected ErrUnknownBackend, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFromConfig failed: %v", err)
			}
			if gen.Name() != tt.wantName {
				t.Errorf("expected backend %s, got %s", tt.wantName, gen.Name())
			}
		})
	}
}

func TestNewFromConfigAppliesTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Generator.TimeoutSeconds = 42

	cfg.Generator.Backend = "claude"
	gen, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	if got := gen.(*ClaudeGenerator).timeout; got != 42*time.Second {
		t.Errorf("claude timeout = %v, want 42s", got)
	}

	cfg.Generator.Backend = "codex"
	gen, err = NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	if got := gen.(*CodexGenerator).timeout; got != 42*time.Second {
		t.Errorf("codex timeout = %v, want 42s", got)
	}
}

func TestGenerateTimeoutKillsHungBackend(t *testing.T) {
	script := filepath.Join(t.TempDir(), "hung-backend")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nsleep 30\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	gen := NewClaudeGenerator(config.ClaudeBackendConfig{Command: script})
	gen.timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := gen.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("Generate returned after %v, timeout not applied", elapsed)
	}
	if !errors.Is(err, errors.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded in chain, got %v", err)
	}
}

func TestGenerateZeroTimeoutIsUnbounded(t *testing.T) {
	script := filepath.Join(t.TempDir(), "quick-backend")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho done\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	gen := NewClaudeGenerator(config.ClaudeBackendConfig{Command: script})

	out, err := gen.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if strings.TrimSpace(out) != "done" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestNewFromConfigNil(t *testing.T) {
	if _, err := NewFromConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestFuncAdapter(t *testing.T) {
	gen := Func(func(ctx context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})

	out, err := gen.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "echo: hello" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestClaudeGeneratorDefaults(t *testing.T) {
	gen := NewClaudeGenerator(config.ClaudeBackendConfig{})
	if gen.command != "claude" {
		t.Errorf("expected default command claude, got %q", gen.command)
	}
}

func TestCodexGeneratorDefaults(t *testing.T) {
	gen := NewCodexGenerator(config.CodexBackendConfig{})
	if gen.command != "codex" {
		t.Errorf("expected default command codex, got %q", gen.command)
	}
}

func TestGenerateMissingBinary(t *testing.T) {
	gen := NewClaudeGenerator(config.ClaudeBackendConfig{
		Command: "specforge-test-binary-that-does-not-exist",
	})

	_, err := gen.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, errors.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "claude") {
		t.Errorf("expected backend name in error, got %v", err)
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	gen := NewCodexGenerator(config.CodexBackendConfig{Command: "sleep"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, "10")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, errors.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
}
