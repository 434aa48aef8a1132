// Package generator abstracts the AI backend that produces workflow
// documents and code. Backends run a CLI in one-shot mode and return
// its stdout as generated text.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/specforge/specforge/internal/config"
	"github.com/specforge/specforge/internal/errors"
)

// BackendName identifies a supported generation backend.
type BackendName string

const (
	BackendClaude BackendName = "claude"
	BackendCodex  BackendName = "codex"
)

// Generator produces text for a prompt.
type Generator interface {
	Name() BackendName
	DisplayName() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to the Generator interface. Useful in
// tests and for embedding canned generators.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Name() BackendName   { return "func" }
func (f Func) DisplayName() string { return "Func" }

func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ErrUnknownBackend is returned when the configured backend is unsupported.
var ErrUnknownBackend = fmt.Errorf("unknown generator backend")

// NewFromConfig builds a Generator from configuration.
func NewFromConfig(cfg *config.Config) (Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("missing config")
	}

	switch strings.ToLower(cfg.Generator.Backend) {
	case string(BackendClaude), "":
		gen := NewClaudeGenerator(cfg.Generator.Claude)
		gen.timeout = cfg.Generator.Timeout()
		return gen, nil
	case string(BackendCodex):
		gen := NewCodexGenerator(cfg.Generator.Codex)
		gen.timeout = cfg.Generator.Timeout()
		return gen, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Generator.Backend)
	}
}

// DefaultGenerator returns a Claude generator with default settings.
func DefaultGenerator() Generator {
	return NewClaudeGenerator(config.ClaudeBackendConfig{
		Command:         "claude",
		SkipPermissions: true,
	})
}

// ClaudeGenerator runs Claude Code in print mode.
type ClaudeGenerator struct {
	command         string
	skipPermissions bool
	timeout         time.Duration
}

// NewClaudeGenerator creates a Claude generator from config.
func NewClaudeGenerator(cfg config.ClaudeBackendConfig) *ClaudeGenerator {
	command := cfg.Command
	if command == "" {
		command = "claude"
	}
	return &ClaudeGenerator{
		command:         command,
		skipPermissions: cfg.SkipPermissions,
	}
}

func (c *ClaudeGenerator) Name() BackendName { return BackendClaude }

func (c *ClaudeGenerator) DisplayName() string { return "Claude" }

func (c *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := []string{"--print"}
	if c.skipPermissions {
		args = append(args, "--dangerously-skip-permissions")
	}
	args = append(args, prompt)
	ctx, cancel := callContext(ctx, c.timeout)
	defer cancel()
	return runCommand(ctx, string(BackendClaude), c.command, args)
}

// CodexGenerator runs Codex CLI in exec mode.
type CodexGenerator struct {
	command      string
	approvalMode string
	timeout      time.Duration
}

// NewCodexGenerator creates a Codex generator from config.
func NewCodexGenerator(cfg config.CodexBackendConfig) *CodexGenerator {
	command := cfg.Command
	if command == "" {
		command = "codex"
	}
	return &CodexGenerator{
		command:      command,
		approvalMode: cfg.ApprovalMode,
	}
}

func (c *CodexGenerator) Name() BackendName { return BackendCodex }

func (c *CodexGenerator) DisplayName() string { return "Codex" }

func (c *CodexGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := []string{"exec"}
	switch strings.ToLower(c.approvalMode) {
	case "bypass":
		args = append(args, "--dangerously-bypass-approvals-and-sandbox")
	case "full-auto":
		args = append(args, "--full-auto")
	}
	args = append(args, prompt)
	ctx, cancel := callContext(ctx, c.timeout)
	defer cancel()
	return runCommand(ctx, string(BackendCodex), c.command, args)
}

// callContext bounds a single generation call by the configured timeout.
// A zero timeout means no limit.
func callContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func runCommand(ctx context.Context, backend, command string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", errors.NewGeneratorError(backend, ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", errors.NewGeneratorError(backend, err)
	}

	return stdout.String(), nil
}
