package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "workflow.preview_chars")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidBackends returns the list of valid generator backends
func ValidBackends() []string {
	return []string{"claude", "codex"}
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidApprovalModes returns the list of valid Codex approval modes
func ValidApprovalModes() []string {
	return []string{"", "full-auto", "bypass"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateGenerator()...)
	errors = append(errors, c.validateWorkflow()...)
	errors = append(errors, c.validateParser()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateGenerator() []ValidationError {
	var errors []ValidationError

	if c.Generator.Backend != "" && !contains(ValidBackends(), strings.ToLower(c.Generator.Backend)) {
		errors = append(errors, ValidationError{
			Field:   "generator.backend",
			Value:   c.Generator.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidBackends(), ", ")),
		})
	}

	if c.Generator.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "generator.timeout_seconds",
			Value:   c.Generator.TimeoutSeconds,
			Message: "must be non-negative",
		})
	}

	if !contains(ValidApprovalModes(), strings.ToLower(c.Generator.Codex.ApprovalMode)) {
		errors = append(errors, ValidationError{
			Field:   "generator.codex.approval_mode",
			Value:   c.Generator.Codex.ApprovalMode,
			Message: "must be one of: full-auto, bypass, or empty",
		})
	}

	return errors
}

func (c *Config) validateWorkflow() []ValidationError {
	var errors []ValidationError

	if c.Workflow.PreviewChars < 0 {
		errors = append(errors, ValidationError{
			Field:   "workflow.preview_chars",
			Value:   c.Workflow.PreviewChars,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateParser() []ValidationError {
	var errors []ValidationError

	for _, ext := range c.Parser.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errors = append(errors, ValidationError{
				Field:   "parser.extensions",
				Value:   ext,
				Message: "extensions must start with a dot",
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
