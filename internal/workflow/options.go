package workflow

import (
	"github.com/specforge/specforge/internal/approval"
	"github.com/specforge/specforge/internal/event"
	"github.com/specforge/specforge/internal/logging"
)

// Option configures a Runner.
type Option func(*Runner)

// WithBus sets the event bus runs publish on.
func WithBus(bus *event.Bus) Option {
	return func(r *Runner) {
		r.bus = bus
	}
}

// WithLogger sets the debug logger.
func WithLogger(log *logging.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithGate sets the approval gate. Sharing a gate between runners lets a
// single surface resolve approvals for all of them.
func WithGate(gate *approval.Gate) Option {
	return func(r *Runner) {
		r.gate = gate
	}
}

// WithParser sets the task list parser.
func WithParser(parser *Parser) Option {
	return func(r *Runner) {
		r.parser = parser
	}
}

// WithTechStack sets the technology stack named in generation prompts.
func WithTechStack(techStack string) Option {
	return func(r *Runner) {
		r.techStack = techStack
	}
}

// WithPreviewChars bounds the task list preview shown at the approval
// gate.
func WithPreviewChars(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.previewChars = n
		}
	}
}

// WithResearch enables the research document phase before planning.
func WithResearch(enabled bool) Option {
	return func(r *Runner) {
		r.includeResearch = enabled
	}
}

// WithDataModel enables the data model document phase after planning.
func WithDataModel(enabled bool) Option {
	return func(r *Runner) {
		r.includeDataModel = enabled
	}
}
