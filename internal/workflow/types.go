// Package workflow implements the spec-driven development pipeline:
// plan generation, task breakdown, a human approval gate, and per-task
// code generation. Phases run strictly in sequence; the only suspension
// point is the approval gate.
package workflow

// Context holds the source documents every phase derives from. It is
// loaded once by the router and never mutated.
type Context struct {
	Constitution string
	Spec         string
	TechStack    string
}

// State is the input a phase executor consumes. Exactly one variant is
// active at any point in a run.
type State interface {
	isState()
}

// ContextState starts the pipeline from the top: plan generation runs
// first.
type ContextState struct {
	Context *Context
}

// PlanState resumes with an existing plan: task generation runs next and
// the approval gate still applies.
type PlanState struct {
	Context *Context
	Plan    string
}

// TaskListState resumes with both a plan and a task list. The task list
// is treated as already approved, so implementation runs immediately.
type TaskListState struct {
	Context   *Context
	Plan      string
	Tasks     string
	TaskCount int
}

func (ContextState) isState()  {}
func (PlanState) isState()     {}
func (TaskListState) isState() {}

// TaskItem is one addressable unit of implementation work resolved to
// exactly one target file.
type TaskItem struct {
	// ID is the task identifier, "T" followed by digits (e.g. "T001")
	ID string
	// Description is the free text after the ID, markers included
	Description string
	// FilePath is the single target file for this unit
	FilePath string
	// ContentKind is inferred from the file extension; may be empty
	ContentKind string
	// Parallel is set when the line carries a [P] marker
	Parallel bool
	// Story is the user story marker (e.g. "US1") when present
	Story string
}

// CodeBlock is one fenced region extracted from generated text.
type CodeBlock struct {
	// Language is the tag on the opening fence; may be empty
	Language string
	// FilePath comes from a File: annotation immediately preceding the
	// fence; empty when absent
	FilePath string
	// Body is the raw text between the fences, blank lines preserved
	Body string
}

// PendingApproval is returned when a run suspends at the approval gate.
type PendingApproval struct {
	RequestID string
	RunID     string
	Message   string
	Preview   string
	TaskCount int
}

// Result is the terminal output of a run.
type Result struct {
	// Implementation is the accumulated implementation log text
	Implementation string
	// GeneratedFiles lists the paths of saved code files
	GeneratedFiles []string
	// FileCount is len(GeneratedFiles)
	FileCount int
	// Cancelled is set when the run was terminated by approval
	// rejection. A cancelled run always has FileCount 0.
	Cancelled bool
}

// Outcome is what a top-level run call produces: either a pending
// approval (the run is suspended) or a terminal result. Exactly one
// field is non-nil.
type Outcome struct {
	Pending *PendingApproval
	Result  *Result
}
