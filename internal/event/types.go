package event

import "time"

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "phase.started", "run.completed")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Phase Lifecycle Events
// -----------------------------------------------------------------------------

// PhaseStartedEvent is emitted when a pipeline phase begins execution.
type PhaseStartedEvent struct {
	baseEvent
	RunID string // Run this phase belongs to
	Phase string // Phase name ("plan", "tasks", "implementation", ...)
}

// NewPhaseStartedEvent creates a PhaseStartedEvent.
func NewPhaseStartedEvent(runID, phase string) PhaseStartedEvent {
	return PhaseStartedEvent{
		baseEvent: newBaseEvent("phase.started"),
		RunID:     runID,
		Phase:     phase,
	}
}

// PhaseCompletedEvent is emitted when a pipeline phase finishes.
type PhaseCompletedEvent struct {
	baseEvent
	RunID        string // Run this phase belongs to
	Phase        string // Phase name
	ArtifactPath string // Path of the artifact the phase persisted (may be empty)
	Chars        int    // Length of the generated text
}

// NewPhaseCompletedEvent creates a PhaseCompletedEvent.
func NewPhaseCompletedEvent(runID, phase, artifactPath string, chars int) PhaseCompletedEvent {
	return PhaseCompletedEvent{
		baseEvent:    newBaseEvent("phase.completed"),
		RunID:        runID,
		Phase:        phase,
		ArtifactPath: artifactPath,
		Chars:        chars,
	}
}

// ProgressEvent carries a human-readable progress message from a phase.
type ProgressEvent struct {
	baseEvent
	RunID   string // Run the message belongs to
	Phase   string // Phase that produced the message
	Message string // Progress text
}

// NewProgressEvent creates a ProgressEvent.
func NewProgressEvent(runID, phase, message string) ProgressEvent {
	return ProgressEvent{
		baseEvent: newBaseEvent("run.progress"),
		RunID:     runID,
		Phase:     phase,
		Message:   message,
	}
}

// -----------------------------------------------------------------------------
// Approval Events
// -----------------------------------------------------------------------------

// ApprovalRequestedEvent is emitted when the pipeline suspends at the
// human approval gate.
type ApprovalRequestedEvent struct {
	baseEvent
	RunID     string // Run awaiting approval
	RequestID string // Pending request identifier, used to resume
	TaskCount int    // Number of unchecked tasks in the generated list
	Preview   string // Bounded preview of the task list
}

// NewApprovalRequestedEvent creates an ApprovalRequestedEvent.
func NewApprovalRequestedEvent(runID, requestID string, taskCount int, preview string) ApprovalRequestedEvent {
	return ApprovalRequestedEvent{
		baseEvent: newBaseEvent("approval.requested"),
		RunID:     runID,
		RequestID: requestID,
		TaskCount: taskCount,
		Preview:   preview,
	}
}

// ApprovalResolvedEvent is emitted when a pending approval is decided.
type ApprovalResolvedEvent struct {
	baseEvent
	RunID     string // Run the decision belongs to
	RequestID string // Request that was decided
	Approved  bool   // Whether the human approved
}

// NewApprovalResolvedEvent creates an ApprovalResolvedEvent.
func NewApprovalResolvedEvent(runID, requestID string, approved bool) ApprovalResolvedEvent {
	return ApprovalResolvedEvent{
		baseEvent: newBaseEvent("approval.resolved"),
		RunID:     runID,
		RequestID: requestID,
		Approved:  approved,
	}
}

// -----------------------------------------------------------------------------
// Task Item Events
// -----------------------------------------------------------------------------

// TaskItemCompletedEvent is emitted when a single task item's generation
// call succeeds during the implementation phase.
type TaskItemCompletedEvent struct {
	baseEvent
	RunID     string // Run the item belongs to
	TaskID    string // Task item identifier (e.g., "T001")
	SavedPath string // Path the extracted code was saved to (empty if none)
}

// NewTaskItemCompletedEvent creates a TaskItemCompletedEvent.
func NewTaskItemCompletedEvent(runID, taskID, savedPath string) TaskItemCompletedEvent {
	return TaskItemCompletedEvent{
		baseEvent: newBaseEvent("item.completed"),
		RunID:     runID,
		TaskID:    taskID,
		SavedPath: savedPath,
	}
}

// TaskItemFailedEvent is emitted when a single task item's generation call
// fails. The implementation phase continues with the next item.
type TaskItemFailedEvent struct {
	baseEvent
	RunID  string // Run the item belongs to
	TaskID string // Task item identifier
	Error  string // Failure message recorded in the implementation log
}

// NewTaskItemFailedEvent creates a TaskItemFailedEvent.
func NewTaskItemFailedEvent(runID, taskID, errMsg string) TaskItemFailedEvent {
	return TaskItemFailedEvent{
		baseEvent: newBaseEvent("item.failed"),
		RunID:     runID,
		TaskID:    taskID,
		Error:     errMsg,
	}
}

// FileSavedEvent is emitted when an extracted code block is persisted to
// its task item's target path.
type FileSavedEvent struct {
	baseEvent
	RunID  string // Run the file belongs to
	TaskID string // Task item that produced the file
	Path   string // Absolute path of the saved file
}

// NewFileSavedEvent creates a FileSavedEvent.
func NewFileSavedEvent(runID, taskID, path string) FileSavedEvent {
	return FileSavedEvent{
		baseEvent: newBaseEvent("file.saved"),
		RunID:     runID,
		TaskID:    taskID,
		Path:      path,
	}
}

// -----------------------------------------------------------------------------
// Run Lifecycle Events
// -----------------------------------------------------------------------------

// RunCompletedEvent is emitted when a pipeline run reaches a terminal state.
type RunCompletedEvent struct {
	baseEvent
	RunID     string // Run that finished
	Cancelled bool   // True when terminated by approval rejection
	FileCount int    // Number of generated code files
}

// NewRunCompletedEvent creates a RunCompletedEvent.
func NewRunCompletedEvent(runID string, cancelled bool, fileCount int) RunCompletedEvent {
	return RunCompletedEvent{
		baseEvent: newBaseEvent("run.completed"),
		RunID:     runID,
		Cancelled: cancelled,
		FileCount: fileCount,
	}
}

// RunFailedEvent is emitted when a pipeline run aborts with a fatal error.
type RunFailedEvent struct {
	baseEvent
	RunID string // Run that failed
	Phase string // Phase that raised the fatal error
	Error string // Error message
}

// NewRunFailedEvent creates a RunFailedEvent.
func NewRunFailedEvent(runID, phase, errMsg string) RunFailedEvent {
	return RunFailedEvent{
		baseEvent: newBaseEvent("run.failed"),
		RunID:     runID,
		Phase:     phase,
		Error:     errMsg,
	}
}
