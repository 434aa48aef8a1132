package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/specforge/specforge/internal/approval"
	"github.com/specforge/specforge/internal/artifact"
	"github.com/specforge/specforge/internal/errors"
	"github.com/specforge/specforge/internal/event"
	"github.com/specforge/specforge/internal/generator"
	"github.com/specforge/specforge/internal/logging"
)

// Phase names used in events, logs, and errors.
const (
	PhaseResearch       = "research"
	PhasePlan           = "plan"
	PhaseDataModel      = "data-model"
	PhaseTasks          = "tasks"
	PhaseImplementation = "implementation"
)

// Runner drives the pipeline phases in sequence. A run either completes
// in one call or suspends at the approval gate; a suspended run is
// finished by a separate Resume call carrying the human's decision.
type Runner struct {
	store *artifact.Store
	gen   generator.Generator

	bus    *event.Bus
	log    *logging.Logger
	gate   *approval.Gate
	parser *Parser

	techStack        string
	previewChars     int
	includeResearch  bool
	includeDataModel bool

	mu        sync.Mutex
	pendingID string
}

// resumeState is the payload stashed at the gate: everything the
// implementation phase needs, so resumption never re-reads the store.
type resumeState struct {
	wc    *Context
	plan  string
	tasks string
}

// NewRunner creates a Runner over an artifact store and a generator.
func NewRunner(store *artifact.Store, gen generator.Generator, opts ...Option) *Runner {
	r := &Runner{
		store:        store,
		gen:          gen,
		previewChars: 500,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logging.NopLogger()
	}
	if r.parser == nil {
		r.parser = NewParser(nil)
	}
	if r.gate == nil {
		r.gate = approval.NewGate(r.bus)
	}
	return r
}

// Gate returns the approval gate runs suspend at.
func (r *Runner) Gate() *approval.Gate {
	return r.gate
}

// Run probes the artifact directory and executes the pipeline from the
// phase the probe selects. It returns a pending approval when the run
// suspends at the gate, or a terminal result otherwise.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	r.mu.Lock()
	if r.pendingID != "" {
		r.mu.Unlock()
		return nil, errors.ErrRunInProgress
	}
	r.mu.Unlock()

	runID := uuid.New().String()
	log := r.log.WithRun(runID)

	state, err := Probe(r.store, r.techStack)
	if err != nil {
		log.Error("probe failed", "error", err)
		return nil, err
	}

	switch s := state.(type) {
	case ContextState:
		log.Info("starting full pipeline")
		if r.includeResearch {
			if _, err := r.runDocPhase(ctx, runID, PhaseResearch, artifact.Research, ResearchPrompt(s.Context)); err != nil {
				return nil, err
			}
		}
		plan, err := r.runDocPhase(ctx, runID, PhasePlan, artifact.Plan, PlanPrompt(s.Context))
		if err != nil {
			return nil, err
		}
		if r.includeDataModel {
			if _, err := r.runDocPhase(ctx, runID, PhaseDataModel, artifact.DataModel, DataModelPrompt(s.Context, plan)); err != nil {
				return nil, err
			}
		}
		return r.runTaskPhase(ctx, runID, s.Context, plan)

	case PlanState:
		log.Info("resuming with existing plan")
		return r.runTaskPhase(ctx, runID, s.Context, s.Plan)

	case TaskListState:
		log.Info("resuming with existing plan and task list, approval bypassed",
			"task_count", s.TaskCount)
		result, err := r.runImplementation(ctx, runID, s.Context, s.Plan, s.Tasks)
		if err != nil {
			return nil, err
		}
		return &Outcome{Result: result}, nil

	default:
		return nil, fmt.Errorf("unhandled pipeline state %T", state)
	}
}

// Plan runs only the document phases: research when enabled, the plan,
// and the data model when enabled. It never generates tasks and never
// suspends. An existing plan is returned as-is.
func (r *Runner) Plan(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.pendingID != "" {
		r.mu.Unlock()
		return "", errors.ErrRunInProgress
	}
	r.mu.Unlock()

	runID := uuid.New().String()

	state, err := Probe(r.store, r.techStack)
	if err != nil {
		return "", err
	}

	switch s := state.(type) {
	case ContextState:
		if r.includeResearch {
			if _, err := r.runDocPhase(ctx, runID, PhaseResearch, artifact.Research, ResearchPrompt(s.Context)); err != nil {
				return "", err
			}
		}
		plan, err := r.runDocPhase(ctx, runID, PhasePlan, artifact.Plan, PlanPrompt(s.Context))
		if err != nil {
			return "", err
		}
		if r.includeDataModel {
			if _, err := r.runDocPhase(ctx, runID, PhaseDataModel, artifact.DataModel, DataModelPrompt(s.Context, plan)); err != nil {
				return "", err
			}
		}
		return plan, nil

	case PlanState:
		return s.Plan, nil

	case TaskListState:
		return s.Plan, nil

	default:
		return "", fmt.Errorf("unhandled pipeline state %T", state)
	}
}

// Resume finishes a run suspended at the approval gate. On approval the
// implementation phase runs with the state stashed at suspension time.
// On rejection the run terminates cleanly with a cancelled result; the
// artifacts already on disk stay there.
func (r *Runner) Resume(ctx context.Context, requestID string, approved bool) (*Outcome, error) {
	req, err := r.gate.Resolve(requestID, approved)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.pendingID == requestID {
		r.pendingID = ""
	}
	r.mu.Unlock()

	rs, ok := req.Payload.(resumeState)
	if !ok {
		return nil, fmt.Errorf("approval request %s carries no resume state", requestID)
	}

	log := r.log.WithRun(req.RunID)
	if !approved {
		log.Info("tasks rejected, run cancelled")
		r.publish(event.NewRunCompletedEvent(req.RunID, true, 0))
		return &Outcome{Result: &Result{
			GeneratedFiles: []string{},
			Cancelled:      true,
		}}, nil
	}

	log.Info("tasks approved, proceeding to implementation")
	result, err := r.runImplementation(ctx, req.RunID, rs.wc, rs.plan, rs.tasks)
	if err != nil {
		return nil, err
	}
	return &Outcome{Result: result}, nil
}

// runDocPhase generates one document artifact and persists it. The raw
// generator output is written unconditionally; a malformed or empty
// result is still an artifact.
func (r *Runner) runDocPhase(ctx context.Context, runID, phase, name, prompt string) (string, error) {
	log := r.log.WithRun(runID).WithPhase(phase)
	r.publish(event.NewPhaseStartedEvent(runID, phase))
	log.Info("generating")

	text, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		perr := errors.NewPhaseError("generation failed", err).WithPhase(phase)
		log.Error("generation failed", "error", err)
		r.publish(event.NewRunFailedEvent(runID, phase, perr.Error()))
		return "", perr
	}

	path, err := r.store.Write(name, text)
	if err != nil {
		perr := errors.NewPhaseError("persisting artifact failed", err).WithPhase(phase)
		log.Error("persist failed", "error", err)
		r.publish(event.NewRunFailedEvent(runID, phase, perr.Error()))
		return "", perr
	}

	log.Info("artifact written", "path", path, "chars", len(text))
	r.publish(event.NewPhaseCompletedEvent(runID, phase, path, len(text)))
	return text, nil
}

// runTaskPhase generates the task list, persists it, and suspends at the
// approval gate.
func (r *Runner) runTaskPhase(ctx context.Context, runID string, wc *Context, plan string) (*Outcome, error) {
	tasks, err := r.runDocPhase(ctx, runID, PhaseTasks, artifact.Tasks, TasksPrompt(wc, plan))
	if err != nil {
		return nil, err
	}

	count := CountUncheckedTasks(tasks)
	preview := previewText(tasks, r.previewChars)
	message := fmt.Sprintf(
		"Generated %d tasks. Please review %s and approve to proceed with implementation.",
		count, artifact.Tasks)

	requestID := r.gate.Submit(runID, count, preview, resumeState{
		wc:    wc,
		plan:  plan,
		tasks: tasks,
	})

	r.mu.Lock()
	r.pendingID = requestID
	r.mu.Unlock()

	r.log.WithRun(runID).WithPhase(PhaseTasks).Info("awaiting approval",
		"request_id", requestID, "task_count", count)

	return &Outcome{Pending: &PendingApproval{
		RequestID: requestID,
		RunID:     runID,
		Message:   message,
		Preview:   preview,
		TaskCount: count,
	}}, nil
}

// runImplementation parses the task list and generates each item's file
// strictly in sequence. A single item's failure is recorded in the log
// and never aborts the phase.
func (r *Runner) runImplementation(ctx context.Context, runID string, wc *Context, plan, tasks string) (*Result, error) {
	log := r.log.WithRun(runID).WithPhase(PhaseImplementation)
	r.publish(event.NewPhaseStartedEvent(runID, PhaseImplementation))

	items := r.parser.Parse(tasks)
	log.Info("parsed task items", "count", len(items))

	// The log is persisted incrementally so a crash mid-phase still
	// leaves the completed sections on disk.
	var b strings.Builder
	b.WriteString("# Implementation Log\n")
	path, err := r.store.Write(artifact.Implementation, b.String())
	if err != nil {
		perr := errors.NewPhaseError("persisting implementation log failed", err).
			WithPhase(PhaseImplementation)
		r.publish(event.NewRunFailedEvent(runID, PhaseImplementation, perr.Error()))
		return nil, perr
	}
	saved := []string{}

	appendSection := func(format string, args ...any) error {
		section := fmt.Sprintf(format, args...)
		b.WriteString(section)
		if err := r.store.Append(artifact.Implementation, section); err != nil {
			perr := errors.NewPhaseError("persisting implementation log failed", err).
				WithPhase(PhaseImplementation)
			r.publish(event.NewRunFailedEvent(runID, PhaseImplementation, perr.Error()))
			return perr
		}
		return nil
	}

	for _, item := range items {
		itemLog := log.WithTask(item.ID)
		r.publish(event.NewProgressEvent(runID, PhaseImplementation,
			fmt.Sprintf("implementing %s: %s", item.ID, item.Description)))

		out, err := r.gen.Generate(ctx, ImplementPrompt(wc, plan, tasks, item))
		if err != nil {
			ierr := errors.NewPhaseError("generation failed", err).
				WithPhase(PhaseImplementation).WithTaskID(item.ID)
			itemLog.Error("generation failed", "error", err)
			if aerr := appendSection("\n## %s: %s\n\n**ERROR**: %v\n", item.ID, item.Description, ierr); aerr != nil {
				return nil, aerr
			}
			r.publish(event.NewTaskItemFailedEvent(runID, item.ID, ierr.Error()))
			continue
		}

		if err := appendSection("\n## %s: %s\n\n%s\n", item.ID, item.Description, out); err != nil {
			return nil, err
		}

		blocks := ExtractCodeBlocks(out)
		if len(blocks) == 0 {
			itemLog.Warn("no code block in response")
			if err := appendSection("\n**WARNING**: no code block found for %s\n", item.ID); err != nil {
				return nil, err
			}
			r.publish(event.NewTaskItemCompletedEvent(runID, item.ID, ""))
			continue
		}

		savedPath, err := r.store.SaveCode(item.FilePath, blocks[0].Body)
		if err != nil {
			ierr := errors.NewPhaseError("saving code file failed", err).
				WithPhase(PhaseImplementation).WithTaskID(item.ID)
			itemLog.Error("save failed", "error", err)
			if aerr := appendSection("\n**ERROR**: saving %s: %v\n", item.FilePath, ierr); aerr != nil {
				return nil, aerr
			}
			r.publish(event.NewTaskItemFailedEvent(runID, item.ID, ierr.Error()))
			continue
		}

		saved = append(saved, savedPath)
		itemLog.Info("file saved", "path", savedPath)
		r.publish(event.NewFileSavedEvent(runID, item.ID, savedPath))
		r.publish(event.NewTaskItemCompletedEvent(runID, item.ID, savedPath))
	}

	implementation := b.String()
	log.Info("implementation complete", "files", len(saved), "log", path)
	r.publish(event.NewPhaseCompletedEvent(runID, PhaseImplementation, path, len(implementation)))
	r.publish(event.NewRunCompletedEvent(runID, false, len(saved)))

	return &Result{
		Implementation: implementation,
		GeneratedFiles: saved,
		FileCount:      len(saved),
	}, nil
}

func (r *Runner) publish(evt event.Event) {
	if r.bus != nil {
		r.bus.Publish(evt)
	}
}

// previewText bounds a document preview, marking truncation explicitly.
// The cut never splits a multibyte rune.
func previewText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "\n... (truncated)"
}
