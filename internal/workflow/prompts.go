package workflow

import "fmt"

// Prompt builders for each generation phase. The templates mirror the
// Spec Kit command structure: context sections first, then the task and
// a strict output format.

// PlanPrompt asks for an implementation plan derived from the
// constitution, the feature spec, and the declared tech stack.
func PlanPrompt(wc *Context) string {
	return fmt.Sprintf(`You are executing the PLAN phase of a spec-driven development workflow.

## Constitution (Project Principles)

%s

## Feature Specification

%s

## Tech Stack & Architecture

%s

## Your Task

Generate a comprehensive implementation plan with these sections:

1. **Summary**: 2-3 sentence overview of the feature and chosen tech stack.
2. **Technical Context**: stack, architecture pattern, storage, constraints, deployment.
3. **Constitution Check**: a checklist item per applicable principle showing compliance.
4. **Project Structure**: the actual directory layout for this tech stack.
5. **Implementation Phases**: ordered phases with concrete deliverables.

Provide the complete plan as markdown.`, wc.Constitution, wc.Spec, wc.TechStack)
}

// TasksPrompt asks for a task breakdown of an existing plan. The output
// format is load-bearing: downstream parsing keys on the checkbox lines.
func TasksPrompt(wc *Context, plan string) string {
	return fmt.Sprintf(`You are executing the TASKS phase of a spec-driven development workflow.

## Constitution (Project Principles)

%s

## Feature Specification

%s

## Implementation Plan

%s

## Your Task

Break the plan down into an ordered task list. Every task MUST follow this format:

- [ ] T001 Description of the task in `+"`path/to/file.ext`"+`

Rules:
- Task IDs are sequential: T001, T002, T003...
- Add [P] only when the task can run in parallel (different files, no dependencies).
- Add [US1], [US2], ... for user story tasks.
- Name the single target file of each task in backticks.
- Order tasks so that dependencies come before dependents.

Provide the complete task list as markdown.`, wc.Constitution, wc.Spec, plan)
}

// ImplementPrompt asks for the implementation of a single task item. The
// full task list is included for cross-reference, but only the named
// item may be implemented.
func ImplementPrompt(wc *Context, plan, tasks string, item TaskItem) string {
	return fmt.Sprintf(`You are executing the IMPLEMENT phase of a spec-driven development workflow.

## Constitution (Project Principles)

%s

## Feature Specification

%s

## Implementation Plan

%s

## Full Task List (for cross-reference only)

%s

## Your Task

Implement exactly one task:

- ID: %s
- Description: %s
- Target file: %s

Output format:

File: %s
`+"```%s"+`
<complete file content>
`+"```"+`

Rules:
- Produce the COMPLETE content of the target file, not a fragment.
- Implement only this task; do not touch other tasks' files.
- Precede the code block with the File: line exactly as shown.`,
		wc.Constitution, wc.Spec, plan, tasks,
		item.ID, item.Description, item.FilePath, item.FilePath, item.ContentKind)
}

// ResearchPrompt asks for a technology research document. Runs before
// planning when the research phase is enabled.
func ResearchPrompt(wc *Context) string {
	return fmt.Sprintf(`You are executing the RESEARCH phase of a spec-driven development workflow.

## Tech Stack Under Consideration

%s

## Feature Specification

%s

## Your Task

Research the proposed technologies for this feature. Cover, per technology:
library maturity, fit for the requirements, notable alternatives, and any
risks or unknowns that should influence the plan.

Provide the complete research document as markdown.`, wc.TechStack, wc.Spec)
}

// DataModelPrompt asks for a data model document derived from the spec
// and the plan. Runs after planning when the data model phase is enabled.
func DataModelPrompt(wc *Context, plan string) string {
	return fmt.Sprintf(`You are executing the DATA MODEL phase of a spec-driven development workflow.

## Feature Specification

%s

## Implementation Plan

%s

## Your Task

Define the data model for this feature: entities with their fields and
types, relationships, validation rules, and state transitions where
relevant.

Provide the complete data model document as markdown.`, wc.Spec, plan)
}
