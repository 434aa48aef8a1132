package workflow

import (
	"fmt"

	"github.com/specforge/specforge/internal/artifact"
	"github.com/specforge/specforge/internal/errors"
)

// Listing is the view of the artifact directory the router probes. It is
// satisfied by *artifact.Store; tests inject fakes.
type Listing interface {
	Exists(name string) bool
	Read(name string) (string, error)
}

// Probe inspects the artifact directory and decides which phase the
// pipeline must start from. The two source documents are mandatory;
// their absence is fatal. Pre-existing artifacts shift the entry point:
//
//	plan and task list present  -> TaskListState (approval gate bypassed)
//	plan only                   -> PlanState (gate still applies)
//	neither                     -> ContextState (full pipeline)
//
// A pre-existing task list is treated as already approved. That is a
// deliberate resumption contract, not an oversight.
func Probe(listing Listing, techStack string) (State, error) {
	constitution, err := listing.Read(artifact.Constitution)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrSourceMissing, artifact.Constitution, err)
	}
	spec, err := listing.Read(artifact.Spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrSourceMissing, artifact.Spec, err)
	}

	wc := &Context{
		Constitution: constitution,
		Spec:         spec,
		TechStack:    techStack,
	}

	hasPlan := listing.Exists(artifact.Plan)
	hasTasks := listing.Exists(artifact.Tasks)

	switch {
	case hasPlan && hasTasks:
		plan, err := listing.Read(artifact.Plan)
		if err != nil {
			return nil, err
		}
		tasks, err := listing.Read(artifact.Tasks)
		if err != nil {
			return nil, err
		}
		return TaskListState{
			Context:   wc,
			Plan:      plan,
			Tasks:     tasks,
			TaskCount: CountUncheckedTasks(tasks),
		}, nil

	case hasPlan:
		plan, err := listing.Read(artifact.Plan)
		if err != nil {
			return nil, err
		}
		return PlanState{Context: wc, Plan: plan}, nil

	default:
		return ContextState{Context: wc}, nil
	}
}
