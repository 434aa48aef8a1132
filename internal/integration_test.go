// Package internal contains integration tests that verify the packages
// work together correctly: the event bus, the approval gate, and the
// workflow runner composed the way the run command composes them.
package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/specforge/specforge/internal/artifact"
	"github.com/specforge/specforge/internal/event"
	"github.com/specforge/specforge/internal/generator"
	"github.com/specforge/specforge/internal/workflow"
)

// TestPipelineEventFlow runs the full pipeline against a scripted
// generator and verifies that events observed on the bus tell the same
// story as the returned outcome.
func TestPipelineEventFlow(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		artifact.Constitution: "# Constitution\n\n### Simplicity\n",
		artifact.Spec:         "# Spec\n\nA small tool.\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store := artifact.NewStore(dir)
	bus := event.NewBus()

	var mu sync.Mutex
	var seen []string
	bus.SubscribeAll(func(e event.Event) {
		mu.Lock()
		seen = append(seen, e.EventType())
		mu.Unlock()
	})

	gen := generator.Func(func(ctx context.Context, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "the PLAN phase"):
			return "## Summary\n\nplan\n", nil
		case strings.Contains(prompt, "the TASKS phase"):
			return "- [ ] T001 Write the model in `src/model.py`\n", nil
		default:
			return "File: src/model.py\n```python\nx = 1\n```\n", nil
		}
	})

	runner := workflow.NewRunner(store, gen, workflow.WithBus(bus))

	outcome, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Pending == nil {
		t.Fatal("expected the run to suspend for approval")
	}

	outcome, err = runner.Resume(context.Background(), outcome.Pending.RequestID, true)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Result == nil || outcome.Result.FileCount != 1 {
		t.Fatalf("outcome = %+v", outcome)
	}

	mu.Lock()
	defer mu.Unlock()
	joined := strings.Join(seen, " ")
	for _, want := range []string{
		"phase.started", "phase.completed", "approval.requested",
		"approval.resolved", "file.saved", "item.completed", "run.completed",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("event %q not observed; saw: %v", want, seen)
		}
	}
	// The approval must resolve before the run completes.
	if strings.Index(joined, "approval.resolved") > strings.Index(joined, "run.completed") {
		t.Errorf("approval.resolved observed after run.completed: %v", seen)
	}
}

// TestConcurrentEventDelivery verifies the bus tolerates concurrent
// publishing from multiple goroutines, the way a future parallel task
// executor would use it.
func TestConcurrentEventDelivery(t *testing.T) {
	bus := event.NewBus()

	var mu sync.Mutex
	count := 0
	bus.Subscribe("run.progress", func(e event.Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				bus.Publish(event.NewProgressEvent("run", "implementation", fmt.Sprintf("item %d/%d", n, j)))
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != 200 {
		t.Errorf("delivered %d events, want 200", count)
	}
}
