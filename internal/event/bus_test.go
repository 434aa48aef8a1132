package event

import (
	"sync"
	"testing"
)

func TestSubscribeAndPublish(t *testing.T) {
	bus := NewBus()

	var received []Event
	bus.Subscribe("phase.started", func(e Event) {
		received = append(received, e)
	})

	bus.Publish(NewPhaseStartedEvent("run-1", "plan"))

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	evt, ok := received[0].(PhaseStartedEvent)
	if !ok {
		t.Fatalf("expected PhaseStartedEvent, got %T", received[0])
	}
	if evt.Phase != "plan" {
		t.Errorf("expected phase %q, got %q", "plan", evt.Phase)
	}
	if evt.RunID != "run-1" {
		t.Errorf("expected run ID %q, got %q", "run-1", evt.RunID)
	}
}

func TestPublishOnlyMatchingType(t *testing.T) {
	bus := NewBus()

	var phaseEvents, fileEvents int
	bus.Subscribe("phase.completed", func(e Event) { phaseEvents++ })
	bus.Subscribe("file.saved", func(e Event) { fileEvents++ })

	bus.Publish(NewPhaseCompletedEvent("run-1", "plan", "/tmp/plan.md", 120))
	bus.Publish(NewPhaseCompletedEvent("run-1", "tasks", "/tmp/tasks.md", 240))
	bus.Publish(NewFileSavedEvent("run-1", "T001", "/tmp/outputs/main.go"))

	if phaseEvents != 2 {
		t.Errorf("expected 2 phase events, got %d", phaseEvents)
	}
	if fileEvents != 1 {
		t.Errorf("expected 1 file event, got %d", fileEvents)
	}
}

func TestSubscribeAll(t *testing.T) {
	bus := NewBus()

	var all []string
	bus.SubscribeAll(func(e Event) {
		all = append(all, e.EventType())
	})

	bus.Publish(NewPhaseStartedEvent("run-1", "plan"))
	bus.Publish(NewTaskItemFailedEvent("run-1", "T003", "generation failed"))
	bus.Publish(NewRunCompletedEvent("run-1", false, 4))

	want := []string{"phase.started", "item.failed", "run.completed"}
	if len(all) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(all))
	}
	for i, typ := range want {
		if all[i] != typ {
			t.Errorf("event %d: expected type %q, got %q", i, typ, all[i])
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()

	var count int
	id := bus.Subscribe("approval.requested", func(e Event) { count++ })

	bus.Publish(NewApprovalRequestedEvent("run-1", "req-1", 3, "preview"))
	bus.Unsubscribe(id)
	bus.Publish(NewApprovalRequestedEvent("run-1", "req-2", 3, "preview"))

	if count != 1 {
		t.Errorf("expected 1 event after unsubscribe, got %d", count)
	}
}

func TestPanicInHandlerDoesNotStopDelivery(t *testing.T) {
	bus := NewBus()

	var delivered bool
	bus.Subscribe("run.failed", func(e Event) {
		panic("handler panic")
	})
	bus.Subscribe("run.failed", func(e Event) {
		delivered = true
	})

	bus.Publish(NewRunFailedEvent("run-1", "tasks", "boom"))

	if !delivered {
		t.Error("expected second handler to run despite panic in first")
	}
}

func TestConcurrentPublish(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.Subscribe("run.progress", func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(NewProgressEvent("run-1", "plan", "working"))
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != 10 {
		t.Errorf("expected 10 events, got %d", count)
	}
}

func TestClear(t *testing.T) {
	bus := NewBus()

	bus.Subscribe("phase.started", func(e Event) {})
	bus.SubscribeAll(func(e Event) {})
	if n := bus.SubscriptionCount(); n != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", n)
	}

	bus.Clear()
	if n := bus.SubscriptionCount(); n != 0 {
		t.Errorf("expected 0 subscriptions after clear, got %d", n)
	}
}
