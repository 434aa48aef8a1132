// Package approval implements the human approval gate between task list
// generation and implementation. A suspended run is tracked as a pending
// request; resolving the request hands its payload back to the caller so
// the run can resume or terminate.
package approval

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/specforge/specforge/internal/errors"
	"github.com/specforge/specforge/internal/event"
)

// Request is a pending approval held at the gate.
type Request struct {
	ID        string    // Unique request identifier
	RunID     string    // Run that suspended at the gate
	TaskCount int       // Number of unchecked tasks in the generated list
	Preview   string    // Bounded preview of the task list
	CreatedAt time.Time // When the request was raised
	Payload   any       // Opaque resume state supplied by the caller
}

// Gate tracks runs suspended for human approval. Each request is consumed
// exactly once: Resolve removes it whether approved or rejected.
type Gate struct {
	mu      sync.Mutex
	bus     *event.Bus
	pending map[string]*Request
}

// NewGate creates a Gate that publishes lifecycle events on bus.
// The bus may be nil, in which case no events are published.
func NewGate(bus *event.Bus) *Gate {
	return &Gate{
		bus:     bus,
		pending: make(map[string]*Request),
	}
}

// Submit registers a new pending approval and returns its request ID.
func (g *Gate) Submit(runID string, taskCount int, preview string, payload any) string {
	req := &Request{
		ID:        uuid.New().String(),
		RunID:     runID,
		TaskCount: taskCount,
		Preview:   preview,
		CreatedAt: time.Now(),
		Payload:   payload,
	}

	g.mu.Lock()
	g.pending[req.ID] = req
	g.mu.Unlock()

	// Publish outside the mutex to avoid deadlock with bus handlers.
	g.publish(event.NewApprovalRequestedEvent(runID, req.ID, taskCount, preview))
	return req.ID
}

// Resolve decides a pending request and removes it from the gate. The
// returned Request carries the payload stored at Submit time.
func (g *Gate) Resolve(requestID string, approved bool) (*Request, error) {
	g.mu.Lock()
	req, ok := g.pending[requestID]
	if ok {
		delete(g.pending, requestID)
	}
	g.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrNoPendingApproval, requestID)
	}

	g.publish(event.NewApprovalResolvedEvent(req.RunID, requestID, approved))
	return req, nil
}

// Get returns a pending request without removing it.
func (g *Gate) Get(requestID string) (*Request, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	req, ok := g.pending[requestID]
	return req, ok
}

// IsPending reports whether a request is awaiting a decision.
func (g *Gate) IsPending(requestID string) bool {
	_, ok := g.Get(requestID)
	return ok
}

// Pending returns all requests awaiting a decision, oldest first.
// The returned slice is a copy and safe to modify.
func (g *Gate) Pending() []*Request {
	g.mu.Lock()
	defer g.mu.Unlock()

	reqs := make([]*Request, 0, len(g.pending))
	for _, req := range g.pending {
		reqs = append(reqs, req)
	}
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.Before(reqs[j].CreatedAt)
	})
	return reqs
}

func (g *Gate) publish(evt event.Event) {
	if g.bus != nil {
		g.bus.Publish(evt)
	}
}
