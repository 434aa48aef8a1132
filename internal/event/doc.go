// Package event provides a synchronous pub-sub event bus and the typed
// events published by the specforge pipeline.
//
// Components publish events to decouple the workflow runner from its
// observers (CLI rendering, logging, tests). Handlers are invoked
// synchronously in registration order; a panicking handler is recovered
// and logged so it cannot block delivery to other handlers.
//
// Event types follow the "category.action" naming convention, e.g.
// "phase.started", "approval.requested", "run.completed".
package event
