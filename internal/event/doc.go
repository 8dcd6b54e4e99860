// Package event provides a pub-sub event bus for decoupled inter-component
// communication in rivalscan.
//
// This package enables loose coupling between the pipeline, the TUI, and the
// logger by allowing them to communicate through events rather than direct
// method calls. The pipeline publishes progress without knowing who will
// receive it, and renderers subscribe without knowing who will produce it.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// The package defines several categories of events:
//
// Run Lifecycle:
//   - [RunStartedEvent]: Emitted when an analysis run begins
//   - [RunCompletedEvent]: Emitted when every stage has finished
//   - [RunFailedEvent]: Emitted when a stage fails and the run aborts
//
// Stage Progress:
//   - [StageStartedEvent]: Emitted when a pipeline stage begins
//   - [StageCompletedEvent]: Emitted when a pipeline stage finishes
//
// Search Status:
//   - [SearchDegradedEvent]: Emitted when web search is unavailable and a
//     stage proceeds on model knowledge alone
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Multiple goroutines can publish
// and subscribe concurrently. Handlers are called synchronously and protected
// against panics - a panicking handler will not prevent other handlers from
// being called.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	// Subscribe to specific event types
//	bus.Subscribe("stage.completed", func(e event.Event) {
//	    done := e.(event.StageCompletedEvent)
//	    log.Printf("Stage %s finished in %v", done.Stage, done.Duration)
//	})
//
//	// Subscribe to all events (useful for logging)
//	bus.SubscribeAll(func(e event.Event) {
//	    log.Printf("Event: %s at %v", e.EventType(), e.Timestamp())
//	})
//
//	// Publish events
//	bus.Publish(event.NewRunStartedEvent("run-1a2b", "an AI meal planner", stages))
//
//	// Unsubscribe when done
//	tok := bus.Subscribe("search.degraded", handler)
//	bus.Unsubscribe(tok)
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action":
//   - run.started, run.completed, run.failed
//   - stage.started, stage.completed
//   - search.degraded
package event
