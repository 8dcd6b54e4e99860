package event

import (
	"log"
	"runtime/debug"
	"sync"
)

// Handler is a function that receives a published event.
type Handler func(Event)

// wildcard is the registry key for handlers that receive every event.
const wildcard = "*"

// Token identifies a subscription so it can be removed later. Tokens are
// only meaningful to the bus that issued them.
type Token struct {
	eventType string
	id        uint64
}

type entry struct {
	id uint64
	fn Handler
}

// Bus is a synchronous pub-sub bus for pipeline progress events.
// Publish blocks until every handler has returned, which keeps event order
// deterministic for a strictly sequential run: a subscriber always sees
// stage.started before the matching stage.completed.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]entry // event type (or wildcard) -> ordered handlers
	lastID   uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]entry)}
}

// Subscribe registers a handler for one event type and returns a token
// for Unsubscribe. Handlers for the same type run in registration order.
func (b *Bus) Subscribe(eventType string, fn Handler) Token {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastID++
	b.handlers[eventType] = append(b.handlers[eventType], entry{id: b.lastID, fn: fn})
	return Token{eventType: eventType, id: b.lastID}
}

// SubscribeAll registers a handler for every event type. Wildcard handlers
// run after the type-specific ones for each published event.
func (b *Bus) SubscribeAll(fn Handler) Token {
	return b.Subscribe(wildcard, fn)
}

// Unsubscribe removes the subscription the token names. It reports whether
// the subscription was still registered.
func (b *Bus) Unsubscribe(tok Token) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.handlers[tok.eventType]
	for i, e := range entries {
		if e.id == tok.id {
			b.handlers[tok.eventType] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers the event to every handler subscribed to its type, then
// to every wildcard handler, each group in registration order. A panicking
// handler is logged and skipped; delivery to the rest continues.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	typed := b.handlers[ev.EventType()]
	wild := b.handlers[wildcard]
	snapshot := make([]Handler, 0, len(typed)+len(wild))
	for _, e := range typed {
		snapshot = append(snapshot, e.fn)
	}
	for _, e := range wild {
		snapshot = append(snapshot, e.fn)
	}
	b.mu.RUnlock()

	for _, fn := range snapshot {
		b.dispatch(fn, ev)
	}
}

func (b *Bus) dispatch(fn Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event: %s handler panicked: %v\n%s", ev.EventType(), r, debug.Stack())
		}
	}()
	fn(ev)
}

// Clear drops every subscription.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string][]entry)
}

// SubscriptionCount reports the number of live subscriptions across all
// event types, wildcard included.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, entries := range b.handlers {
		n += len(entries)
	}
	return n
}
