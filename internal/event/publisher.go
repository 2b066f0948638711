package event

import "sync"

// Publisher delivers events to subscribers. Implementations must not block
// the caller on slow subscribers.
type Publisher interface {
	Publish(event Event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when no
// subscriber transport is configured)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(event Event) {}

// MultiPublisher fans an event out to several publishers in order.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(event Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(event)
		}
	}
}

// Recorder keeps every published event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

var (
	_ Publisher = (*NoOpPublisher)(nil)
	_ Publisher = MultiPublisher(nil)
	_ Publisher = (*Recorder)(nil)
)
