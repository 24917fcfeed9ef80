package broker

import (
	"context"
	"errors"
	"sync"
)

// RecordingPublisher keeps published events in memory, for tests.
type RecordingPublisher struct {
	mu         sync.Mutex
	events     []Event
	ShouldFail bool // simulate broker outage
}

func (r *RecordingPublisher) Publish(_ context.Context, events ...Event) error {
	if r.ShouldFail {
		return errors.New("broker unavailable")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *RecordingPublisher) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *RecordingPublisher) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the published event types in order.
func (r *RecordingPublisher) Types() []string {
	events := r.Events()
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	return types
}
