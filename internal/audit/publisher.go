package audit

import (
	"context"
	"sync"
)

// Publisher delivers audit events to a sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// MemoryPublisher collects events in process memory. Used in tests and as
// the fallback sink when no brokers are configured.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

func (p *MemoryPublisher) Close() error {
	return nil
}
