package sink

import (
	"canvas-lab/domain/event"
	"context"
)

// SessionSink hands events over to one attached participant through a
// buffered channel. The session owner drains it; a slow consumer loses
// events rather than stalling the fanout.
type SessionSink struct {
	Events chan event.DomainEvent
}

func NewSessionSink(bufferSize int) *SessionSink {
	return &SessionSink{Events: make(chan event.DomainEvent, bufferSize)}
}

func (s *SessionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Backpressure: the participant is not keeping up, drop.
		return nil
	}
}
