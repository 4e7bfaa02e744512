package sink

import (
	"canvas-lab/domain"
	"canvas-lab/domain/event"
	"context"
)

// Recorder is the slice of the chat log the timeline needs: remembering
// delivered messages in the per-room hot window.
type Recorder interface {
	Remember(roomID string, message domain.ChatMessage)
}

// TimelineSink feeds the in-memory chat hot window so a session attaching
// mid-conversation sees recent messages without a disk read.
type TimelineSink struct {
	recorder Recorder
}

func NewTimelineSink(recorder Recorder) *TimelineSink {
	return &TimelineSink{recorder: recorder}
}

func (t *TimelineSink) Consume(_ context.Context, e event.DomainEvent) error {
	if evt, ok := e.(event.SanitizedMessage); ok {
		t.recorder.Remember(evt.Room, evt.Message)
	}
	return nil
}
