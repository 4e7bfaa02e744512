package sink

import (
	"canvas-lab/domain/event"
	"canvas-lab/search"
	"context"
	"log/slog"
	"sync"
	"time"
)

// SearchSink buffers delivered messages and indexes them in batches.
// A flush fires either when the buffer reaches maxBatch or when the
// timer expires, so low-traffic rooms still become searchable quickly.
type SearchSink struct {
	mu            sync.Mutex
	timer         *time.Timer
	index         search.IMessageIndex
	log           *slog.Logger
	pending       []event.SanitizedMessage
	maxBatch      int
	bufferTimeout time.Duration
}

func NewSearchSink(index search.IMessageIndex, log *slog.Logger, maxBatch int, bufferTimeout time.Duration) *SearchSink {
	return &SearchSink{
		index:         index,
		log:           log,
		maxBatch:      maxBatch,
		bufferTimeout: bufferTimeout,
	}
}

func (s *SearchSink) Consume(_ context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.SanitizedMessage)
	if !ok {
		return nil
	}

	s.mu.Lock()
	s.pending = append(s.pending, evt)

	// First message of a fresh batch arms the deadline flush.
	if len(s.pending) == 1 && s.timer == nil {
		s.timer = time.AfterFunc(s.bufferTimeout, func() {
			if err := s.Flush(); err != nil {
				s.log.Error("Deadline flush failed", "error", err)
			}
		})
	}

	isFull := len(s.pending) >= s.maxBatch
	s.mu.Unlock()

	if isFull {
		return s.Flush()
	}
	return nil
}

// Flush swaps the buffer out under the lock and indexes the batch
// outside it, so new messages keep accumulating during the write.
func (s *SearchSink) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}
	batch := s.pending
	s.pending = make([]event.SanitizedMessage, 0, s.maxBatch)
	s.mu.Unlock()

	for _, evt := range batch {
		if err := s.index.Index(evt.ID, evt.Room, evt.Message); err != nil {
			return err
		}
	}
	s.log.Debug("Search batch indexed", "count", len(batch))
	return nil
}
