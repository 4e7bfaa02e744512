// Package sink contains the event consumers fed by the fanout: durable
// storage, the chat hot window, the search index, and attached sessions.
package sink

import (
	"canvas-lab/domain/event"
	"canvas-lab/repositories"
	"context"
	"log/slog"
)

// DiskSink persists delivered chat messages. Only the sanitized form is
// ever written; the raw message never touches the disk.
type DiskSink struct {
	repository repositories.IMessageRepository
	log        *slog.Logger
}

func NewDiskSink(repository repositories.IMessageRepository, log *slog.Logger) DiskSink {
	return DiskSink{repository: repository, log: log}
}

func (d DiskSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.SanitizedMessage:
		return d.repository.StoreMessage(repositories.DiskMessage{
			ID:      evt.ID,
			Room:    evt.Room,
			Message: evt.Message,
		})
	default:
		return nil
	}
}
