package workers

import (
	"canvas-lab/domain/event"
	"canvas-lab/moderation"
	"canvas-lab/observability"
	"context"
	"log/slog"

	"github.com/abadojack/whatlanggo"
)

// ModerationWorker sits between the raw event stream and the fanout.
// Chat messages get censored and language-tagged; every other event
// passes through untouched so the pipeline stays single-file.
type ModerationWorker struct {
	moderator    moderation.Moderator
	rawEvents    chan event.DomainEvent
	domainEvents chan event.DomainEvent
	stats        *observability.StatsManager
	log          *slog.Logger
}

func NewModerationWorker(
	moderator moderation.Moderator,
	rawEvents, domainEvents chan event.DomainEvent,
	stats *observability.StatsManager,
	log *slog.Logger) *ModerationWorker {
	return &ModerationWorker{
		moderator:    moderator,
		rawEvents:    rawEvents,
		domainEvents: domainEvents,
		stats:        stats,
		log:          log,
	}
}

func (w ModerationWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case e, ok := <-w.rawEvents:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}

			out := e
			if posted, isChat := e.(event.MessagePosted); isChat {
				out = w.sanitize(posted)
			}

			select {
			case <-ctx.Done():
				w.log.Debug("Stopping worker")
				return ctx.Err()
			case w.domainEvents <- out:
			}
		}
	}
}

func (w ModerationWorker) sanitize(evt event.MessagePosted) event.SanitizedMessage {
	sanitized, foundWords := w.moderator.Censor(evt.Message.Message)
	if len(foundWords) > 0 {
		w.stats.IncrMessagesCensored()
		w.log.Info("Message censored",
			"room", evt.Room,
			"author", evt.Message.UserID,
			"words", len(foundWords))
	}

	info := whatlanggo.Detect(evt.Message.Message)

	message := evt.Message
	message.Message = sanitized
	message.Lang = info.Lang.Iso6391()

	return event.SanitizedMessage{
		ID:      evt.ID,
		Room:    evt.Room,
		Message: message,
	}
}
