package workers

import (
	"canvas-lab/contract"
	"canvas-lab/domain/event"
	"canvas-lab/observability"
	"context"
	"log/slog"
	"time"
)

// EventFanout broadcasts domain events to the permanent sinks and to the
// sessions attached to the event's room.
//
// Delivery is best-effort: no retries, no durability, and a sink that
// exceeds the timeout simply misses that event. EventFanout is not a
// message broker.
type EventFanout struct {
	log             *slog.Logger
	permanentSinks  []contract.EventSink
	registry        contract.IRegistry
	domainEvents    chan event.DomainEvent
	telemetryEvents chan event.DomainEvent
	sinkTimeout     time.Duration
	stats           *observability.StatsManager
}

func NewEventFanout(
	log *slog.Logger,
	permanentSinks []contract.EventSink,
	registry contract.IRegistry,
	domainEvents, telemetryEvents chan event.DomainEvent,
	sinkTimeout time.Duration,
	stats *observability.StatsManager) *EventFanout {
	return &EventFanout{
		log:             log,
		permanentSinks:  permanentSinks,
		registry:        registry,
		domainEvents:    domainEvents,
		telemetryEvents: telemetryEvents,
		sinkTimeout:     sinkTimeout,
		stats:           stats,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		case evt := <-w.domainEvents:
			w.Fanout(ctx, evt)

			select {
			case w.telemetryEvents <- evt:
			default:
				// Telemetry is an observer, losing one is harmless.
				w.stats.IncrEventsDropped()
			}
		}
	}
}

// Fanout delivers one event to every permanent sink and to the room's
// attached sessions, skipping the actor so nobody echoes to themselves.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	w.stats.IncrEventsFanned()

	sinks := append([]contract.EventSink{}, w.permanentSinks...)
	sinks = append(sinks, w.registry.GetSinksForRoomExcept(evt.RoomID(), actorOf(evt))...)

	for _, sink := range sinks {
		deliveryCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(deliveryCtx, evt); err != nil {
			w.stats.IncrSinkErrors()
			w.log.Warn("Sink rejected event", "room", evt.RoomID(), "error", err)
		}
		cancel()
	}
}

// actorOf extracts the participant responsible for an event, used to
// suppress the echo back to its origin.
func actorOf(e event.DomainEvent) string {
	switch evt := e.(type) {
	case event.ActionAppended:
		return evt.Action.UserID
	case event.ActionUndone:
		return evt.Action.UserID
	case event.ActionRedone:
		return evt.Action.UserID
	case event.SanitizedMessage:
		return evt.Message.UserID
	case event.MessagePosted:
		return evt.Message.UserID
	case event.CursorMoved:
		return evt.Position.UserID
	case event.UserJoined:
		return evt.UserID
	case event.UserLeft:
		return evt.UserID
	default:
		return ""
	}
}
