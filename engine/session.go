package engine

import (
	"canvas-lab/domain"
	"canvas-lab/domain/event"
	"canvas-lab/errors"
	"canvas-lab/repositories"
	"canvas-lab/sink"
	"strings"
	"time"
)

// Session is one participant's live attachment to one room. It is the
// only way local input enters the pipeline and the only way room events
// reach that participant.
type Session struct {
	user domain.User
	room domain.Room
	orch *Orchestrator
	sink *sink.SessionSink
}

// AttachSession connects a user to a room's live feed. Access control
// happened earlier in the directory service; the engine trusts the room
// it is handed. The room history is loaded here so the first Replay is
// served from memory.
func (o *Orchestrator) AttachSession(user domain.User, room domain.Room) (*Session, error) {
	if _, err := o.RoomLog(room.ID); err != nil {
		return nil, err
	}

	sessionSink := sink.NewSessionSink(o.sessionBuffer)
	o.registry.Subscribe(user.ID, room.ID, sessionSink)
	o.emitRaw(event.UserJoined{Room: room.ID, UserID: user.ID, At: time.Now().UTC()})

	o.log.Info("Session attached", "room", room.ID, "user", user.ID)
	return &Session{user: user, room: room, orch: o, sink: sessionSink}, nil
}

// Events is the feed of everything other room members do while this
// session is attached.
func (s *Session) Events() <-chan event.DomainEvent {
	return s.sink.Events
}

func (s *Session) User() domain.User { return s.user }
func (s *Session) Room() domain.Room { return s.room }

// Draw commits a stroke authored by this session's user. The action's
// UserID is forced to the session owner; a session cannot draw as
// somebody else.
func (s *Session) Draw(action domain.DrawAction) (uint64, error) {
	action.UserID = s.user.ID
	if action.Color == "" {
		action.Color = s.user.Color
	}
	return s.orch.ExecuteDraw(s.room.ID, action)
}

// Undo removes the newest stroke of the room history, whoever drew it.
// The second return is false when the canvas has no history.
func (s *Session) Undo() (domain.DrawAction, bool, error) {
	return s.orch.ExecuteUndo(s.room.ID)
}

// Redo restores the most recently undone stroke.
func (s *Session) Redo() (domain.DrawAction, bool, error) {
	return s.orch.ExecuteRedo(s.room.ID)
}

// Replay returns the room's committed strokes in order, the full recipe
// for rendering the canvas from scratch.
func (s *Session) Replay() ([]domain.DrawAction, error) {
	actionLog, err := s.orch.RoomLog(s.room.ID)
	if err != nil {
		return nil, err
	}
	return actionLog.Replay(), nil
}

// PostChat validates locally and dispatches the message through the
// pipeline. Delivery is asynchronous; the sanitized form comes back on
// the event feeds of the other members.
func (s *Session) PostChat(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.ErrEmptyMessage
	}
	s.orch.Dispatch(domain.PostMessageCommand{
		Room:      s.room.ID,
		Author:    s.user,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// MoveCursor publishes this user's cursor position.
func (s *Session) MoveCursor(x, y float64) {
	s.orch.ExecuteCursor(s.room.ID, domain.CursorPosition{UserID: s.user.ID, X: x, Y: y})
}

// Cursors snapshots the other members' cursors.
func (s *Session) Cursors() []domain.CursorPosition {
	return s.orch.presence.Snapshot(s.room.ID, s.user.ID)
}

// RecentChat returns the in-memory tail of the room conversation.
func (s *Session) RecentChat() []domain.ChatMessage {
	return s.orch.chatLog.Recent(s.room.ID)
}

// Messages pages through the room's durable chat history, newest first.
func (s *Session) Messages(cursor *string) ([]repositories.DiskMessage, *string, error) {
	return s.orch.Messages(s.room.ID, cursor)
}

// Close detaches the session: the sink is unsubscribed, the cursor is
// forgotten, and the rest of the room learns about the departure.
func (s *Session) Close() {
	s.orch.registry.Unsubscribe(s.user.ID, s.room.ID)
	s.orch.presence.Forget(s.room.ID, s.user.ID)
	s.orch.emitRaw(event.UserLeft{Room: s.room.ID, UserID: s.user.ID, At: time.Now().UTC()})
	s.orch.log.Info("Session detached", "room", s.room.ID, "user", s.user.ID)
}
