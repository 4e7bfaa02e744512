package event

import (
	"canvas-lab/domain"

	"github.com/google/uuid"
	"time"
)

// DomainEvent is anything that happened inside one room and must reach the
// other current members of that room. Draw and chat events are delivered in
// per-room FIFO order; cursor events are best-effort.
type DomainEvent interface {
	RoomID() string
}

// MessagePosted is emitted when a chat message passes validation, before
// the moderation pass.
type MessagePosted struct {
	ID      uuid.UUID
	Room    string
	Message domain.ChatMessage
}

func (e MessagePosted) RoomID() string { return e.Room }

// SanitizedMessage is the moderated form of MessagePosted and the only
// chat event that reaches sinks and storage.
type SanitizedMessage struct {
	ID      uuid.UUID
	Room    string
	Message domain.ChatMessage
}

func (e SanitizedMessage) RoomID() string { return e.Room }

// ActionAppended is emitted after a draw action was committed to the
// room's history.
type ActionAppended struct {
	Room   string
	Seq    uint64
	Action domain.DrawAction
}

func (e ActionAppended) RoomID() string { return e.Room }

// ActionUndone is emitted after the newest history entry moved to the
// redo stack.
type ActionUndone struct {
	Room   string
	Action domain.DrawAction
}

func (e ActionUndone) RoomID() string { return e.Room }

// ActionRedone is emitted after the front of the redo stack moved back
// onto the history.
type ActionRedone struct {
	Room   string
	Action domain.DrawAction
}

func (e ActionRedone) RoomID() string { return e.Room }

// CursorMoved carries an ephemeral cursor update. Losing one is fine,
// the next update self-heals.
type CursorMoved struct {
	Room     string
	Position domain.CursorPosition
}

func (e CursorMoved) RoomID() string { return e.Room }

// UserJoined and UserLeft inform the room about membership changes.
type UserJoined struct {
	Room   string
	UserID string
	At     time.Time
}

func (e UserJoined) RoomID() string { return e.Room }

type UserLeft struct {
	Room   string
	UserID string
	At     time.Time
}

func (e UserLeft) RoomID() string { return e.Room }
