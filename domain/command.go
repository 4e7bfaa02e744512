package domain

import "time"

// Command is an intent addressed to one room, produced by a local client
// or by the peer activity source and consumed by the worker pool.
type Command interface {
	RoomID() string
}

type PostMessageCommand struct {
	Room      string
	Author    User
	Content   string
	CreatedAt time.Time
}

func (c PostMessageCommand) RoomID() string { return c.Room }

type DrawCommand struct {
	Room   string
	Action DrawAction
}

func (c DrawCommand) RoomID() string { return c.Room }

type CursorMoveCommand struct {
	Room     string
	Position CursorPosition
}

func (c CursorMoveCommand) RoomID() string { return c.Room }
