//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"canvas-lab/domain"
	"canvas-lab/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself; the supervisor handles panics and
// restarts. Keep implementations small and focused.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink consumes room events. Sinks must tolerate duplicate and
// dropped cursor events; draw and chat events arrive in room order.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks which participant is attached to which room and
// through which sink events reach them.
type IRegistry interface {
	GetSinksForRoom(roomID string) []EventSink
	GetSinksForRoomExcept(roomID, participantID string) []EventSink
	Subscribe(participantID, roomID string, sink EventSink)
	Unsubscribe(participantID, roomID string)
}

// Dispatcher accepts commands for asynchronous processing by the worker
// pool. Dispatch never blocks; a full pipeline drops the command.
type Dispatcher interface {
	Dispatch(cmd domain.Command)
}

// CommandExecutor applies room mutations synchronously. The worker pool
// uses it to execute dispatched commands; local sessions call it directly
// when they need the result (a draw needs its sequence number back).
type CommandExecutor interface {
	ExecuteDraw(roomID string, action domain.DrawAction) (uint64, error)
	ExecuteCursor(roomID string, position domain.CursorPosition)
	ExecuteChat(cmd domain.PostMessageCommand) error
}

// PeerActivitySource is the transport abstraction delivering remote
// members' draw actions, cursor moves, and chat messages into the local
// pipeline. The in-repo implementation is a synthetic generator; any
// replacement must preserve per-room FIFO order for draw and chat events.
type PeerActivitySource interface {
	Worker
}
