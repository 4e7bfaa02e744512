package workers

import (
	"canvas-lab/contract"
	"canvas-lab/domain"
	"context"
	"log/slog"
)

// Static assertion: a pool unit must satisfy the Worker contract.
var _ contract.Worker = (*PoolUnitWorker)(nil)

// PoolUnitWorker drains the global command channel and applies each
// command through the executor. Several units share one channel; a unit
// never owns a room.
type PoolUnitWorker struct {
	executor contract.CommandExecutor
	commands chan domain.Command
	log      *slog.Logger
}

func NewPoolUnitWorker(executor contract.CommandExecutor, commands chan domain.Command, log *slog.Logger) *PoolUnitWorker {
	return &PoolUnitWorker{executor: executor, commands: commands, log: log}
}

func (w *PoolUnitWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Command channel is closed")
				return nil
			}
			w.execute(cmd)
		}
	}
}

func (w *PoolUnitWorker) execute(cmd domain.Command) {
	switch c := cmd.(type) {
	case domain.DrawCommand:
		if _, err := w.executor.ExecuteDraw(c.Room, c.Action); err != nil {
			w.log.Warn("Draw command failed", "room", c.Room, "error", err)
		}
	case domain.CursorMoveCommand:
		w.executor.ExecuteCursor(c.Room, c.Position)
	case domain.PostMessageCommand:
		if err := w.executor.ExecuteChat(c); err != nil {
			w.log.Warn("Chat command failed", "room", c.Room, "error", err)
		}
	default:
		w.log.Debug("Unknown command type", "room", cmd.RoomID())
	}
}
