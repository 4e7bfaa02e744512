package workers

import (
	"canvas-lab/domain"
	"canvas-lab/mocks"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPoolUnit_RoutesCommandsToExecutor(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor := mocks.NewMockCommandExecutor(ctrl)
	commands := make(chan domain.Command, 3)

	action := domain.DrawAction{UserID: "bob@example.com", Tool: domain.ToolBrush,
		StrokeWidth: 2, Points: []domain.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	position := domain.CursorPosition{UserID: "bob@example.com", X: 10, Y: 20}
	chat := domain.PostMessageCommand{Room: "room-1", Author: domain.User{ID: "bob@example.com"}, Content: "hey"}

	done := make(chan struct{})
	executor.EXPECT().ExecuteDraw("room-1", action).Return(uint64(0), nil).Times(1)
	executor.EXPECT().ExecuteCursor("room-1", position).Times(1)
	executor.EXPECT().ExecuteChat(chat).DoAndReturn(func(domain.PostMessageCommand) error {
		close(done)
		return nil
	}).Times(1)

	commands <- domain.DrawCommand{Room: "room-1", Action: action}
	commands <- domain.CursorMoveCommand{Room: "room-1", Position: position}
	commands <- chat

	worker := NewPoolUnitWorker(executor, commands, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Commands were not executed in time")
	}
}

func TestPoolUnit_StopsOnClosedChannel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor := mocks.NewMockCommandExecutor(ctrl)
	commands := make(chan domain.Command)
	close(commands)

	worker := NewPoolUnitWorker(executor, commands, slog.Default())
	req.NoError(worker.Run(context.Background()))
}
