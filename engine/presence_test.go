package engine

import (
	"canvas-lab/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Publish_Is_Last_Write_Wins(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()

	presence.Publish("room-1", domain.CursorPosition{UserID: "a@example.com", X: 1, Y: 1})
	presence.Publish("room-1", domain.CursorPosition{UserID: "a@example.com", X: 5, Y: 9})

	snapshot := presence.Snapshot("room-1", "")
	req.Len(snapshot, 1)
	req.Equal(float64(5), snapshot[0].X)
	req.Equal(float64(9), snapshot[0].Y)
}

func Test_Snapshot_Excludes_Self(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()

	presence.Publish("room-1", domain.CursorPosition{UserID: "a@example.com", X: 1})
	presence.Publish("room-1", domain.CursorPosition{UserID: "b@example.com", X: 2})

	snapshot := presence.Snapshot("room-1", "a@example.com")
	req.Len(snapshot, 1)
	req.Equal("b@example.com", snapshot[0].UserID)
}

func Test_Forget_Removes_Cursor(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()

	presence.Publish("room-1", domain.CursorPosition{UserID: "a@example.com"})
	presence.Forget("room-1", "a@example.com")

	req.Empty(presence.Snapshot("room-1", ""))
}
