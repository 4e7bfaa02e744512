package repositories

import (
	"canvas-lab/domain"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Store_Multiple_Messages(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewMessageRepository(db, slog.Default(), nil)
	room := "room-42"
	at := time.Now().UTC().UnixMilli()
	diskMessages := []DiskMessage{
		{ID: uuid.New(), Room: room, Message: domain.ChatMessage{UserID: "alice@example.com", UserName: "Alice", Message: "hello", Timestamp: at}},
		{ID: uuid.New(), Room: room, Message: domain.ChatMessage{UserID: "bob@example.com", UserName: "Bob", Message: "hi", Timestamp: at + 1}},
		{ID: uuid.New(), Room: room, Message: domain.ChatMessage{UserID: "clara@example.com", UserName: "Clara", Message: "hey", Timestamp: at + 2}},
	}
	for _, dm := range diskMessages {
		req.NoError(repository.StoreMessage(dm))
	}

	fetched, _, err := repository.GetMessages(room, nil)
	req.NoError(err)
	req.Len(fetched, len(diskMessages))
	// Reverse scan returns newest first
	req.Equal(diskMessages[2], fetched[0])
	req.Equal(diskMessages[0], fetched[2])
}

func Test_Store_Messages_With_Limit_And_Cursor(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	limit := 2
	repository := NewMessageRepository(db, slog.Default(), &limit)
	room := "room-42"
	at := time.Now().UTC().UnixMilli()
	for i := 0; i < 5; i++ {
		req.NoError(repository.StoreMessage(DiskMessage{
			ID:      uuid.New(),
			Room:    room,
			Message: domain.ChatMessage{UserID: "alice@example.com", Message: "msg", Timestamp: at + int64(i)},
		}))
	}

	firstPage, cursor, err := repository.GetMessages(room, nil)
	req.NoError(err)
	req.Len(firstPage, limit)
	req.NotNil(cursor)

	secondPage, _, err := repository.GetMessages(room, cursor)
	req.NoError(err)
	req.Len(secondPage, limit)
	// Pages do not overlap
	req.NotEqual(firstPage[1].Message.Timestamp, secondPage[0].Message.Timestamp)
}

func Test_Messages_Are_Isolated_Per_Room(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewMessageRepository(db, slog.Default(), nil)
	at := time.Now().UTC().UnixMilli()
	req.NoError(repository.StoreMessage(DiskMessage{
		ID: uuid.New(), Room: "room-a",
		Message: domain.ChatMessage{UserID: "alice@example.com", Message: "a", Timestamp: at},
	}))
	req.NoError(repository.StoreMessage(DiskMessage{
		ID: uuid.New(), Room: "room-b",
		Message: domain.ChatMessage{UserID: "bob@example.com", Message: "b", Timestamp: at},
	}))

	fetched, _, err := repository.GetMessages("room-a", nil)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("a", fetched[0].Message.Message)
}
