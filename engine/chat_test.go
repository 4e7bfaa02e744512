package engine

import (
	"canvas-lab/domain"
	"canvas-lab/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Compose_Rejects_Blank_Message(t *testing.T) {
	req := require.New(t)
	chat := NewChatLog(10)

	_, err := chat.Compose("room-1", domain.User{ID: "a@example.com"}, "   \t  ", time.Now())
	req.ErrorIs(err, errors.ErrEmptyMessage)
}

func Test_Compose_Timestamps_Are_Strictly_Increasing(t *testing.T) {
	req := require.New(t)
	chat := NewChatLog(10)
	author := domain.User{ID: "a@example.com", Name: "Alice", Color: "#ef4444"}

	// Same wall clock instant for every message
	now := time.Now()
	var last int64
	for i := 0; i < 5; i++ {
		message, err := chat.Compose("room-1", author, "hello", now)
		req.NoError(err)
		req.Greater(message.Timestamp, last)
		last = message.Timestamp
	}

	// An independent room has its own clock
	other, err := chat.Compose("room-2", author, "hello", now)
	req.NoError(err)
	req.Equal(now.UnixMilli(), other.Timestamp)
}

func Test_Compose_Carries_Author_Identity(t *testing.T) {
	req := require.New(t)
	chat := NewChatLog(10)

	author := domain.User{ID: "a@example.com", Name: "Alice", Color: "#ef4444", ProfilePicture: "pic"}
	message, err := chat.Compose("room-1", author, "  hello there  ", time.Now())
	req.NoError(err)
	req.Equal("hello there", message.Message)
	req.Equal("Alice", message.UserName)
	req.Equal("#ef4444", message.UserColor)
	req.Equal("pic", message.UserProfilePicture)
}

func Test_Hot_Window_Is_Bounded(t *testing.T) {
	req := require.New(t)
	chat := NewChatLog(3)

	for i := 0; i < 5; i++ {
		chat.Remember("room-1", domain.ChatMessage{Timestamp: int64(i)})
	}

	recent := chat.Recent("room-1")
	req.Len(recent, 3)
	req.Equal(int64(2), recent[0].Timestamp)
	req.Equal(int64(4), recent[2].Timestamp)
}
