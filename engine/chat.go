package engine

import (
	"canvas-lab/domain"
	"canvas-lab/errors"
	"strings"
	"sync"
	"time"
)

// ChatLog assigns timestamps to room messages and keeps a bounded
// in-memory tail for instant history on session attach. Durable history
// lives in the message repository; this is only the hot window.
type ChatLog struct {
	mu      sync.Mutex
	limit   int
	lastTs  map[string]int64                // room -> last issued timestamp (ms)
	recents map[string][]domain.ChatMessage // room -> newest-last tail
}

func NewChatLog(limit int) *ChatLog {
	return &ChatLog{
		limit:   limit,
		lastTs:  make(map[string]int64),
		recents: make(map[string][]domain.ChatMessage),
	}
}

// Compose validates and timestamps a message. Timestamps are strictly
// increasing per room even when the wall clock stalls, so the padded
// storage key and the display order always agree.
func (c *ChatLog) Compose(roomID string, author domain.User, content string, now time.Time) (domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.ChatMessage{}, errors.ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ts := now.UnixMilli()
	if last := c.lastTs[roomID]; ts <= last {
		ts = last + 1
	}
	c.lastTs[roomID] = ts

	return domain.ChatMessage{
		UserID:             author.ID,
		UserName:           author.Name,
		UserColor:          author.Color,
		UserProfilePicture: author.ProfilePicture,
		Message:            content,
		Timestamp:          ts,
	}, nil
}

// Remember appends a delivered message to the room's hot window. Called
// with the sanitized form, never the raw one.
func (c *ChatLog) Remember(roomID string, message domain.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tail := append(c.recents[roomID], message)
	if len(tail) > c.limit {
		tail = tail[len(tail)-c.limit:]
	}
	c.recents[roomID] = tail
}

// Recent returns the hot window oldest-first.
func (c *ChatLog) Recent(roomID string) []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	tail := c.recents[roomID]
	out := make([]domain.ChatMessage, len(tail))
	copy(out, tail)
	return out
}
