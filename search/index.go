// Package search maintains a full-text index over delivered chat
// messages, one document per message, scoped by room.
package search

import (
	"canvas-lab/domain"
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

type IMessageIndex interface {
	Index(id uuid.UUID, roomID string, message domain.ChatMessage) error
	Search(ctx context.Context, query *Query) ([]Hit, error)
	Close() error
}

// Hit is one search result, rebuilt from the stored fields.
type Hit struct {
	MessageID string
	RoomID    string
	UserName  string
	Content   string
	Timestamp int64
}

type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

// Index upserts one message document. The room is a keyword field so a
// search never leaks content across rooms; only the sanitized content is
// ever indexed.
func (m *MessageIndex) Index(id uuid.UUID, roomID string, message domain.ChatMessage) error {
	doc := bluge.NewDocument(id.String()).
		AddField(bluge.NewKeywordField("room", roomID).StoreValue()).
		AddField(bluge.NewTextField("content", message.Message).StoreValue()).
		AddField(bluge.NewKeywordField("user", message.UserName).StoreValue()).
		AddField(bluge.NewKeywordField("ts", strconv.FormatInt(message.Timestamp, 10)).StoreValue())

	if err := m.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index update failed: %w", err)
	}
	return nil
}

// Search runs a match query on message content restricted to one room.
func (m *MessageIndex) Search(ctx context.Context, query *Query) ([]Hit, error) {
	reader, err := m.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("index reader failed: %w", err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			m.log.Warn("Failed to close index reader", "error", err)
		}
	}()

	blugeQuery := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query.Terms).SetField("content")).
		AddMust(bluge.NewTermQuery(query.RoomID).SetField("room"))

	request := bluge.NewTopNSearch(query.Limit, blugeQuery)
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}

	var hits []Hit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		var hit Hit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "room":
				hit.RoomID = string(value)
			case "user":
				hit.UserName = string(value)
			case "content":
				hit.Content = string(value)
			case "ts":
				hit.Timestamp, _ = strconv.ParseInt(string(value), 10, 64)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (m *MessageIndex) Close() error {
	return m.writer.Close()
}
