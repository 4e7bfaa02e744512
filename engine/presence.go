package engine

import (
	"canvas-lab/domain"
	"sync"
)

// Presence keeps the last known cursor position of each room occupant.
// Updates are last-write-wins; a missed one is repaired by the next.
type Presence struct {
	mu      sync.RWMutex
	cursors map[string]map[string]domain.CursorPosition // room -> user -> position
}

func NewPresence() *Presence {
	return &Presence{cursors: make(map[string]map[string]domain.CursorPosition)}
}

func (p *Presence) Publish(roomID string, position domain.CursorPosition) {
	p.mu.Lock()
	defer p.mu.Unlock()

	room, ok := p.cursors[roomID]
	if !ok {
		room = make(map[string]domain.CursorPosition)
		p.cursors[roomID] = room
	}
	room[position.UserID] = position
}

// Snapshot returns the cursors of everyone in the room except the given
// user. A participant never renders their own remote cursor.
func (p *Presence) Snapshot(roomID, excludedUserID string) []domain.CursorPosition {
	p.mu.RLock()
	defer p.mu.RUnlock()

	room, ok := p.cursors[roomID]
	if !ok {
		return nil
	}
	positions := make([]domain.CursorPosition, 0, len(room))
	for userID, position := range room {
		if userID == excludedUserID {
			continue
		}
		positions = append(positions, position)
	}
	return positions
}

// Forget drops a user's cursor when they leave so it stops rendering
// immediately instead of freezing in place.
func (p *Presence) Forget(roomID, userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if room, ok := p.cursors[roomID]; ok {
		delete(room, userID)
		if len(room) == 0 {
			delete(p.cursors, roomID)
		}
	}
}
