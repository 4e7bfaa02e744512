package engine

import (
	"canvas-lab/contract"
	"sync"
)

type Set map[string]struct{}

// Registry tracks which participant is attached to which room and through
// which sink their events are delivered. A participant owns a single sink
// regardless of how many rooms they visit over a session's lifetime.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]contract.EventSink // participant -> sink
	roomMembers map[string]Set                // room -> participants
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[string]contract.EventSink),
		roomMembers: make(map[string]Set),
	}
}

// GetSinksForRoom resolves the active sinks of everyone attached to the
// room. Returns nil when the room has no attached participants.
func (r *Registry) GetSinksForRoom(roomID string) []contract.EventSink {
	return r.collect(roomID, "")
}

// GetSinksForRoomExcept is GetSinksForRoom minus one participant. The
// fanout uses it so an actor never receives an echo of their own event.
func (r *Registry) GetSinksForRoomExcept(roomID, participantID string) []contract.EventSink {
	return r.collect(roomID, participantID)
}

func (r *Registry) collect(roomID, excludedID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for participantID := range members {
		if participantID == excludedID {
			continue
		}
		if sink, exists := r.sessions[participantID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a participant's sink and seats them in a room,
// initializing the room entry on first use. A participant holds one sink
// and one room at a time: subscribing again replaces the previous sink,
// so a client switching rooms must Unsubscribe from the old room first.
func (r *Registry) Subscribe(participantID, roomID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[participantID] = sink

	if _, ok := r.roomMembers[roomID]; !ok {
		r.roomMembers[roomID] = make(Set)
	}
	r.roomMembers[roomID][participantID] = struct{}{}
}

// Unsubscribe removes a participant from the registry and their current
// room. Empty room sets are deleted so the map does not grow forever.
func (r *Registry) Unsubscribe(participantID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, participantID)

	if members, ok := r.roomMembers[roomID]; ok {
		delete(members, participantID)

		if len(members) == 0 {
			delete(r.roomMembers, roomID)
		}
	}
}

// Occupants lists the participant ids currently attached to a room.
func (r *Registry) Occupants(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[roomID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(members))
	for participantID := range members {
		ids = append(ids, participantID)
	}
	return ids
}
