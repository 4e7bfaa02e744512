// Package observability aggregates engine counters for telemetry logging
// and the inspection tooling. Counters are atomic; snapshots are cheap.
package observability

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// EngineStats is one immutable snapshot of the engine's activity.
type EngineStats struct {
	ActionsAppended  uint64  `json:"actions_appended"`
	ActionsUndone    uint64  `json:"actions_undone"`
	ActionsRedone    uint64  `json:"actions_redone"`
	MessagesPosted   uint64  `json:"messages_posted"`
	MessagesCensored uint64  `json:"messages_censored"`
	CursorMoves      uint64  `json:"cursor_moves"`
	EventsFanned     uint64  `json:"events_fanned"`
	EventsDropped    uint64  `json:"events_dropped"`
	SinkErrors       uint64  `json:"sink_errors"`
	EventRate        float64 `json:"event_rate"` // events/s since last snapshot
	AllocMemMb       uint64  `json:"alloc_mem_mb"`
	NumGC            uint32  `json:"num_gc"`
}

// StatsManager owns the live counters. One instance is shared by the
// fanout, the moderation worker, and the session layer.
type StatsManager struct {
	mu        sync.Mutex
	lastCheck time.Time
	lastTotal uint64

	actionsAppended  atomic.Uint64
	actionsUndone    atomic.Uint64
	actionsRedone    atomic.Uint64
	messagesPosted   atomic.Uint64
	messagesCensored atomic.Uint64
	cursorMoves      atomic.Uint64
	eventsFanned     atomic.Uint64
	eventsDropped    atomic.Uint64
	sinkErrors       atomic.Uint64
}

func NewStatsManager() *StatsManager {
	return &StatsManager{lastCheck: time.Now()}
}

func (s *StatsManager) IncrActionsAppended()  { s.actionsAppended.Add(1) }
func (s *StatsManager) IncrActionsUndone()    { s.actionsUndone.Add(1) }
func (s *StatsManager) IncrActionsRedone()    { s.actionsRedone.Add(1) }
func (s *StatsManager) IncrMessagesPosted()   { s.messagesPosted.Add(1) }
func (s *StatsManager) IncrMessagesCensored() { s.messagesCensored.Add(1) }
func (s *StatsManager) IncrCursorMoves()      { s.cursorMoves.Add(1) }
func (s *StatsManager) IncrEventsFanned()     { s.eventsFanned.Add(1) }
func (s *StatsManager) IncrEventsDropped()    { s.eventsDropped.Add(1) }
func (s *StatsManager) IncrSinkErrors()       { s.sinkErrors.Add(1) }

// Snapshot reads all counters, derives the fan-out rate since the last
// snapshot, and attaches Go memory figures.
func (s *StatsManager) Snapshot() EngineStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := EngineStats{
		ActionsAppended:  s.actionsAppended.Load(),
		ActionsUndone:    s.actionsUndone.Load(),
		ActionsRedone:    s.actionsRedone.Load(),
		MessagesPosted:   s.messagesPosted.Load(),
		MessagesCensored: s.messagesCensored.Load(),
		CursorMoves:      s.cursorMoves.Load(),
		EventsFanned:     s.eventsFanned.Load(),
		EventsDropped:    s.eventsDropped.Load(),
		SinkErrors:       s.sinkErrors.Load(),
	}

	now := time.Now()
	if duration := now.Sub(s.lastCheck).Seconds(); duration > 0 {
		stats.EventRate = float64(stats.EventsFanned-s.lastTotal) / duration
	}
	s.lastCheck = now
	s.lastTotal = stats.EventsFanned

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	stats.AllocMemMb = m.Alloc / 1024 / 1024
	stats.NumGC = m.NumGC

	return stats
}
