package workers

import (
	"canvas-lab/contract"
	"canvas-lab/domain"
	"context"
	"log/slog"
	"math/rand"
	"time"
)

var _ contract.PeerActivitySource = (*SimulatedPeers)(nil)

// SimulatedPeers stands in for a real peer transport. It impersonates a
// fixed roster of remote users in one room: a drifting cursor per peer on
// a fast tick, an occasional stroke on a slow one, and a rare chat line.
// Everything goes through Dispatch, so downstream the engine cannot tell
// simulated activity from a genuine remote feed.
type SimulatedPeers struct {
	dispatcher  contract.Dispatcher
	roomID      string
	peers       []domain.User
	drawEvery   time.Duration
	cursorEvery time.Duration
	rng         *rand.Rand
	log         *slog.Logger

	cursors map[string]domain.CursorPosition
}

var peerChatLines = []string{
	"nice stroke!",
	"love the colors here",
	"anyone working on the left side?",
	"this is turning out great",
	"brb, grabbing coffee",
	"what if we add a sky?",
}

func NewSimulatedPeers(
	dispatcher contract.Dispatcher,
	roomID string,
	peers []domain.User,
	drawEvery, cursorEvery time.Duration,
	log *slog.Logger) *SimulatedPeers {
	return &SimulatedPeers{
		dispatcher:  dispatcher,
		roomID:      roomID,
		peers:       peers,
		drawEvery:   drawEvery,
		cursorEvery: cursorEvery,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		log:         log,
		cursors:     make(map[string]domain.CursorPosition),
	}
}

func (w *SimulatedPeers) Run(ctx context.Context) error {
	if len(w.peers) == 0 {
		w.log.Info("No peers to simulate, source idle")
		<-ctx.Done()
		return nil
	}

	drawTicker := time.NewTicker(w.drawEvery)
	defer drawTicker.Stop()
	cursorTicker := time.NewTicker(w.cursorEvery)
	defer cursorTicker.Stop()

	w.log.Info("Simulated peer source started",
		"room", w.roomID, "peers", len(w.peers))

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping simulated peers")
			return nil
		case <-cursorTicker.C:
			w.dispatcher.Dispatch(domain.CursorMoveCommand{
				Room:     w.roomID,
				Position: w.driftCursor(),
			})
		case <-drawTicker.C:
			peer := w.pickPeer()
			w.dispatcher.Dispatch(domain.DrawCommand{
				Room:   w.roomID,
				Action: w.randomStroke(peer),
			})

			// Roughly one chat line per five strokes.
			if w.rng.Intn(5) == 0 {
				w.dispatcher.Dispatch(domain.PostMessageCommand{
					Room:      w.roomID,
					Author:    peer,
					Content:   peerChatLines[w.rng.Intn(len(peerChatLines))],
					CreatedAt: time.Now().UTC(),
				})
			}
		}
	}
}

func (w *SimulatedPeers) pickPeer() domain.User {
	return w.peers[w.rng.Intn(len(w.peers))]
}

// driftCursor nudges one peer's cursor from its last position so the
// movement looks continuous instead of teleporting.
func (w *SimulatedPeers) driftCursor() domain.CursorPosition {
	peer := w.pickPeer()
	position, ok := w.cursors[peer.ID]
	if !ok {
		position = domain.CursorPosition{
			UserID: peer.ID,
			X:      w.rng.Float64() * 800,
			Y:      w.rng.Float64() * 600,
		}
	}
	position.X = clamp(position.X+w.rng.Float64()*40-20, 0, 800)
	position.Y = clamp(position.Y+w.rng.Float64()*40-20, 0, 600)
	w.cursors[peer.ID] = position
	return position
}

func (w *SimulatedPeers) randomStroke(peer domain.User) domain.DrawAction {
	pointCount := 4 + w.rng.Intn(8)
	points := make([]domain.Point, pointCount)

	x := w.rng.Float64() * 800
	y := w.rng.Float64() * 600
	for i := range points {
		x = clamp(x+w.rng.Float64()*30-15, 0, 800)
		y = clamp(y+w.rng.Float64()*30-15, 0, 600)
		points[i] = domain.Point{X: x, Y: y}
	}

	widths := []float64{2, 4, 6}
	return domain.DrawAction{
		UserID:      peer.ID,
		Tool:        domain.ToolBrush,
		Color:       peer.Color,
		StrokeWidth: widths[w.rng.Intn(len(widths))],
		Points:      points,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
