package engine

import (
	"canvas-lab/domain"
	"canvas-lab/repositories"
	"sync"
)

// ActionLog is the per-room undo/redo history. The committed history is
// mirrored to the action repository; the redo stack only exists in memory
// and is lost on restart, which matches what a fresh replay can know.
type ActionLog struct {
	mu      sync.Mutex
	roomID  string
	repo    repositories.IActionRepository
	history []repositories.StoredAction
	redo    []domain.DrawAction // front = most recently undone
	nextSeq uint64
}

// OpenActionLog loads the persisted history of a room and positions the
// sequence counter after the last committed entry.
func OpenActionLog(roomID string, repo repositories.IActionRepository) (*ActionLog, error) {
	history, err := repo.ReplayActions(roomID)
	if err != nil {
		return nil, err
	}
	var nextSeq uint64
	if n := len(history); n > 0 {
		nextSeq = history[n-1].Seq + 1
	}
	return &ActionLog{
		roomID:  roomID,
		repo:    repo,
		history: history,
		nextSeq: nextSeq,
	}, nil
}

// Append commits a draw action to the end of the history and clears the
// redo stack: once a new stroke lands, the undone branch is unreachable.
func (l *ActionLog) Append(action domain.DrawAction) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq := l.nextSeq
	if err := l.repo.AppendAction(l.roomID, seq, action); err != nil {
		return 0, err
	}
	l.history = append(l.history, repositories.StoredAction{Seq: seq, Action: action})
	l.nextSeq = seq + 1
	l.redo = nil
	return seq, nil
}

// Undo moves the newest history entry to the front of the redo stack.
// The second return is false when the history is empty.
func (l *ActionLog) Undo() (domain.DrawAction, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.history)
	if n == 0 {
		return domain.DrawAction{}, false, nil
	}
	last := l.history[n-1]
	if err := l.repo.RemoveAction(l.roomID, last.Seq); err != nil {
		return domain.DrawAction{}, false, err
	}
	l.history = l.history[:n-1]
	l.redo = append([]domain.DrawAction{last.Action}, l.redo...)
	return last.Action, true, nil
}

// Redo moves the front of the redo stack back onto the history. Unlike
// Append it keeps the rest of the redo stack intact so repeated redos
// restore undone strokes one by one.
func (l *ActionLog) Redo() (domain.DrawAction, uint64, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.redo) == 0 {
		return domain.DrawAction{}, 0, false, nil
	}
	action := l.redo[0]
	seq := l.nextSeq
	if err := l.repo.AppendAction(l.roomID, seq, action); err != nil {
		return domain.DrawAction{}, 0, false, err
	}
	l.redo = l.redo[1:]
	l.history = append(l.history, repositories.StoredAction{Seq: seq, Action: action})
	l.nextSeq = seq + 1
	return action, seq, true, nil
}

// Replay returns the committed actions in order. Rendering a canvas is
// always a replay of this sequence onto an empty surface.
func (l *ActionLog) Replay() []domain.DrawAction {
	l.mu.Lock()
	defer l.mu.Unlock()

	actions := make([]domain.DrawAction, len(l.history))
	for i, stored := range l.history {
		actions[i] = stored.Action
	}
	return actions
}

func (l *ActionLog) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.history) > 0
}

func (l *ActionLog) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redo) > 0
}
