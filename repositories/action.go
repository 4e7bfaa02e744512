package repositories

import (
	"canvas-lab/domain"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type IActionRepository interface {
	AppendAction(roomID string, seq uint64, action domain.DrawAction) error
	RemoveAction(roomID string, seq uint64) error
	ReplayActions(roomID string) ([]StoredAction, error)
}

// StoredAction pairs a draw action with its position in the room history.
type StoredAction struct {
	Seq    uint64
	Action domain.DrawAction
}

type ActionRepository struct {
	db *badger.DB
}

func NewActionRepository(db *badger.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// actionKey is formatted as "act:{room_id}:{seq_padded}" so that a plain
// prefix scan returns the history in append order. 19-digit zero padding
// keeps lexicographic and numeric order identical.
func actionKey(roomID string, seq uint64) []byte {
	return []byte(fmt.Sprintf("act:%s:%019d", roomID, seq))
}

func (r *ActionRepository) AppendAction(roomID string, seq uint64, action domain.DrawAction) error {
	data, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(actionKey(roomID, seq), data)
	})
}

// RemoveAction deletes one persisted history entry. Only the newest entry
// is ever removed (undo); the redo stack itself is session-local and never
// stored.
func (r *ActionRepository) RemoveAction(roomID string, seq uint64) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(actionKey(roomID, seq))
	})
}

// ReplayActions returns the full ordered history of a room. Rendering is
// always a replay of this sequence from an empty surface.
func (r *ActionRepository) ReplayActions(roomID string) ([]StoredAction, error) {
	var actions []StoredAction
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixStr := fmt.Sprintf("act:%s:", roomID)
		prefix := []byte(prefixStr)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var seq uint64
			if _, err := fmt.Sscanf(string(item.Key()[len(prefixStr):]), "%019d", &seq); err != nil {
				return fmt.Errorf("malformed action key %q: %w", string(item.Key()), err)
			}
			err := item.Value(func(val []byte) error {
				var action domain.DrawAction
				if err := json.Unmarshal(val, &action); err != nil {
					return err
				}
				actions = append(actions, StoredAction{Seq: seq, Action: action})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return actions, err
}
