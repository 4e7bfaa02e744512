package repositories

import (
	"canvas-lab/domain"
	"canvas-lab/errors"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	CreateUser(user domain.User, passwordHash string) error
	GetUser(id string) (StoredUser, error)
	SaveUser(user StoredUser) error
	SaveUsers(users ...StoredUser) error
	ListUsers() ([]StoredUser, error)
	CountUsers() (int, error)
}

// StoredUser is the durable form of a user record. The password hash lives
// here and nowhere else; the engine only ever sees domain.User.
type StoredUser struct {
	User         domain.User `json:"user"`
	PasswordHash string      `json:"passwordHash"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

func userKey(id string) []byte {
	return []byte("user:" + id)
}

// CreateUser persists a new user keyed by its ID (the registration email).
// The existence check and the write happen in one transaction so two
// registrations with the same email cannot both succeed.
func (r *UserRepository) CreateUser(user domain.User, passwordHash string) error {
	stored := StoredUser{
		User:         user,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		key := userKey(user.ID)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		return txn.Set(key, data)
	})
}

func (r *UserRepository) GetUser(id string) (StoredUser, error) {
	var stored StoredUser
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return errors.ErrUserNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	return stored, err
}

// SaveUser overwrites an existing record. Used by friend and profile
// updates; callers are expected to have loaded the record first.
func (r *UserRepository) SaveUser(user StoredUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(user.User.ID), data)
	})
}

// SaveUsers writes several records in a single transaction. Friendship
// acceptance goes through here so both sides of the relation land
// together or not at all.
func (r *UserRepository) SaveUsers(users ...StoredUser) error {
	return r.db.Update(func(txn *badger.Txn) error {
		for _, user := range users {
			data, err := json.Marshal(user)
			if err != nil {
				return fmt.Errorf("marshal failed: %w", err)
			}
			if err := txn.Set(userKey(user.User.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) ListUsers() ([]StoredUser, error) {
	var users []StoredUser
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("user:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var stored StoredUser
				if err := json.Unmarshal(val, &stored); err != nil {
					return err
				}
				users = append(users, stored)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return users, err
}

// CountUsers is used at registration to pick the next palette color.
func (r *UserRepository) CountUsers() (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte("user:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
