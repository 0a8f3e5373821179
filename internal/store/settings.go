package store

import (
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/wayfare/atlas/internal/domain"
)

// Settings implements domain.Settings as a flat key-value slot in the
// settings bucket. Values are raw strings, not JSON records.
type Settings struct {
	store *Store
}

// NewSettings creates a settings slot over the shared database.
func NewSettings(store *Store) *Settings {
	return &Settings{store: store}
}

func (s *Settings) GetString(key string) (string, bool) {
	var val string
	found := false
	s.store.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketSettings).Get([]byte(key)); v != nil {
			val = string(v)
			found = true
		}
		return nil
	})
	return val, found
}

func (s *Settings) SetString(key, value string) error {
	err := s.store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSettings).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

func (s *Settings) Delete(key string) error {
	return s.store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSettings).Delete([]byte(key))
	})
}

var _ domain.Settings = (*Settings)(nil)
