// Package store persists entities, contexts and settings in a single
// BoltDB file. Records are JSON-marshaled; a record that fails to decode
// is treated as absent on every read path.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Top-level bucket names. Entities nest a sub-bucket per section,
// contexts a sub-bucket per division level.
var (
	bucketEntities = []byte("entities")
	bucketContexts = []byte("contexts")
	bucketSettings = []byte("settings")
)

// DBFileName is the BoltDB file created inside the cache directory.
const DBFileName = "atlas.db"

// Store is the shared BoltDB handle the typed stores are built on.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Open creates or opens the cache database inside dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, DBFileName)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketEntities, bucketContexts, bucketSettings} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// === Generic helpers ===

func cacheKey(bucket []byte, partition, key string) string {
	return string(bucket) + "/" + partition + ":" + key
}

// getRecord reads bucket/partition/key into dest. Returns false for
// absent, unreadable or undecodable records alike.
func (s *Store) getRecord(bucket []byte, partition, key string, dest interface{}) bool {
	ck := cacheKey(bucket, partition, key)

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[ck]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket).Bucket([]byte(partition))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[ck] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *Store) hasRecord(bucket []byte, partition, key string) bool {
	ck := cacheKey(bucket, partition, key)

	s.mu.RLock()
	if _, ok := s.cache[ck]; ok {
		s.mu.RUnlock()
		return true
	}
	s.mu.RUnlock()

	found := false
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket).Bucket([]byte(partition))
		if b == nil {
			return nil
		}
		found = b.Get([]byte(key)) != nil
		return nil
	})
	return found
}

func (s *Store) putRecord(bucket []byte, partition, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket(bucket).CreateBucketIfNotExists([]byte(partition))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[cacheKey(bucket, partition, key)] = data
	s.mu.Unlock()
	return nil
}

func (s *Store) deleteRecord(bucket []byte, partition, key string) error {
	s.mu.Lock()
	delete(s.cache, cacheKey(bucket, partition, key))
	s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket).Bucket([]byte(partition))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// listKeys enumerates the keys of one partition, in bucket order.
func (s *Store) listKeys(bucket []byte, partition string) ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket).Bucket([]byte(partition))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

// listPartitions enumerates the sub-bucket names under a top bucket.
func (s *Store) listPartitions(bucket []byte) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEachBucket(func(name []byte) error {
			names = append(names, string(name))
			return nil
		})
	})
	return names, err
}

// forEachRecord visits every record in every partition of a top bucket.
func (s *Store) forEachRecord(bucket []byte, fn func(partition, key string, data []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		top := tx.Bucket(bucket)
		return top.ForEachBucket(func(name []byte) error {
			b := top.Bucket(name)
			return b.ForEach(func(k, v []byte) error {
				return fn(string(name), string(k), v)
			})
		})
	})
}

// ClearAll wipes every record from every bucket.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketEntities, bucketContexts, bucketSettings} {
			top := tx.Bucket(bucket)
			var subs [][]byte
			top.ForEachBucket(func(name []byte) error {
				subs = append(subs, append([]byte(nil), name...))
				return nil
			})
			for _, name := range subs {
				if err := top.DeleteBucket(name); err != nil {
					return err
				}
			}
			var keys [][]byte
			top.ForEach(func(k, v []byte) error {
				if v != nil {
					keys = append(keys, append([]byte(nil), k...))
				}
				return nil
			})
			for _, k := range keys {
				if err := top.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
