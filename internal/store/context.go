package store

import (
	"fmt"
	"log/slog"

	"github.com/wayfare/atlas/internal/domain"
	"github.com/wayfare/atlas/internal/geokey"
)

// ContextStore implements domain.ContextStore on BoltDB. Contexts are
// partitioned by division level, keyed by geo-key.
type ContextStore struct {
	store  *Store
	logger *slog.Logger
}

// NewContextStore creates a context store over the shared database.
func NewContextStore(store *Store, logger *slog.Logger) *ContextStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextStore{store: store, logger: logger}
}

// Load returns the context for (key, level), or a miss if absent or
// unreadable.
func (s *ContextStore) Load(key string, level domain.DivisionLevel) (*domain.StoredContext, bool) {
	var ctx domain.StoredContext
	if !s.store.getRecord(bucketContexts, level.String(), key, &ctx) {
		return nil, false
	}
	return &ctx, true
}

// Exists reports whether a context record is present.
func (s *ContextStore) Exists(key string, level domain.DivisionLevel) bool {
	return s.store.hasRecord(bucketContexts, level.String(), key)
}

// Save fully overwrites the record at (c.GeoDivisionKey, c.Level).
func (s *ContextStore) Save(c *domain.StoredContext) error {
	if err := s.store.putRecord(bucketContexts, c.Level.String(), c.GeoDivisionKey, c); err != nil {
		return fmt.Errorf("failed to save context %s/%s: %w", c.Level, c.GeoDivisionKey, err)
	}
	return nil
}

// UpdateSection is the single mutation entry point: read-modify-write of
// one context. Synthesizes an empty context seeded with the location
// detail when none exists yet.
func (s *ContextStore) UpdateSection(key string, level domain.DivisionLevel, detail domain.Location, idx domain.SectionIndex) error {
	ctx, ok := s.Load(key, level)
	if !ok {
		ctx = domain.NewContext(key, level, detail)
	}
	ctx.WithSection(idx)
	return s.Save(ctx)
}

// Delete removes the context record; absent is a no-op.
func (s *ContextStore) Delete(key string, level domain.DivisionLevel) error {
	return s.store.deleteRecord(bucketContexts, level.String(), key)
}

// ListContexts enumerates the geo-keys stored at a level.
func (s *ContextStore) ListContexts(level domain.DivisionLevel) ([]string, error) {
	return s.store.listKeys(bucketContexts, level.String())
}

// ContextsForLocation derives the key for every level the location can
// address and collects all stored hits, most specific first. A location
// can hold a coordinate-level and a country-level context at once;
// callers typically use only the first.
func (s *ContextStore) ContextsForLocation(loc domain.Location) []*domain.StoredContext {
	var found []*domain.StoredContext
	for _, level := range domain.Levels {
		key := geokey.DivisionKey(loc, level)
		if key == "" {
			continue
		}
		if ctx, ok := s.Load(key, level); ok {
			found = append(found, ctx)
		}
	}
	return found
}

var _ domain.ContextStore = (*ContextStore)(nil)
