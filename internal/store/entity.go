package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/wayfare/atlas/internal/domain"
	"github.com/wayfare/atlas/internal/geokey"
)

// EntityStore implements domain.EntityStore on BoltDB. Entities are
// partitioned by the section prefix of their id, so listing a section is
// a single sub-bucket scan.
type EntityStore struct {
	store  *Store
	logger *slog.Logger
}

// NewEntityStore creates an entity store over the shared database.
func NewEntityStore(store *Store, logger *slog.Logger) *EntityStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &EntityStore{store: store, logger: logger}
}

// Get returns the stored entity regardless of expiry. Absent, corrupt
// and unreadable records all come back as a miss.
func (s *EntityStore) Get(entityID string) (*domain.StoredEntity, bool) {
	var ent domain.StoredEntity
	if !s.store.getRecord(bucketEntities, domain.SectionOf(entityID), entityID, &ent) {
		return nil, false
	}
	return &ent, true
}

// Exists reports whether a record is present, expiry ignored.
func (s *EntityStore) Exists(entityID string) bool {
	return s.store.hasRecord(bucketEntities, domain.SectionOf(entityID), entityID)
}

// Write creates or overwrites the record. Always stamps fresh
// CreatedAt/ExpiresAt; the last unconditional write wins.
func (s *EntityStore) Write(p domain.WriteParams) (*domain.StoredEntity, error) {
	ttl := float64(domain.DefaultTTLHours)
	if p.TTLHours != nil {
		ttl = *p.TTLHours
	}

	now := time.Now()
	ent := &domain.StoredEntity{
		EntityID:       p.EntityID,
		DisplayName:    p.DisplayName,
		Section:        p.Section,
		Scope:          p.Scope,
		Content:        p.Content,
		SourceLocation: p.SourceLocation,
		CreatedAt:      now,
		ExpiresAt:      now.Add(time.Duration(ttl * float64(time.Hour))),
	}

	if err := s.store.putRecord(bucketEntities, domain.SectionOf(p.EntityID), p.EntityID, ent); err != nil {
		return nil, fmt.Errorf("failed to write entity %s: %w", p.EntityID, err)
	}
	return ent, nil
}

// Delete removes the record if present; absent is a no-op.
func (s *EntityStore) Delete(entityID string) error {
	return s.store.deleteRecord(bucketEntities, domain.SectionOf(entityID), entityID)
}

// CanReuseExisting decides whether the stored entity is still valid for
// the current location under the directive's scope. Read-only.
func (s *EntityStore) CanReuseExisting(entityID, scope string, current domain.Location) bool {
	ent, ok := s.Get(entityID)
	if !ok || ent.IsExpired() {
		return false
	}

	level, scoped := geokey.LevelFromScope(scope)
	if !scoped {
		// Global, or an unrecognized scope string. Both mean "no level":
		// the entity is reusable everywhere.
		return true
	}

	src := ent.SourceLocation
	switch level {
	case domain.LevelCountry:
		return componentsEqual(src.CountryCode, current.CountryCode)
	case domain.LevelAdminArea:
		return componentsEqual(src.AdminArea, current.AdminArea) &&
			componentsEqual(src.CountryCode, current.CountryCode)
	case domain.LevelLocality:
		// Leaf comparison only: country/adminArea are not re-checked.
		return componentsEqual(src.Locality, current.Locality)
	case domain.LevelSublocality:
		return componentsEqual(src.Sublocality, current.Sublocality)
	case domain.LevelCoordinate:
		// Coordinate-scoped content is one-shot, never reused.
		return false
	}
	return false
}

// componentsEqual compares address components in their normalized key
// form, so case and diacritics differences do not break reuse.
func componentsEqual(a, b string) bool {
	return geokey.Normalize(a) == geokey.Normalize(b)
}

// PruneExpired sweeps every section and deletes expired entities.
// Records that fail to decode are skipped, not fatal.
func (s *EntityStore) PruneExpired() (int, error) {
	type target struct{ section, id string }
	var expired []target

	now := time.Now()
	err := s.store.forEachRecord(bucketEntities, func(partition, key string, data []byte) error {
		var ent domain.StoredEntity
		if err := json.Unmarshal(data, &ent); err != nil {
			s.logger.Warn("skipping undecodable entity during prune", "entity_id", key, "error", err)
			return nil
		}
		if now.After(ent.ExpiresAt) {
			expired = append(expired, target{partition, key})
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan entities: %w", err)
	}

	removed := 0
	for _, t := range expired {
		if err := s.store.deleteRecord(bucketEntities, t.section, t.id); err != nil {
			s.logger.Warn("failed to delete expired entity", "entity_id", t.id, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// ListEntities enumerates all entity ids stored for a section.
func (s *EntityStore) ListEntities(section string) ([]string, error) {
	return s.store.listKeys(bucketEntities, section)
}

// Sections enumerates the section partitions present in the store.
func (s *EntityStore) Sections() ([]string, error) {
	return s.store.listPartitions(bucketEntities)
}

var _ domain.EntityStore = (*EntityStore)(nil)
