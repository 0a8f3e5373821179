package domain

// EntityStore handles durable per-entity storage with TTL expiry and
// scope-aware reuse decisions. Read paths treat corrupt records as
// absent; only writes surface I/O errors.
type EntityStore interface {
	// Get returns the stored entity regardless of expiry. The caller
	// decides whether to honor IsExpired.
	Get(entityID string) (*StoredEntity, bool)

	// Exists reports whether a record is present on disk, expiry ignored.
	Exists(entityID string) bool

	// Write creates or overwrites the record. Always stamps a fresh
	// CreatedAt/ExpiresAt, never a no-op.
	Write(p WriteParams) (*StoredEntity, error)

	// Delete removes the record; absent is not an error.
	Delete(entityID string) error

	// CanReuseExisting decides whether a non-expired stored entity is
	// still valid for the current location under the given scope.
	CanReuseExisting(entityID, scope string, current Location) bool

	// PruneExpired deletes every expired entity across all sections and
	// returns how many were removed.
	PruneExpired() (int, error)

	// ListEntities enumerates all entity ids stored for a section.
	ListEntities(section string) ([]string, error)
}

// WriteParams holds parameters for storing an entity.
type WriteParams struct {
	EntityID       string
	DisplayName    string
	Section        string
	Scope          string
	Content        map[string]any
	SourceLocation AddressParts
	TTLHours       *float64 // nil means DefaultTTLHours
}

// ContextStore handles durable per-geo-key section indices, partitioned
// by division level.
type ContextStore interface {
	Load(key string, level DivisionLevel) (*StoredContext, bool)
	Exists(key string, level DivisionLevel) bool
	Save(c *StoredContext) error

	// UpdateSection is the single mutation entry point: load-or-create
	// the context, upsert the section index, persist.
	UpdateSection(key string, level DivisionLevel, detail Location, idx SectionIndex) error

	Delete(key string, level DivisionLevel) error
	ListContexts(level DivisionLevel) ([]string, error)

	// ContextsForLocation collects every stored context addressable from
	// the location, most specific level first.
	ContextsForLocation(loc Location) []*StoredContext
}

// Settings is a small persistent key-value slot used for bookkeeping
// outside the entity/context stores (e.g. the active-location pointer).
// Injected so tests can fake it with a map.
type Settings interface {
	GetString(key string) (string, bool)
	SetString(key, value string) error
	Delete(key string) error
}

// HydratedSection is the result of resolving a section's entity refs back
// into full content, in ref order.
type HydratedSection struct {
	Metadata SectionMetadata
	Items    []map[string]any
}
