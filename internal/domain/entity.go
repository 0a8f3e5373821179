package domain

import (
	"strings"
	"time"
)

// DefaultTTLHours is applied when a storage directive carries no TTL.
const DefaultTTLHours = 168 // 7 days

// DirectiveKey is the key under which an incoming content item carries
// its storage directive. Items without one are invisible to the cache.
const DirectiveKey = "storage_directive"

// StorageDirective tags a content item with how it should be persisted.
// It is transient: stripped from the item before the item is stored as
// entity content.
type StorageDirective struct {
	EntityID string   `json:"entity_id"`
	Scope    string   `json:"scope"`
	TTLHours *float64 `json:"ttl_hours,omitempty"`
}

// StoredEntity is the durable unit of content, addressed by its globally
// unique entity id. Entities are written once and never mutated; a reuse
// decision leaves the old record untouched.
type StoredEntity struct {
	EntityID       string         `json:"entity_id"`
	DisplayName    string         `json:"display_name"`
	Section        string         `json:"section"`
	Scope          string         `json:"scope"`
	Content        map[string]any `json:"content"`
	SourceLocation AddressParts   `json:"source_location"`
	CreatedAt      time.Time      `json:"created_at"`
	ExpiresAt      time.Time      `json:"expires_at"`
}

// IsExpired reports whether the entity's TTL has elapsed.
func (e *StoredEntity) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// SectionOf extracts the section partition from an entity id. Ids follow
// the "{section}:{normalized_label}" convention; an id without a colon
// falls into the "" partition.
func SectionOf(entityID string) string {
	if i := strings.Index(entityID, ":"); i >= 0 {
		return entityID[:i]
	}
	return ""
}
