package domain

import "time"

// EntityRef points at a stored entity from inside a section index. Order
// is the display position within the section.
type EntityRef struct {
	EntityID string `json:"entity_id"`
	Order    int    `json:"order"`
}

// SectionMetadata describes a section without touching its content.
// Shared verbatim between the write-side model and the read-side lazy
// placeholder.
type SectionMetadata struct {
	Section      string         `json:"section"`
	DisplayTitle string         `json:"display_title"`
	Config       map[string]any `json:"config,omitempty"`
}

// SectionIndex is the per-section record inside a context: metadata plus
// an ordered list of entity references. It doubles as the UI-facing
// "section header, not yet hydrated" placeholder since it already carries
// title, config and item count.
type SectionIndex struct {
	Metadata   SectionMetadata `json:"metadata"`
	EntityRefs []EntityRef     `json:"entity_refs"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// EntityCount returns the number of referenced entities. Some of them may
// no longer resolve; hydration drops those silently.
func (si SectionIndex) EntityCount() int {
	return len(si.EntityRefs)
}

// StoredContext is the durable record of which sections exist for one
// geographic key at one specificity level.
type StoredContext struct {
	GeoDivisionKey string                  `json:"geo_division_key"`
	Level          DivisionLevel           `json:"level"`
	LocationDetail Location                `json:"location_detail"`
	Sections       map[string]SectionIndex `json:"sections"`
	SectionOrder   []string                `json:"section_order"`
	CreatedAt      time.Time               `json:"created_at"`
	LastAccessed   time.Time               `json:"last_accessed"`
}

// NewContext creates an empty context for a key/level seeded with the
// location that produced it.
func NewContext(key string, level DivisionLevel, detail Location) *StoredContext {
	now := time.Now()
	return &StoredContext{
		GeoDivisionKey: key,
		Level:          level,
		LocationDetail: detail,
		Sections:       map[string]SectionIndex{},
		CreatedAt:      now,
		LastAccessed:   now,
	}
}

// WithSection upserts a section index by name. The section's first-seen
// position in SectionOrder is permanent; re-persisting an existing
// section replaces its index in place. Bumps LastAccessed.
func (c *StoredContext) WithSection(idx SectionIndex) {
	name := idx.Metadata.Section
	if c.Sections == nil {
		c.Sections = map[string]SectionIndex{}
	}
	if _, seen := c.Sections[name]; !seen {
		c.SectionOrder = append(c.SectionOrder, name)
	}
	c.Sections[name] = idx
	c.LastAccessed = time.Now()
}

// OrderedSections returns the section indices in insertion order.
func (c *StoredContext) OrderedSections() []SectionIndex {
	out := make([]SectionIndex, 0, len(c.SectionOrder))
	for _, name := range c.SectionOrder {
		if idx, ok := c.Sections[name]; ok {
			out = append(out, idx)
		}
	}
	return out
}

// Section looks up a section index by name.
func (c *StoredContext) Section(name string) (SectionIndex, bool) {
	idx, ok := c.Sections[name]
	return idx, ok
}
