// Package service orchestrates the entity and context stores into the
// cache's write path (persist) and two-phase read path (metadata restore
// plus lazy per-section hydration).
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wayfare/atlas/internal/domain"
	"github.com/wayfare/atlas/internal/geokey"
)

// activeLocationKey is the settings slot holding the "{level}:{key}"
// pointer for the most recently persisted location.
const activeLocationKey = "active_location"

// Coordinator ties the stores together. It is intended to be driven from
// one goroutine at a time; the singleflight group only collapses
// concurrent hydrations of the same section.
type Coordinator struct {
	entities domain.EntityStore
	contexts domain.ContextStore
	settings domain.Settings
	logger   *slog.Logger
	hydrate  singleflight.Group
}

// NewCoordinator creates a coordinator over the given stores. The
// settings store is injected so the active-location slot is fakeable.
func NewCoordinator(entities domain.EntityStore, contexts domain.ContextStore, settings domain.Settings, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		entities: entities,
		contexts: contexts,
		settings: settings,
		logger:   logger,
	}
}

// Persist decomposes a content payload into entities, writes the ones
// that cannot be reused, and updates the section index for the
// location's most specific geo-key. Items without a usable storage
// directive are skipped entirely. A location that cannot be keyed at any
// level is not an error; there is simply nothing to cache under.
func (c *Coordinator) Persist(ctx context.Context, loc domain.Location, section, displayTitle string, config map[string]any, content map[string]any) error {
	level := geokey.MostSpecificLevel(loc)
	key := geokey.DivisionKey(loc, level)
	if key == "" {
		c.logger.Debug("location not addressable at any level, skipping persist", "section", section)
		return nil
	}

	items := extractItems(content)
	refs := make([]domain.EntityRef, 0, len(items))

	for _, item := range items {
		directive, ok := extractDirective(item)
		if !ok {
			c.logger.Debug("item without storage directive skipped", "section", section)
			continue
		}
		if _, scoped := geokey.LevelFromScope(directive.Scope); !scoped && !strings.EqualFold(directive.Scope, domain.ScopeGlobal) {
			c.logger.Warn("unrecognized scope treated as global",
				"entity_id", directive.EntityID, "scope", directive.Scope)
		}

		if !c.entities.CanReuseExisting(directive.EntityID, directive.Scope, loc) {
			_, err := c.entities.Write(domain.WriteParams{
				EntityID:       directive.EntityID,
				DisplayName:    displayNameOf(item, directive.EntityID),
				Section:        section,
				Scope:          directive.Scope,
				Content:        stripDirective(item),
				SourceLocation: loc.Address(),
				TTLHours:       directive.TTLHours,
			})
			if err != nil {
				return fmt.Errorf("failed to persist section %s: %w", section, err)
			}
		} else {
			c.logger.Debug("reusing stored entity", "entity_id", directive.EntityID, "scope", directive.Scope)
		}

		// The ref order always reflects the current payload's ordering,
		// whether the entity was reused or freshly written.
		refs = append(refs, domain.EntityRef{EntityID: directive.EntityID, Order: len(refs)})
	}

	idx := domain.SectionIndex{
		Metadata: domain.SectionMetadata{
			Section:      section,
			DisplayTitle: displayTitle,
			Config:       config,
		},
		EntityRefs: refs,
		UpdatedAt:  time.Now(),
	}
	if err := c.contexts.UpdateSection(key, level, loc, idx); err != nil {
		return fmt.Errorf("failed to persist section %s: %w", section, err)
	}

	if err := c.saveActiveKey(level, key); err != nil {
		return err
	}

	c.logger.Info("persisted section", "section", section, "level", level.String(), "key", key, "refs", len(refs))
	return nil
}

// RestoreSectionMetadata returns the section indices of the most
// specific cached context for the location, in insertion order. This is
// the fast path: no entity records are touched. Returns nil when nothing
// is cached.
func (c *Coordinator) RestoreSectionMetadata(loc domain.Location) []domain.SectionIndex {
	found := c.contexts.ContextsForLocation(loc)
	if len(found) == 0 {
		return nil
	}
	// Coarser contexts for the same location are shadowed: the most
	// granular cached view always wins.
	return found[0].OrderedSections()
}

// LoadSectionContent resolves a section's entity refs back into full
// content, in ref order. Entities that are missing or expired are
// dropped silently; a section left with zero valid entities hydrates to
// ErrNoCachedContent. Concurrent calls for the same section collapse
// into one disk pass.
func (c *Coordinator) LoadSectionContent(ctx context.Context, section string, loc domain.Location) (*domain.HydratedSection, error) {
	found := c.contexts.ContextsForLocation(loc)
	if len(found) == 0 {
		return nil, domain.ErrContextNotFound
	}
	stored := found[0]

	flightKey := stored.Level.String() + ":" + stored.GeoDivisionKey + ":" + section
	v, err, _ := c.hydrate.Do(flightKey, func() (any, error) {
		return c.hydrateSection(stored, section)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.HydratedSection), nil
}

func (c *Coordinator) hydrateSection(stored *domain.StoredContext, section string) (*domain.HydratedSection, error) {
	idx, ok := stored.Section(section)
	if !ok {
		return nil, domain.ErrSectionNotFound
	}

	refs := append([]domain.EntityRef(nil), idx.EntityRefs...)
	sort.Slice(refs, func(i, j int) bool { return refs[i].Order < refs[j].Order })

	items := make([]map[string]any, 0, len(refs))
	for _, ref := range refs {
		ent, ok := c.entities.Get(ref.EntityID)
		if !ok {
			c.logger.Debug("dangling entity ref dropped", "entity_id", ref.EntityID, "section", section)
			continue
		}
		if ent.IsExpired() {
			c.logger.Debug("expired entity dropped", "entity_id", ref.EntityID, "section", section)
			continue
		}
		items = append(items, ent.Content)
	}

	if len(items) == 0 {
		return nil, domain.ErrNoCachedContent
	}
	return &domain.HydratedSection{Metadata: idx.Metadata, Items: items}, nil
}

// HasCachedContext cheaply reports whether a context exists at the
// location's most specific addressable level. The location-switch flow
// uses this to pick "show cache now, refresh in background" over
// blocking on the network.
func (c *Coordinator) HasCachedContext(loc domain.Location) bool {
	level := geokey.MostSpecificLevel(loc)
	key := geokey.DivisionKey(loc, level)
	return key != "" && c.contexts.Exists(key, level)
}

// SaveActiveLocation records the location's most specific level and key
// so the app can resume display on cold launch without a location fix.
func (c *Coordinator) SaveActiveLocation(loc domain.Location) error {
	level := geokey.MostSpecificLevel(loc)
	key := geokey.DivisionKey(loc, level)
	if key == "" {
		return nil
	}
	return c.saveActiveKey(level, key)
}

func (c *Coordinator) saveActiveKey(level domain.DivisionLevel, key string) error {
	if err := c.settings.SetString(activeLocationKey, level.String()+":"+key); err != nil {
		return fmt.Errorf("failed to save active location: %w", err)
	}
	return nil
}

// LoadActiveLocationKey parses the stored "{level}:{key}" pointer back
// into its parts.
func (c *Coordinator) LoadActiveLocationKey() (domain.DivisionLevel, string, error) {
	raw, ok := c.settings.GetString(activeLocationKey)
	if !ok {
		return 0, "", domain.ErrNoActiveLocation
	}
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return 0, "", domain.ErrNoActiveLocation
	}
	level, ok := domain.ParseLevel(parts[0])
	if !ok {
		return 0, "", domain.ErrNoActiveLocation
	}
	return level, parts[1], nil
}

// ActiveLocation returns the full location descriptor recorded in the
// active context, if any.
func (c *Coordinator) ActiveLocation() (domain.Location, bool) {
	level, key, err := c.LoadActiveLocationKey()
	if err != nil {
		return domain.Location{}, false
	}
	stored, ok := c.contexts.Load(key, level)
	if !ok {
		return domain.Location{}, false
	}
	return stored.LocationDetail, true
}

// RestoreSectionMetadataFromActiveLocation is the cold-launch fast path:
// section metadata for the last persisted location, no location argument
// needed. Returns nil when no usable pointer or context exists.
func (c *Coordinator) RestoreSectionMetadataFromActiveLocation() []domain.SectionIndex {
	level, key, err := c.LoadActiveLocationKey()
	if err != nil {
		return nil
	}
	stored, ok := c.contexts.Load(key, level)
	if !ok {
		return nil
	}
	return stored.OrderedSections()
}

// PruneExpired sweeps expired entities out of the entity store.
func (c *Coordinator) PruneExpired() (int, error) {
	removed, err := c.entities.PruneExpired()
	if err != nil {
		return removed, err
	}
	if removed > 0 {
		c.logger.Info("pruned expired entities", "removed", removed)
	}
	return removed, nil
}

// PruneContexts deletes contexts in which no section retains a single
// resolvable, unexpired entity ref. Never runs implicitly; this is a
// maintenance operation.
func (c *Coordinator) PruneContexts() (int, error) {
	removed := 0
	for _, level := range domain.Levels {
		keys, err := c.contexts.ListContexts(level)
		if err != nil {
			return removed, fmt.Errorf("failed to list contexts at %s: %w", level, err)
		}
		for _, key := range keys {
			stored, ok := c.contexts.Load(key, level)
			if !ok {
				continue
			}
			if c.contextAlive(stored) {
				continue
			}
			if err := c.contexts.Delete(key, level); err != nil {
				return removed, fmt.Errorf("failed to delete stale context %s/%s: %w", level, key, err)
			}
			removed++
		}
	}
	if removed > 0 {
		c.logger.Info("pruned stale contexts", "removed", removed)
	}
	return removed, nil
}

// contextAlive reports whether any section still references a live
// entity.
func (c *Coordinator) contextAlive(stored *domain.StoredContext) bool {
	for _, idx := range stored.Sections {
		for _, ref := range idx.EntityRefs {
			if ent, ok := c.entities.Get(ref.EntityID); ok && !ent.IsExpired() {
				return true
			}
		}
	}
	return false
}
