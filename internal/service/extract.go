package service

import (
	"encoding/json"

	"github.com/wayfare/atlas/internal/domain"
)

// itemsKey is the payload key under which the upstream content tree
// exposes its persistable item list.
const itemsKey = "items"

// displayNameKeys is the fallback chain for an item's display name. The
// entity id itself is the final fallback.
var displayNameKeys = []string{"local_name", "title", "name"}

// extractItems pulls the item-object list out of a content payload.
// Non-object elements are dropped.
func extractItems(content map[string]any) []map[string]any {
	raw, ok := content[itemsKey].([]any)
	if !ok {
		return nil
	}
	items := make([]map[string]any, 0, len(raw))
	for _, el := range raw {
		if item, ok := el.(map[string]any); ok {
			items = append(items, item)
		}
	}
	return items
}

// extractDirective reads the storage directive off an item. An item
// without an entity id and scope has no usable directive and is
// invisible to the cache.
func extractDirective(item map[string]any) (domain.StorageDirective, bool) {
	raw, ok := item[domain.DirectiveKey].(map[string]any)
	if !ok {
		return domain.StorageDirective{}, false
	}

	d := domain.StorageDirective{}
	d.EntityID, _ = raw["entity_id"].(string)
	d.Scope, _ = raw["scope"].(string)
	if d.EntityID == "" || d.Scope == "" {
		return domain.StorageDirective{}, false
	}

	if ttl, ok := asFloat(raw["ttl_hours"]); ok {
		d.TTLHours = &ttl
	}
	return d, true
}

// stripDirective returns a shallow copy of the item without its storage
// directive. The incoming item is left untouched.
func stripDirective(item map[string]any) map[string]any {
	out := make(map[string]any, len(item))
	for k, v := range item {
		if k == domain.DirectiveKey {
			continue
		}
		out[k] = v
	}
	return out
}

// displayNameOf picks the first available display-name field, falling
// back to the entity id.
func displayNameOf(item map[string]any, entityID string) string {
	for _, key := range displayNameKeys {
		if name, ok := item[key].(string); ok && name != "" {
			return name
		}
	}
	return entityID
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
