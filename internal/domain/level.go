package domain

import "strings"

// DivisionLevel identifies a geographic specificity level, ordered from
// most specific (coordinate) to least specific (country). A smaller value
// means more specific.
type DivisionLevel int

const (
	LevelCoordinate DivisionLevel = iota
	LevelSublocality
	LevelLocality
	LevelAdminArea
	LevelCountry
)

// Levels lists every division level, most specific first. Restore paths
// iterate this to find the most granular cached context for a location.
var Levels = []DivisionLevel{
	LevelCoordinate,
	LevelSublocality,
	LevelLocality,
	LevelAdminArea,
	LevelCountry,
}

func (l DivisionLevel) String() string {
	switch l {
	case LevelCoordinate:
		return "coordinate"
	case LevelSublocality:
		return "sublocality"
	case LevelLocality:
		return "locality"
	case LevelAdminArea:
		return "admin_area"
	case LevelCountry:
		return "country"
	default:
		return "unknown"
	}
}

// ParseLevel converts a level name back into a DivisionLevel. The second
// return is false for unrecognized names.
func ParseLevel(s string) (DivisionLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "coordinate":
		return LevelCoordinate, true
	case "sublocality":
		return LevelSublocality, true
	case "locality":
		return LevelLocality, true
	case "admin_area", "adminarea":
		return LevelAdminArea, true
	case "country":
		return LevelCountry, true
	default:
		return 0, false
	}
}

// Scope strings carried by storage directives. Scope describes the
// geographic breadth at which an entity stays reusable; it is related to
// but distinct from DivisionLevel ("global" has no level at all).
const (
	ScopeGlobal      = "global"
	ScopeCountry     = "country"
	ScopeAdminArea   = "adminArea"
	ScopeLocality    = "locality"
	ScopeSublocality = "sublocality"
	ScopeCoordinate  = "coordinate"
)
