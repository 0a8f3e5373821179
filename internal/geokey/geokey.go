// Package geokey derives normalized, filesystem-safe keys from location
// descriptors at a chosen geographic specificity level.
package geokey

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/wayfare/atlas/internal/domain"
)

// Normalize produces the canonical key form of an address component:
// lowercased, trimmed, diacritics stripped, commas removed, internal
// whitespace collapsed to underscores. Empty input yields "".
//
// "São Paulo" -> "sao_paulo"
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// Decompose, drop combining marks, recompose. The transformer is
	// stateful, so build one per call.
	deaccent := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(deaccent, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ",", "")
	return strings.Join(strings.Fields(s), "_")
}

// DivisionKey builds the storage key for a location at the given level.
// Returns "" when any component the level requires is missing; callers
// treat that as "cannot address at this level".
func DivisionKey(loc domain.Location, level domain.DivisionLevel) string {
	country := Normalize(loc.CountryCode)
	admin := Normalize(loc.AdminArea)
	locality := Normalize(loc.Locality)
	sublocality := Normalize(loc.Sublocality)

	switch level {
	case domain.LevelCountry:
		return country
	case domain.LevelAdminArea:
		if country == "" || admin == "" {
			return ""
		}
		return country + "_" + admin
	case domain.LevelLocality:
		if country == "" || admin == "" || locality == "" {
			return ""
		}
		return country + "_" + admin + "_" + locality
	case domain.LevelSublocality:
		if country == "" || admin == "" || locality == "" || sublocality == "" {
			return ""
		}
		return country + "_" + admin + "_" + locality + "_" + sublocality
	case domain.LevelCoordinate:
		if !loc.HasCoordinate() {
			return ""
		}
		// 4 decimal places is ~11m precision, enough to tell two
		// neighboring fixes apart without fragmenting the cache.
		return fmt.Sprintf("%.4f_%.4f", *loc.Latitude, *loc.Longitude)
	}
	return ""
}

// MostSpecificLevel returns the finest level the location can be
// addressed at. Country is the floor even when the country code is also
// absent; DivisionKey then reports the actual addressability.
func MostSpecificLevel(loc domain.Location) domain.DivisionLevel {
	switch {
	case loc.HasCoordinate():
		return domain.LevelCoordinate
	case strings.TrimSpace(loc.Sublocality) != "":
		return domain.LevelSublocality
	case strings.TrimSpace(loc.Locality) != "":
		return domain.LevelLocality
	case strings.TrimSpace(loc.AdminArea) != "":
		return domain.LevelAdminArea
	default:
		return domain.LevelCountry
	}
}

// LevelFromScope maps a directive's scope string to a division level.
// The second return is false for "global" and for anything unrecognized:
// both mean "no level", which reuse logic treats as reusable everywhere.
func LevelFromScope(scope string) (domain.DivisionLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(scope)) {
	case "country":
		return domain.LevelCountry, true
	case "adminarea", "admin_area":
		return domain.LevelAdminArea, true
	case "locality":
		return domain.LevelLocality, true
	case "sublocality":
		return domain.LevelSublocality, true
	case "coordinate":
		return domain.LevelCoordinate, true
	default:
		return 0, false
	}
}
