package geokey

import (
	"testing"

	"github.com/wayfare/atlas/internal/domain"
)

func f64(v float64) *float64 { return &v }

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"Shanghai", "shanghai"},
		{"São Paulo", "sao_paulo"},
		{"  New York  ", "new_york"},
		{"Provence-Alpes-Côte d'Azur", "provence-alpes-cote_d'azur"},
		{"Tokyo, Japan", "tokyo_japan"},
		{"a  b\tc", "a_b_c"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"São Paulo", "  Mixed CASE  ", "a b c", "déjà vu, encore"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestDivisionKey(t *testing.T) {
	shanghai := domain.Location{
		CountryCode: "CN",
		AdminArea:   "Shanghai",
		Locality:    "Shanghai",
		Sublocality: "Huangpu",
	}

	tests := []struct {
		name  string
		loc   domain.Location
		level domain.DivisionLevel
		want  string
	}{
		{"country", shanghai, domain.LevelCountry, "cn"},
		{"admin area", shanghai, domain.LevelAdminArea, "cn_shanghai"},
		{"locality", shanghai, domain.LevelLocality, "cn_shanghai_shanghai"},
		{"sublocality", shanghai, domain.LevelSublocality, "cn_shanghai_shanghai_huangpu"},
		{"country only, locality level", domain.Location{CountryCode: "CN"}, domain.LevelLocality, ""},
		{"country only, country level", domain.Location{CountryCode: "CN"}, domain.LevelCountry, "cn"},
		{"missing admin area", domain.Location{CountryCode: "CN", Locality: "Shanghai"}, domain.LevelLocality, ""},
		{"no coordinate", shanghai, domain.LevelCoordinate, ""},
		{"empty location, country level", domain.Location{}, domain.LevelCountry, ""},
	}
	for _, tt := range tests {
		if got := DivisionKey(tt.loc, tt.level); got != tt.want {
			t.Errorf("%s: DivisionKey = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDivisionKeyCoordinateRounding(t *testing.T) {
	loc := domain.Location{Latitude: f64(31.23045678), Longitude: f64(121.47371234)}
	want := "31.2305_121.4737"
	if got := DivisionKey(loc, domain.LevelCoordinate); got != want {
		t.Errorf("DivisionKey = %q, want %q", got, want)
	}
}

func TestMostSpecificLevel(t *testing.T) {
	loc := domain.Location{}
	if got := MostSpecificLevel(loc); got != domain.LevelCountry {
		t.Errorf("empty location: got %v, want country floor", got)
	}

	// Each added field must make the level strictly more specific.
	loc.CountryCode = "CN"
	prev := MostSpecificLevel(loc)
	if prev != domain.LevelCountry {
		t.Errorf("country only: got %v", prev)
	}
	loc.AdminArea = "Shanghai"
	if got := MostSpecificLevel(loc); got >= prev {
		t.Errorf("adding admin area did not increase specificity: %v", got)
	} else {
		prev = got
	}
	loc.Locality = "Shanghai"
	if got := MostSpecificLevel(loc); got >= prev {
		t.Errorf("adding locality did not increase specificity: %v", got)
	} else {
		prev = got
	}
	loc.Sublocality = "Huangpu"
	if got := MostSpecificLevel(loc); got >= prev {
		t.Errorf("adding sublocality did not increase specificity: %v", got)
	} else {
		prev = got
	}
	loc.Latitude, loc.Longitude = f64(31.23), f64(121.47)
	if got := MostSpecificLevel(loc); got >= prev {
		t.Errorf("adding coordinate did not increase specificity: %v", got)
	}
}

func TestMostSpecificLevelPartialCoordinate(t *testing.T) {
	loc := domain.Location{CountryCode: "CN", Latitude: f64(31.23)}
	if got := MostSpecificLevel(loc); got != domain.LevelCountry {
		t.Errorf("latitude alone must not count as a coordinate: got %v", got)
	}
}

func TestLevelFromScope(t *testing.T) {
	tests := []struct {
		scope string
		want  domain.DivisionLevel
		ok    bool
	}{
		{"country", domain.LevelCountry, true},
		{"COUNTRY", domain.LevelCountry, true},
		{"adminArea", domain.LevelAdminArea, true},
		{"admin_area", domain.LevelAdminArea, true},
		{"locality", domain.LevelLocality, true},
		{"sublocality", domain.LevelSublocality, true},
		{"coordinate", domain.LevelCoordinate, true},
		{"global", 0, false},
		{"", 0, false},
		{"planetary", 0, false},
	}
	for _, tt := range tests {
		got, ok := LevelFromScope(tt.scope)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("LevelFromScope(%q) = (%v, %v), want (%v, %v)", tt.scope, got, ok, tt.want, tt.ok)
		}
	}
}
