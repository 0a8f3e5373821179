package domain

// Location describes a geographic position as produced by the host
// application's reverse-geocoding layer. All fields are optional; the
// cache derives the most specific usable level from whatever is present.
type Location struct {
	CountryCode string   `json:"country_code,omitempty"`
	AdminArea   string   `json:"admin_area,omitempty"`
	Locality    string   `json:"locality,omitempty"`
	Sublocality string   `json:"sublocality,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// HasCoordinate reports whether both latitude and longitude are present.
func (l Location) HasCoordinate() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Address returns just the address components, which is all an entity
// record keeps for later scope comparisons.
func (l Location) Address() AddressParts {
	return AddressParts{
		CountryCode: l.CountryCode,
		AdminArea:   l.AdminArea,
		Locality:    l.Locality,
		Sublocality: l.Sublocality,
	}
}

// AddressParts holds the address components of the location that produced
// an entity. Coordinates are deliberately excluded: coordinate-scoped
// entities are never reused, so storing them would serve nothing.
type AddressParts struct {
	CountryCode string `json:"country_code,omitempty"`
	AdminArea   string `json:"admin_area,omitempty"`
	Locality    string `json:"locality,omitempty"`
	Sublocality string `json:"sublocality,omitempty"`
}
