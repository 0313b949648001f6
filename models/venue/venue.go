package venue

// Venue is the normalized form of one venue record.
type Venue struct {
	VenueID   string  `json:"venue_id"`
	VenueName string  `json:"venue_name"`
	VenueLat  float64 `json:"venue_lat"`
	VenueLng  float64 `json:"venue_lng"`
	// HasCoords is false when the raw record had no coordinates or they were out of range.
	HasCoords bool `json:"has_coords"`

	Area     string `json:"venue_area,omitempty"`
	Category string `json:"venue_category,omitempty"`

	Phone     string `json:"venue_phone,omitempty"`
	Website   string `json:"venue_website,omitempty"`
	Instagram string `json:"venue_instagram,omitempty"`
	Address   string `json:"venue_address,omitempty"`

	Highlights []string `json:"venue_highlights,omitempty"`
	Atmosphere []string `json:"venue_atmosphere,omitempty"`
}

// ValidCoordinates reports whether lat/lng describe a point on the globe.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
