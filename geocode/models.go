package geocode

// LocationType classifies a geocoded result for display purposes.
type LocationType string

const (
	TypeBusiness LocationType = "business"
	TypeLandmark LocationType = "landmark"
	TypeAddress  LocationType = "address"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is one normalized geocoding result.
//
// ID is the positional index within a single response. It is never stable
// across queries and must not be used as a persistent key.
type Location struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Type        LocationType `json:"type"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// nominatimResult mirrors the relevant parts of the OSM search payload.
// Latitude and longitude arrive string-encoded.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}
