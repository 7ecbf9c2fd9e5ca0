package hotspots

import (
	"encoding/json"
	"fmt"
	"time"
)

// Category is the closed set of hotspot access categories.
type Category string

const (
	CategoryOpen      Category = "open"
	CategoryCustomer  Category = "customer"
	CategoryMunicipal Category = "municipal"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryOpen, CategoryCustomer, CategoryMunicipal:
		return true
	}
	return false
}

// Categories lists every valid category, in display order.
func Categories() []Category {
	return []Category{CategoryOpen, CategoryCustomer, CategoryMunicipal}
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RawLocation is the nested location object of a raw hotspot record.
// Every field is optional, the backend contract is loosely typed.
type RawLocation struct {
	ID          json.Number  `json:"id,omitempty"`
	ExternalID  string       `json:"externalId,omitempty"`
	Name        *string      `json:"name,omitempty"`
	Address     *string      `json:"address,omitempty"`
	Type        *string      `json:"type,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// RawSpeedTest is the nested latest-speed-test object of a raw hotspot record.
type RawSpeedTest struct {
	Download *float64 `json:"download,omitempty"`
	Upload   *float64 `json:"upload,omitempty"`
	Ping     *float64 `json:"ping,omitempty"`
}

// RawHotspot is a hotspot record as returned by GET /api/hotspots.
// Only the identifier is guaranteed to be present.
type RawHotspot struct {
	ID              json.Number   `json:"id"`
	WifiName        *string       `json:"wifiName,omitempty"`
	Category        *string       `json:"category,omitempty"`
	Location        *RawLocation  `json:"location,omitempty"`
	LatestSpeedTest *RawSpeedTest `json:"latestSpeedTest,omitempty"`
}

const (
	// Placeholders substituted for absent raw fields during normalization.
	PlaceholderName    = "Unnamed Wi-Fi"
	PlaceholderAddress = "Unknown address"
)

// DisplayHotspot is the fully defaulted, display-ready shape of a hotspot.
type DisplayHotspot struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Category    Category     `json:"category"`
	Speed       string       `json:"speed,omitempty"`
	Hours       string       `json:"hours,omitempty"`
	IsOpen      bool         `json:"isOpen"`
	Amenities   []string     `json:"amenities"`
	Rating      float64      `json:"rating"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Normalize converts a raw record into a DisplayHotspot, substituting
// defaults for anything absent. It never fails and never drops a record,
// a record carrying only an identifier still normalizes.
func Normalize(raw RawHotspot) DisplayHotspot {
	h := DisplayHotspot{
		ID:        raw.ID.String(),
		Name:      PlaceholderName,
		Address:   PlaceholderAddress,
		Category:  CategoryOpen,
		IsOpen:    true,
		Amenities: []string{},
		Rating:    0,
	}

	if raw.WifiName != nil && *raw.WifiName != "" {
		h.Name = *raw.WifiName
	}
	if raw.Category != nil && Category(*raw.Category).Valid() {
		h.Category = Category(*raw.Category)
	}
	if raw.Location != nil {
		if raw.Location.Address != nil && *raw.Location.Address != "" {
			h.Address = *raw.Location.Address
		}
		h.Coordinates = raw.Location.Coordinates
	}
	if raw.LatestSpeedTest != nil && raw.LatestSpeedTest.Download != nil {
		h.Speed = fmt.Sprintf("%g Mbps", *raw.LatestSpeedTest.Download)
	}

	return h
}

// NormalizeAll maps every raw record through Normalize, preserving order.
func NormalizeAll(raw []RawHotspot) []DisplayHotspot {
	out := make([]DisplayHotspot, 0, len(raw))
	for _, r := range raw {
		out = append(out, Normalize(r))
	}
	return out
}

// Server-side wire types. The API emits these; RawHotspot is the loose
// client-side reading of the same JSON.

type SubmitterInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Relationship string `json:"relationship,omitempty"`
}

type Place struct {
	ID          int64        `json:"id"`
	ExternalID  string       `json:"externalId"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Type        string       `json:"type"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type SpeedTest struct {
	ID        int64     `json:"id"`
	HotspotID int64     `json:"hotspotId"`
	Download  float64   `json:"download"`
	Upload    float64   `json:"upload"`
	Ping      float64   `json:"ping"`
	CreatedAt time.Time `json:"createdAt"`
}

type Item struct {
	ID              int64         `json:"id"`
	WifiName        string        `json:"wifiName"`
	WifiPassword    *string       `json:"wifiPassword,omitempty"`
	Category        Category      `json:"category"`
	Description     *string       `json:"description,omitempty"`
	Location        *Place        `json:"location,omitempty"`
	LatestSpeedTest *SpeedTest    `json:"latestSpeedTest,omitempty"`
	SubmitterInfo   SubmitterInfo `json:"submitterInfo"`
}

// SubmitRequest is the POST /api/hotspots body shared by client and server.
type SubmitRequest struct {
	Location      SubmitLocation  `json:"location"`
	WifiName      string          `json:"wifiName"`
	WifiPassword  string          `json:"wifiPassword"`
	Category      Category        `json:"category"`
	Description   string          `json:"description"`
	SpeedTest     SpeedTestFields `json:"speedTest"`
	SubmitterInfo SubmitterInfo   `json:"submitterInfo"`
}

type SubmitLocation struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Type        string       `json:"type"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// SpeedTestFields carries speed test readings as the user typed them.
// Values stay unvalidated strings until the server records them.
type SpeedTestFields struct {
	Download string `json:"download"`
	Upload   string `json:"upload"`
	Ping     string `json:"ping"`
}

// LocationHotspots is the GET /api/hotspots?externalId= response: the
// location itself plus every hotspot recorded there.
type LocationHotspots struct {
	Place
	Hotspots []Item `json:"hotspots"`
}

type ErrorResponse struct {
	Message string `json:"error"`
}
