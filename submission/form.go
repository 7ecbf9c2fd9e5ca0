package submission

import (
	"github.com/openwifimap/backend-api-go/geocode"
	"github.com/openwifimap/backend-api-go/hotspots"
)

// Form is the mutable wizard state. Fields are set one at a time as the
// user moves through the two steps.
type Form struct {
	Location     *geocode.Location
	WifiName     string
	WifiPassword string
	Category     hotspots.Category
	Description  string
	SpeedTest    hotspots.SpeedTestFields
	Submitter    hotspots.SubmitterInfo
}

// NewForm returns the empty initial state. Category starts as "customer".
func NewForm() Form {
	return Form{Category: hotspots.CategoryCustomer}
}

// MissingFields lists what still blocks a final submission. Validation is
// presence-only; nothing checks the shape of the email address.
func (f *Form) MissingFields() []string {
	var missing []string
	if f.Location == nil {
		missing = append(missing, "location")
	}
	if f.WifiName == "" {
		missing = append(missing, "wifiName")
	}
	if f.Submitter.Name == "" {
		missing = append(missing, "submitterName")
	}
	if f.Submitter.Email == "" {
		missing = append(missing, "submitterEmail")
	}
	return missing
}

// payload builds the POST body. Speed test values pass through exactly as
// typed, empty strings included.
func (f *Form) payload() hotspots.SubmitRequest {
	req := hotspots.SubmitRequest{
		WifiName:      f.WifiName,
		WifiPassword:  f.WifiPassword,
		Category:      f.Category,
		Description:   f.Description,
		SpeedTest:     f.SpeedTest,
		SubmitterInfo: f.Submitter,
	}

	if f.Location != nil {
		req.Location = hotspots.SubmitLocation{
			ID:      f.Location.ID,
			Name:    f.Location.Name,
			Address: f.Location.Address,
			Type:    string(f.Location.Type),
		}
		if f.Location.Coordinates != nil {
			req.Location.Coordinates = &hotspots.Coordinates{
				Lat: f.Location.Coordinates.Lat,
				Lng: f.Location.Coordinates.Lng,
			}
		}
	}

	return req
}
