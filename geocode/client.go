package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	log "github.com/openwifimap/backend-api-go/pkg/logger"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	userAgent      = "wifimap-backend-go/1.0"
	resultLimit    = 10
)

// Client queries the Nominatim geocoding service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limit      int
}

// New builds a Client against NOMINATIM_BASE_URL, falling back to the
// public openstreetmap.org instance.
func New() *Client {
	baseURL := os.Getenv("NOMINATIM_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		limit:      resultLimit,
	}
}

// Search geocodes a free-text query into up to 10 ranked locations.
func (c *Client) Search(ctx context.Context, query string) ([]Location, error) {
	params := url.Values{}
	params.Add("format", "json")
	params.Add("q", query)
	params.Add("limit", strconv.Itoa(c.limit))
	params.Add("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("could not prepare geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Logger().Error("geocoding request failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Logger().Error("geocoding upstream error", zap.String("query", query), zap.Int("statusCode", resp.StatusCode))
		return nil, fmt.Errorf("geocoding request failed with status %d", resp.StatusCode)
	}

	var rawResults []nominatimResult
	if err := jsoniter.NewDecoder(resp.Body).Decode(&rawResults); err != nil {
		log.Logger().Error("could not decode geocoding response", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	locations := make([]Location, 0, len(rawResults))
	for i, raw := range rawResults {
		locations = append(locations, mapResult(i, raw))
	}

	return locations, nil
}

// mapResult normalizes one raw Nominatim entry. The identifier is the
// positional index, unique only within this response.
func mapResult(index int, raw nominatimResult) Location {
	name := raw.DisplayName
	if segment, _, found := strings.Cut(raw.DisplayName, ","); found && segment != "" {
		name = segment
	}

	loc := Location{
		ID:      strconv.Itoa(index),
		Name:    name,
		Address: raw.DisplayName,
		Type:    mapType(raw.Type),
	}

	lat, latErr := strconv.ParseFloat(raw.Lat, 64)
	lng, lngErr := strconv.ParseFloat(raw.Lon, 64)
	if latErr == nil && lngErr == nil {
		loc.Coordinates = &Coordinates{Lat: lat, Lng: lng}
	}

	return loc
}

func mapType(nominatimType string) LocationType {
	switch nominatimType {
	case "amenity":
		return TypeBusiness
	case "historic":
		return TypeLandmark
	default:
		return TypeAddress
	}
}
