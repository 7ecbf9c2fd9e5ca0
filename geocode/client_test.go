package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(serverURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: time.Second},
		baseURL:    serverURL,
		limit:      resultLimit,
	}
}

func TestSearchMapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "central station", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "1", r.URL.Query().Get("addressdetails"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"display_name": "Central Station, Stationsplein, Amsterdam", "type": "amenity", "lat": "52.3791", "lon": "4.9003"},
			{"display_name": "Old Fort, Fort Road, Dover", "type": "historic", "lat": "51.1290", "lon": "1.3210"},
			{"display_name": "Somewhere", "type": "residential", "lat": "not-a-number", "lon": "4.0"}
		]`))
	}))
	defer server.Close()

	got, err := testClient(server.URL).Search(context.Background(), "central station")

	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "0", got[0].ID)
	assert.Equal(t, "Central Station", got[0].Name)
	assert.Equal(t, "Central Station, Stationsplein, Amsterdam", got[0].Address)
	assert.Equal(t, TypeBusiness, got[0].Type)
	require.NotNil(t, got[0].Coordinates)
	assert.Equal(t, 52.3791, got[0].Coordinates.Lat)
	assert.Equal(t, 4.9003, got[0].Coordinates.Lng)

	assert.Equal(t, "1", got[1].ID)
	assert.Equal(t, TypeLandmark, got[1].Type)

	// Display name without a comma falls back to the whole string, and a
	// broken coordinate pair yields no coordinates at all.
	assert.Equal(t, "Somewhere", got[2].Name)
	assert.Equal(t, TypeAddress, got[2].Type)
	assert.Nil(t, got[2].Coordinates)
}

func TestSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	got, err := testClient(server.URL).Search(context.Background(), "anything")

	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestSearchEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	got, err := testClient(server.URL).Search(context.Background(), "nowhere at all")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMapResultIdentifierIsPositional(t *testing.T) {
	first := mapResult(0, nominatimResult{DisplayName: "A, B", Type: "amenity", Lat: "1", Lon: "2"})
	second := mapResult(1, nominatimResult{DisplayName: "C, D", Type: "amenity", Lat: "3", Lon: "4"})

	assert.Equal(t, "0", first.ID)
	assert.Equal(t, "1", second.ID)
}
