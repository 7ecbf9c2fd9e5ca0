package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openwifimap/backend-api-go/hotspots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmitRequest() hotspots.SubmitRequest {
	return hotspots.SubmitRequest{
		Location: hotspots.SubmitLocation{
			Name:    "Central Library",
			Address: "12 Oak St, Testville",
			Type:    "business",
		},
		WifiName: "Library Guest",
		Category: hotspots.CategoryOpen,
		SubmitterInfo: hotspots.SubmitterInfo{
			Name:  "Jo Visitor",
			Email: "jo@example.com",
		},
	}
}

func TestListHotspots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/hotspots", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "wifiName": "Cafe Guest", "category": "customer",
			 "location": {"address": "1 Main St"},
			 "latestSpeedTest": {"download": 45, "upload": 10, "ping": 20}},
			{"id": 2}
		]`))
	}))
	defer server.Close()

	got, err := NewWithBaseURL(server.URL).ListHotspots(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID.String())
	require.NotNil(t, got[0].WifiName)
	assert.Equal(t, "Cafe Guest", *got[0].WifiName)
	require.NotNil(t, got[0].LatestSpeedTest)
	assert.Equal(t, 45.0, *got[0].LatestSpeedTest.Download)
	assert.Nil(t, got[1].WifiName)
	assert.Nil(t, got[1].Location)
}

func TestListHotspotsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	got, err := NewWithBaseURL(server.URL).ListHotspots(context.Background())

	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestCreateHotspotAccepts2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	err := NewWithBaseURL(server.URL).CreateHotspot(context.Background(), validSubmitRequest())

	assert.NoError(t, err)
}

func TestCreateHotspotRejectsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewWithBaseURL(server.URL).CreateHotspot(context.Background(), validSubmitRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
