package submission

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/openwifimap/backend-api-go/client"
	"github.com/openwifimap/backend-api-go/geocode"
	"github.com/openwifimap/backend-api-go/hotspots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPoster struct {
	requests []hotspots.SubmitRequest
	err      error
}

func (p *stubPoster) CreateHotspot(_ context.Context, req hotspots.SubmitRequest) error {
	p.requests = append(p.requests, req)
	return p.err
}

func testLocation() *geocode.Location {
	return &geocode.Location{
		ID:          "0",
		Name:        "Central Library",
		Address:     "Central Library, 12 Oak St, Testville",
		Type:        geocode.TypeBusiness,
		Coordinates: &geocode.Coordinates{Lat: 52.1, Lng: 4.6},
	}
}

func fillValidForm(w *Workflow) {
	form := w.Form()
	form.Location = testLocation()
	form.WifiName = "Library Guest"
	form.Submitter.Name = "Jo Visitor"
	form.Submitter.Email = "jo@example.com"
}

func TestNextBlockedWithoutLocation(t *testing.T) {
	w := New(&stubPoster{})

	err := w.Next()

	assert.ErrorIs(t, err, ErrNoLocation)
	assert.Equal(t, StepDetails, w.Step())
}

func TestNextAdvancesWithLocation(t *testing.T) {
	w := New(&stubPoster{})
	w.Form().Location = testLocation()

	require.NoError(t, w.Next())
	assert.Equal(t, StepReview, w.Step())
}

func TestBackKeepsInput(t *testing.T) {
	w := New(&stubPoster{})
	fillValidForm(w)
	require.NoError(t, w.Next())

	w.Back()

	assert.Equal(t, StepDetails, w.Step())
	assert.Equal(t, "Library Guest", w.Form().WifiName)
}

func TestSubmitOnlyFromReviewStep(t *testing.T) {
	poster := &stubPoster{}
	w := New(poster)
	fillValidForm(w)

	err := w.Submit(context.Background())

	assert.ErrorIs(t, err, ErrNotAtReview)
	assert.Empty(t, poster.requests)
	assert.Equal(t, StatusEditing, w.Status())

	require.NoError(t, w.Next())
	require.NoError(t, w.Submit(context.Background()))
	assert.Len(t, poster.requests, 1)
}

func TestSubmitBlockedOnMissingEmail(t *testing.T) {
	poster := &stubPoster{}
	w := New(poster)
	fillValidForm(w)
	require.NoError(t, w.Next())
	w.Form().Submitter.Email = ""

	err := w.Submit(context.Background())

	assert.ErrorContains(t, err, "submitterEmail")
	assert.Empty(t, poster.requests)
	assert.Equal(t, StatusEditing, w.Status())
}

func TestSubmitBlockedOnMissingWifiName(t *testing.T) {
	poster := &stubPoster{}
	w := New(poster)
	fillValidForm(w)
	require.NoError(t, w.Next())
	w.Form().WifiName = ""

	err := w.Submit(context.Background())

	assert.ErrorContains(t, err, "wifiName")
	assert.Empty(t, poster.requests)
}

func TestSubmitSuccess(t *testing.T) {
	poster := &stubPoster{}
	w := New(poster)
	fillValidForm(w)
	require.NoError(t, w.Next())
	w.Form().WifiPassword = "letmein"
	w.Form().SpeedTest.Download = "45"

	require.NoError(t, w.Submit(context.Background()))

	assert.Equal(t, StatusSucceeded, w.Status())
	require.Len(t, poster.requests, 1)

	req := poster.requests[0]
	assert.Equal(t, "Central Library", req.Location.Name)
	assert.Equal(t, "business", req.Location.Type)
	require.NotNil(t, req.Location.Coordinates)
	assert.Equal(t, 52.1, req.Location.Coordinates.Lat)
	assert.Equal(t, "Library Guest", req.WifiName)
	assert.Equal(t, hotspots.CategoryCustomer, req.Category)
	assert.Equal(t, "45", req.SpeedTest.Download)
	assert.Equal(t, "", req.SpeedTest.Upload)
	assert.Equal(t, "jo@example.com", req.SubmitterInfo.Email)
}

func TestSubmitFailureKeepsFormForRetry(t *testing.T) {
	poster := &stubPoster{err: errors.New("status 500")}
	w := New(poster)
	fillValidForm(w)
	require.NoError(t, w.Next())

	err := w.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, StatusFailed, w.Status())
	assert.Contains(t, w.Err(), "Error")
	assert.Contains(t, w.Err(), "status 500")

	// Entered data survives the failure, nothing to re-type.
	assert.Equal(t, "Library Guest", w.Form().WifiName)
	require.NotNil(t, w.Form().Location)

	poster.err = nil
	require.NoError(t, w.Retry(context.Background()))
	assert.Equal(t, StatusSucceeded, w.Status())
	assert.Len(t, poster.requests, 2)
}

func TestRetryOnlyAfterFailure(t *testing.T) {
	w := New(&stubPoster{})
	fillValidForm(w)

	assert.Error(t, w.Retry(context.Background()))
}

func TestSubmitAnotherResetsEverything(t *testing.T) {
	w := New(&stubPoster{})
	fillValidForm(w)
	w.Form().Description = "fast and quiet"
	require.NoError(t, w.Next())
	require.NoError(t, w.Submit(context.Background()))
	require.Equal(t, StatusSucceeded, w.Status())

	w.SubmitAnother()

	assert.Equal(t, StepDetails, w.Step())
	assert.Equal(t, StatusEditing, w.Status())
	assert.Nil(t, w.Form().Location)
	assert.Empty(t, w.Form().WifiName)
	assert.Empty(t, w.Form().Description)
	assert.Equal(t, hotspots.CategoryCustomer, w.Form().Category)
	assert.Empty(t, w.Err())
}

func TestSubmitAnotherIgnoredWhileEditing(t *testing.T) {
	w := New(&stubPoster{})
	w.Form().WifiName = "keep me"

	w.SubmitAnother()

	assert.Equal(t, "keep me", w.Form().WifiName)
}

// End to end against a real HTTP server through the API client.

func TestWorkflowAgainstBackend(t *testing.T) {
	var received hotspots.SubmitRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/hotspots", r.URL.Path)
		require.NoError(t, jsoniter.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	w := New(client.NewWithBaseURL(server.URL))
	fillValidForm(w)
	require.NoError(t, w.Next())
	require.NoError(t, w.Submit(context.Background()))

	assert.Equal(t, StatusSucceeded, w.Status())
	assert.Equal(t, "Library Guest", received.WifiName)

	w.SubmitAnother()
	assert.Nil(t, w.Form().Location)
	assert.Equal(t, StepDetails, w.Step())
}

func TestWorkflowAgainstFailingBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	w := New(client.NewWithBaseURL(server.URL))
	fillValidForm(w)
	require.NoError(t, w.Next())

	err := w.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, StatusFailed, w.Status())
	assert.Contains(t, w.Err(), "Error")
}
