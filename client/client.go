// Package client calls the hotspot backend API over HTTP.
package client

import (
	"context"
	"fmt"
	"net/http"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/openwifimap/backend-api-go/hotspots"
	"github.com/valyala/fasthttp"
)

// API is a client for the /api/hotspots endpoints.
type API struct {
	baseURL string
}

// New reads the backend base URL from BACKEND_API_BASE.
func New() *API {
	return &API{baseURL: os.Getenv("BACKEND_API_BASE")}
}

// NewWithBaseURL is for callers that resolve the base URL themselves.
func NewWithBaseURL(baseURL string) *API {
	return &API{baseURL: baseURL}
}

// ListHotspots fetches every raw hotspot record. Any non-200 status is a
// failure; callers degrade to an empty result set.
func (a *API) ListHotspots(ctx context.Context) ([]hotspots.RawHotspot, error) {
	body, status, err := a.do(ctx, fasthttp.MethodGet, "/api/hotspots", nil)
	if err != nil {
		return nil, fmt.Errorf("could not fetch hotspots: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("hotspot list request failed with status %d", status)
	}

	var records []hotspots.RawHotspot
	if err := jsoniter.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("could not decode hotspot list: %w", err)
	}

	return records, nil
}

// CreateHotspot submits one hotspot. Any 2xx status is success.
func (a *API) CreateHotspot(ctx context.Context, req hotspots.SubmitRequest) error {
	payload, err := jsoniter.Marshal(req)
	if err != nil {
		return fmt.Errorf("could not encode submission: %w", err)
	}

	_, status, err := a.do(ctx, fasthttp.MethodPost, "/api/hotspots", payload)
	if err != nil {
		return fmt.Errorf("could not submit hotspot: %w", err)
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("hotspot submission failed with status %d", status)
	}

	return nil
}

func (a *API) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	req.SetRequestURI(a.baseURL + path)
	if payload != nil {
		req.SetBody(payload)
	}

	res := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(res)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = fasthttp.DoDeadline(req, res, deadline)
	} else {
		err = fasthttp.Do(req, res)
	}
	if err != nil {
		return nil, 0, err
	}

	body := make([]byte, len(res.Body()))
	copy(body, res.Body())

	return body, res.StatusCode(), nil
}
