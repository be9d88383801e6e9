package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/smart-bharat/backend/internal/config"
)

// Geocoder resolves coordinates to a display address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// NominatimClient calls the OpenStreetMap reverse-geocoding endpoint. The
// service is free and keyless but requires an identifying User-Agent.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewNominatimClient builds a geocoder from configuration.
func NewNominatimClient(cfg config.EmergencyConfig) *NominatimClient {
	return &NominatimClient{
		baseURL:    cfg.NominatimURL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient overrides the transport, for tests.
func (c *NominatimClient) WithHTTPClient(httpClient *http.Client) *NominatimClient {
	c.httpClient = httpClient
	return c
}

// ReverseGeocode fetches display_name for the coordinate pair.
func (c *NominatimClient) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", formatCoordinate(lat))
	query.Set("lon", formatCoordinate(lon))
	query.Set("zoom", "18")
	query.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("geocode: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocode: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("geocode: unexpected status %d", res.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("geocode: read response body: %w", err)
	}

	var payload struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("geocode: decode response: %w", err)
	}
	if payload.DisplayName == "" {
		return "", fmt.Errorf("geocode: no display_name in response")
	}
	return payload.DisplayName, nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatCoordinates renders the fallback address used when reverse
// geocoding fails.
func FormatCoordinates(lat, lon float64) string {
	return formatCoordinate(lat) + ", " + formatCoordinate(lon)
}
