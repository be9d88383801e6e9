package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-bharat/backend/internal/config"
)

func nominatimFor(srv *httptest.Server) *NominatimClient {
	return NewNominatimClient(config.EmergencyConfig{
		NominatimURL: srv.URL,
		UserAgent:    "SmartBharat-Emergency-App/1.0",
	}).WithHTTPClient(srv.Client())
}

func TestReverseGeocodeReturnsDisplayName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "16.705", q.Get("lat"))
		assert.Equal(t, "74.2433", q.Get("lon"))
		assert.Equal(t, "18", q.Get("zoom"))
		assert.Equal(t, "1", q.Get("addressdetails"))
		assert.Equal(t, "SmartBharat-Emergency-App/1.0", r.Header.Get("User-Agent"))
		fmt.Fprint(w, `{"display_name":"Kolhapur, Maharashtra, India"}`)
	}))
	defer srv.Close()

	address, err := nominatimFor(srv).ReverseGeocode(context.Background(), 16.705, 74.2433)
	require.NoError(t, err)
	assert.Equal(t, "Kolhapur, Maharashtra, India", address)
}

func TestReverseGeocodeRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := nominatimFor(srv).ReverseGeocode(context.Background(), 16.705, 74.2433)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
}

func TestReverseGeocodeRejectsEmptyDisplayName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"Unable to geocode"}`)
	}))
	defer srv.Close()

	_, err := nominatimFor(srv).ReverseGeocode(context.Background(), 0, 0)
	require.Error(t, err)
}

func TestFormatCoordinates(t *testing.T) {
	assert.Equal(t, "16.705, 74.2433", FormatCoordinates(16.705, 74.2433))
	assert.Equal(t, "0, -74.5", FormatCoordinates(0, -74.5))
}
