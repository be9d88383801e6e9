package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smart-bharat/backend/internal/model/alert"
)

const alertsPath = "emergency-alerts"

// RESTStore posts alerts to a Firebase-style per-path REST endpoint. Only
// the response status is consumed.
type RESTStore struct {
	baseURL    string
	httpClient *http.Client
}

// NewRESTStore builds a store rooted at the database base URL.
func NewRESTStore(baseURL string) (*RESTStore, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("repository: alert store base URL must not be empty")
	}
	return &RESTStore{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// WithHTTPClient overrides the transport, for tests.
func (s *RESTStore) WithHTTPClient(httpClient *http.Client) *RESTStore {
	s.httpClient = httpClient
	return s
}

// SaveAlert writes one alert record.
func (s *RESTStore) SaveAlert(ctx context.Context, a alert.EmergencyAlert) error {
	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("repository: marshal alert: %w", err)
	}

	url := fmt.Sprintf("%s/%s.json", s.baseURL, alertsPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("repository: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("repository: store alert: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("repository: store alert: unexpected status %d", res.StatusCode)
	}
	return nil
}
