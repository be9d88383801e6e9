package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smart-bharat/backend/internal/config"
	"github.com/smart-bharat/backend/internal/model/feed"
)

// WeatherService fetches current conditions for the configured location.
type WeatherService struct {
	cfg        config.FeedsConfig
	httpClient *http.Client
}

// NewWeatherService builds the weather fetcher.
func NewWeatherService(cfg config.FeedsConfig) *WeatherService {
	return &WeatherService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient overrides the transport, for tests.
func (s *WeatherService) WithHTTPClient(httpClient *http.Client) *WeatherService {
	s.httpClient = httpClient
	return s
}

type weatherResponse struct {
	Current struct {
		TempC     float64 `json:"temp_c"`
		WindKPH   float64 `json:"wind_kph"`
		Humidity  int     `json:"humidity"`
		Cloud     int     `json:"cloud"`
		Condition struct {
			Text string `json:"text"`
			Icon string `json:"icon"`
		} `json:"condition"`
	} `json:"current"`
}

// FetchCurrent returns the current report, or the static fallback when the
// upstream call fails for any reason.
func (s *WeatherService) FetchCurrent(ctx context.Context) feed.WeatherReport {
	report, err := s.fetch(ctx)
	if err != nil {
		log.Printf("[feeds] failed to fetch weather: %v", err)
		return FallbackWeather(s.cfg.WeatherLocation)
	}
	return report
}

func (s *WeatherService) fetch(ctx context.Context) (feed.WeatherReport, error) {
	if s.cfg.WeatherAPIKey == "" {
		return feed.WeatherReport{}, fmt.Errorf("weather API key not configured")
	}

	query := url.Values{}
	query.Set("key", s.cfg.WeatherAPIKey)
	query.Set("q", s.cfg.WeatherLocation)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.WeatherAPIURL+"?"+query.Encode(), nil)
	if err != nil {
		return feed.WeatherReport{}, fmt.Errorf("create request: %w", err)
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return feed.WeatherReport{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return feed.WeatherReport{}, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return feed.WeatherReport{}, fmt.Errorf("read response body: %w", err)
	}

	var payload weatherResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return feed.WeatherReport{}, fmt.Errorf("decode response: %w", err)
	}
	if payload.Current.Condition.Text == "" {
		return feed.WeatherReport{}, fmt.Errorf("no condition in response")
	}

	return feed.WeatherReport{
		Location:   s.cfg.WeatherLocation,
		TempC:      payload.Current.TempC,
		Condition:  payload.Current.Condition.Text,
		IconURL:    payload.Current.Condition.Icon,
		WindKPH:    payload.Current.WindKPH,
		Humidity:   payload.Current.Humidity,
		CloudCover: payload.Current.Cloud,
		Advisory:   advisoryFor(payload.Current.Condition.Text),
	}, nil
}

func advisoryFor(condition string) string {
	if strings.Contains(strings.ToLower(condition), "rain") {
		return "Carry an umbrella. Rain is expected."
	}
	return "Good day for farming activities. No rain expected."
}

// FallbackWeather is the static report used when the upstream is down.
func FallbackWeather(location string) feed.WeatherReport {
	return feed.WeatherReport{
		Location:   location,
		TempC:      28,
		Condition:  "Partly cloudy",
		WindKPH:    12,
		Humidity:   60,
		CloudCover: 40,
		Advisory:   "Good day for farming activities. No rain expected.",
		Fallback:   true,
	}
}
