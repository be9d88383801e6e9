package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/smart-bharat/backend/internal/config"
	"github.com/smart-bharat/backend/internal/model/feed"
)

const maxHealthAlerts = 10

// healthTopics are the fixed NewsAPI queries aggregated into the feed.
var healthTopics = []string{
	"healthcare",
	"medical research",
	"covid-19",
	"vaccination",
	"mental health",
	"nutrition",
	"fitness",
	"public health",
}

// HealthService aggregates health news and disease alerts. Every failure
// degrades to the static fallback; the caller never sees an error.
type HealthService struct {
	cfg        config.FeedsConfig
	httpClient *http.Client
}

// NewHealthService builds the health feed fetcher.
func NewHealthService(cfg config.FeedsConfig) *HealthService {
	return &HealthService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient overrides the transport, for tests.
func (s *HealthService) WithHTTPClient(httpClient *http.Client) *HealthService {
	s.httpClient = httpClient
	return s
}

// FetchAlerts returns the aggregated feed, deduplicated by title and capped
// at ten entries, or the static fallback when nothing could be fetched.
func (s *HealthService) FetchAlerts(ctx context.Context) []feed.HealthAlert {
	alerts := s.fetchHealthNews(ctx)
	alerts = append(alerts, s.fetchDiseaseAlerts(ctx)...)

	alerts = dedupeByTitle(alerts)
	if len(alerts) > maxHealthAlerts {
		alerts = alerts[:maxHealthAlerts]
	}
	if len(alerts) == 0 {
		return FallbackAlerts()
	}
	return alerts
}

type newsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (s *HealthService) fetchHealthNews(ctx context.Context) []feed.HealthAlert {
	if s.cfg.NewsAPIKey == "" {
		return nil
	}

	var alerts []feed.HealthAlert
	for _, topic := range healthTopics {
		query := url.Values{}
		query.Set("q", topic)
		query.Set("language", "en")
		query.Set("sortBy", "publishedAt")
		query.Set("pageSize", "2")
		query.Set("apiKey", s.cfg.NewsAPIKey)

		var payload newsResponse
		if err := s.getJSON(ctx, s.cfg.NewsAPIURL+"?"+query.Encode(), &payload); err != nil {
			log.Printf("[feeds] failed to fetch news for topic %q: %v", topic, err)
			continue
		}

		for _, article := range payload.Articles {
			description := article.Description
			if description == "" {
				description = "Click to read more about this health update."
			}
			alerts = append(alerts, feed.HealthAlert{
				ID:          "news-" + uuid.NewString(),
				Type:        "info",
				Title:       article.Title,
				Description: description,
				Icon:        iconForTopic(topic),
				Color:       colorForTopic(topic),
				Source:      article.Source.Name,
				URL:         article.URL,
				PublishedAt: article.PublishedAt,
				Category:    formatTopic(topic),
			})
		}
	}
	return alerts
}

type diseaseResponse struct {
	TodayCases int `json:"todayCases"`
}

func (s *HealthService) fetchDiseaseAlerts(ctx context.Context) []feed.HealthAlert {
	var payload diseaseResponse
	if err := s.getJSON(ctx, s.cfg.DiseaseAPIURL, &payload); err != nil {
		log.Printf("[feeds] failed to fetch disease data: %v", err)
		return nil
	}

	if payload.TodayCases <= 1000 {
		return nil
	}
	return []feed.HealthAlert{{
		ID:          "covid-" + uuid.NewString(),
		Type:        "warning",
		Title:       "COVID-19 Alert",
		Description: fmt.Sprintf("There have been %d new cases reported today. Please follow safety guidelines.", payload.TodayCases),
		Icon:        "alert-triangle",
		Color:       "red-500",
		Source:      "WHO",
		PublishedAt: time.Now().UTC().Format(time.RFC3339),
		Category:    "Disease Alert",
	}}
}

func (s *HealthService) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// dedupeByTitle keeps the first occurrence of each title.
func dedupeByTitle(alerts []feed.HealthAlert) []feed.HealthAlert {
	seen := make(map[string]struct{}, len(alerts))
	unique := alerts[:0:0]
	for _, a := range alerts {
		if _, ok := seen[a.Title]; ok {
			continue
		}
		seen[a.Title] = struct{}{}
		unique = append(unique, a)
	}
	return unique
}

// FallbackAlerts is the static content shown when every upstream fails.
func FallbackAlerts() []feed.HealthAlert {
	return []feed.HealthAlert{
		{
			ID:          "tip-1",
			Type:        "info",
			Title:       "Stay Hydrated",
			Description: "Drink at least 8 glasses of water daily to maintain good health.",
			Icon:        "droplets",
			Color:       "blue-500",
			Category:    "Health Tip",
		},
		{
			ID:          "tip-2",
			Type:        "info",
			Title:       "Regular Exercise",
			Description: "Aim for 30 minutes of moderate exercise most days of the week.",
			Icon:        "heart",
			Color:       "green-500",
			Category:    "Health Tip",
		},
		{
			ID:          "tip-3",
			Type:        "info",
			Title:       "Balanced Diet",
			Description: "Include fruits, vegetables, and whole grains in your daily diet.",
			Icon:        "pill",
			Color:       "yellow-500",
			Category:    "Health Tip",
		},
		{
			ID:          "alert-1",
			Type:        "warning",
			Title:       "Seasonal Flu Alert",
			Description: "Flu season is approaching. Get your flu shot to protect yourself and others.",
			Icon:        "alert-triangle",
			Color:       "red-500",
			Category:    "Health Alert",
		},
	}
}

func iconForTopic(topic string) string {
	switch topic {
	case "healthcare":
		return "stethoscope"
	case "medical research":
		return "microscope"
	case "covid-19":
		return "virus"
	case "vaccination":
		return "syringe"
	case "mental health":
		return "brain"
	case "nutrition":
		return "apple"
	case "fitness":
		return "dumbbell"
	case "public health":
		return "users"
	default:
		return "newspaper"
	}
}

func colorForTopic(topic string) string {
	switch topic {
	case "healthcare":
		return "blue-500"
	case "medical research":
		return "purple-500"
	case "covid-19":
		return "red-500"
	case "vaccination":
		return "green-500"
	case "mental health":
		return "pink-500"
	case "nutrition":
		return "yellow-500"
	case "fitness":
		return "orange-500"
	case "public health":
		return "indigo-500"
	default:
		return "gray-500"
	}
}

func formatTopic(topic string) string {
	out := []rune(topic)
	upper := true
	for i, r := range out {
		switch {
		case r == '-':
			out[i] = ' '
			upper = true
		case upper && r >= 'a' && r <= 'z':
			out[i] = r - 'a' + 'A'
			upper = false
		case r == ' ':
			upper = true
		default:
			upper = false
		}
	}
	return string(out)
}
