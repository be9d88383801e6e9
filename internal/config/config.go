package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config aggregates every tunable of the service.
type Config struct {
	Server    ServerConfig
	Assistant AssistantConfig
	Gemini    GeminiConfig
	Emergency EmergencyConfig
	Feeds     FeedsConfig
	Translate TranslateConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	assistant, err := loadAssistantConfig()
	if err != nil {
		return nil, err
	}

	gemini, err := loadGeminiConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Assistant: assistant,
		Gemini:    gemini,
		Emergency: loadEmergencyConfig(),
		Feeds:     loadFeedsConfig(),
		Translate: loadTranslateConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AssistantConfig describes voice assistant defaults.
type AssistantConfig struct {
	Language       string
	SpeakReplies   bool
	StillWorkingMS int
}

func loadAssistantConfig() (AssistantConfig, error) {
	speak, err := parseBoolEnv("ASSISTANT_SPEAK_REPLIES", true)
	if err != nil {
		return AssistantConfig{}, err
	}

	stillWorking := 4000
	if override, err := parseOptionalIntEnv("ASSISTANT_STILL_WORKING_MS"); err != nil {
		return AssistantConfig{}, err
	} else if override != nil && *override > 0 {
		stillWorking = *override
	}

	return AssistantConfig{
		Language:       getEnvOrDefault("ASSISTANT_LANGUAGE", "hi"),
		SpeakReplies:   speak,
		StillWorkingMS: stillWorking,
	}, nil
}

// GeminiConfig describes the generative-language endpoint.
type GeminiConfig struct {
	APIKey         string
	APIURL         string
	TimeoutSeconds int
}

// Enabled reports whether the required credentials are present.
func (c GeminiConfig) Enabled() bool {
	return c.APIKey != "" && c.APIURL != ""
}

func loadGeminiConfig() (GeminiConfig, error) {
	timeout := 12
	if override, err := parseOptionalIntEnv("GEMINI_TIMEOUT"); err != nil {
		return GeminiConfig{}, err
	} else if override != nil && *override > 0 {
		timeout = *override
	}

	return GeminiConfig{
		APIKey:         strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		APIURL:         strings.TrimSpace(os.Getenv("GEMINI_API_URL")),
		TimeoutSeconds: timeout,
	}, nil
}

// EmergencyConfig describes the dispatch dependencies: reverse geocoding,
// the alert store and the SMS gateway.
type EmergencyConfig struct {
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	FirebaseDatabaseURL string
	AlertsTable         string

	NominatimURL string
	UserAgent    string
}

// SMSEnabled reports whether Twilio credentials are configured.
func (c EmergencyConfig) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

func loadEmergencyConfig() EmergencyConfig {
	return EmergencyConfig{
		TwilioAccountSID:    strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")),
		TwilioAuthToken:     strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN")),
		TwilioFromNumber:    strings.TrimSpace(os.Getenv("TWILIO_PHONE_NUMBER")),
		FirebaseDatabaseURL: strings.TrimSpace(os.Getenv("FIREBASE_DATABASE_URL")),
		AlertsTable:         strings.TrimSpace(os.Getenv("ALERTS_TABLE")),
		NominatimURL:        getEnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org/reverse"),
		UserAgent:           getEnvOrDefault("EMERGENCY_USER_AGENT", "SmartBharat-Emergency-App/1.0"),
	}
}

// FeedsConfig describes the read-only informational feeds.
type FeedsConfig struct {
	NewsAPIKey      string
	NewsAPIURL      string
	DiseaseAPIURL   string
	WeatherAPIKey   string
	WeatherAPIURL   string
	WeatherLocation string
}

func loadFeedsConfig() FeedsConfig {
	return FeedsConfig{
		NewsAPIKey:      strings.TrimSpace(os.Getenv("NEWS_API_KEY")),
		NewsAPIURL:      getEnvOrDefault("NEWS_API_URL", "https://newsapi.org/v2/everything"),
		DiseaseAPIURL:   getEnvOrDefault("DISEASE_API_URL", "https://disease.sh/v3/covid-19/countries/india"),
		WeatherAPIKey:   strings.TrimSpace(os.Getenv("WEATHER_API_KEY")),
		WeatherAPIURL:   getEnvOrDefault("WEATHER_API_URL", "https://api.weatherapi.com/v1/current.json"),
		WeatherLocation: getEnvOrDefault("WEATHER_LOCATION", "Kolhapur"),
	}
}

// TranslateConfig describes the OpenAI-compatible translation endpoint.
type TranslateConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Enabled reports whether the API key is configured.
func (c TranslateConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadTranslateConfig() TranslateConfig {
	return TranslateConfig{
		APIKey:  strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY")),
		BaseURL: getEnvOrDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
		Model:   getEnvOrDefault("DEEPSEEK_MODEL", "deepseek-chat"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
