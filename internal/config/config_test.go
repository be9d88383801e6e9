package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Assistant.Language != "hi" || !cfg.Assistant.SpeakReplies || cfg.Assistant.StillWorkingMS != 4000 {
		t.Errorf("unexpected assistant defaults: %+v", cfg.Assistant)
	}
	if cfg.Gemini.TimeoutSeconds != 12 {
		t.Errorf("expected default Gemini timeout 12, got %d", cfg.Gemini.TimeoutSeconds)
	}
	if cfg.Gemini.Enabled() {
		t.Error("Gemini must be disabled without credentials")
	}
	if cfg.Emergency.SMSEnabled() {
		t.Error("SMS must be disabled without Twilio credentials")
	}
	if cfg.Emergency.UserAgent != "SmartBharat-Emergency-App/1.0" {
		t.Errorf("unexpected default user agent: %q", cfg.Emergency.UserAgent)
	}
	if cfg.Feeds.WeatherLocation != "Kolhapur" {
		t.Errorf("unexpected default weather location: %q", cfg.Feeds.WeatherLocation)
	}
	if cfg.Translate.Enabled() {
		t.Error("translation must be disabled without an API key")
	}
}

func TestLoadPortForms(t *testing.T) {
	cases := map[string]string{
		"3000":           ":3000",
		":3000":          ":3000",
		"127.0.0.1:3000": "127.0.0.1:3000",
	}
	for raw, want := range cases {
		t.Setenv("PORT", raw)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load with PORT=%q err: %v", raw, err)
		}
		if cfg.Server.Addr != want {
			t.Errorf("PORT=%q: expected addr %q, got %q", raw, want, cfg.Server.Addr)
		}
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("PORT", "80 80")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}

func TestLoadRejectsInvalidBool(t *testing.T) {
	t.Setenv("ASSISTANT_SPEAK_REPLIES", "definitely")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid ASSISTANT_SPEAK_REPLIES")
	}
	if !strings.Contains(err.Error(), "ASSISTANT_SPEAK_REPLIES") {
		t.Fatalf("error should name the variable: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_API_URL", "https://example.com/v1beta/models/gemini:generateContent")
	t.Setenv("GEMINI_TIMEOUT", "20")
	t.Setenv("ASSISTANT_STILL_WORKING_MS", "2500")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC1")
	t.Setenv("TWILIO_AUTH_TOKEN", "tok")
	t.Setenv("TWILIO_PHONE_NUMBER", "+15550001111")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.Gemini.Enabled() || cfg.Gemini.TimeoutSeconds != 20 {
		t.Errorf("unexpected Gemini config: %+v", cfg.Gemini)
	}
	if cfg.Assistant.StillWorkingMS != 2500 {
		t.Errorf("expected still-working override, got %d", cfg.Assistant.StillWorkingMS)
	}
	if !cfg.Emergency.SMSEnabled() {
		t.Error("expected SMS enabled with full Twilio credentials")
	}
}

func TestLoadRejectsInvalidOptionalInt(t *testing.T) {
	t.Setenv("GEMINI_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid GEMINI_TIMEOUT")
	}
}
