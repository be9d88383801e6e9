package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smart-bharat/backend/internal/config"
)

func completionBody(content string) string {
	return fmt.Sprintf(`{"id":"cmpl-1","object":"chat.completion","created":1756500000,"model":"deepseek-chat","choices":[{"index":0,"message":{"role":"assistant","content":%q},"finish_reason":"stop"}]}`, content)
}

func serviceFor(srv *httptest.Server) *Service {
	return NewService(config.TranslateConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "deepseek-chat",
	})
}

func TestTranslateDisabledWithoutAPIKey(t *testing.T) {
	svc := NewService(config.TranslateConfig{})
	if svc.Enabled() {
		t.Fatal("service must be disabled without an API key")
	}
	if _, err := svc.Translate(context.Background(), "hello", "Hindi"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestTranslateRejectsMissingInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for missing input")
	}))
	defer srv.Close()

	svc := serviceFor(srv)
	if _, err := svc.Translate(context.Background(), "  ", "Hindi"); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if _, err := svc.Translate(context.Background(), "hello", ""); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
}

func TestTranslateReturnsModelOutput(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload.Model != "deepseek-chat" {
			t.Errorf("unexpected model: %q", payload.Model)
		}
		if len(payload.Messages) == 1 {
			gotPrompt = payload.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("नमस्ते")))
	}))
	defer srv.Close()

	svc := serviceFor(srv)
	result, err := svc.Translate(context.Background(), "hello", "Hindi")
	if err != nil {
		t.Fatalf("Translate err: %v", err)
	}

	if result.TranslatedText != "नमस्ते" {
		t.Fatalf("unexpected translation: %q", result.TranslatedText)
	}
	if result.SourceLanguage != "auto" || result.TargetLanguage != "Hindi" {
		t.Fatalf("unexpected language metadata: %+v", result)
	}
	if !strings.Contains(gotPrompt, "Translate the following text to Hindi") {
		t.Fatalf("unexpected prompt: %q", gotPrompt)
	}
	if !strings.Contains(gotPrompt, `"hello"`) {
		t.Fatalf("prompt must quote the input text: %q", gotPrompt)
	}
}

func TestTranslateEmptyCompletionFallsBackToInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("  ")))
	}))
	defer srv.Close()

	svc := serviceFor(srv)
	result, err := svc.Translate(context.Background(), "hello", "Hindi")
	if err != nil {
		t.Fatalf("Translate err: %v", err)
	}
	if result.TranslatedText != "hello" {
		t.Fatalf("expected input passthrough, got %q", result.TranslatedText)
	}
}

func TestTranslateUpstreamFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	svc := serviceFor(srv)
	if _, err := svc.Translate(context.Background(), "hello", "Hindi"); err == nil {
		t.Fatal("expected error from upstream failure")
	}
}
