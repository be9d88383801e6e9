package assistant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/smart-bharat/backend/internal/handler/assistant"
	conversationService "github.com/smart-bharat/backend/internal/service/conversation"
)

type stubGenerator struct {
	reply string
}

func (g *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	return g.reply, nil
}

func newTestRouter(gen *stubGenerator) (chi.Router, *conversationService.Service) {
	svc := conversationService.NewService(gen)
	r := chi.NewRouter()
	assistant.New(svc).RegisterRoutes(r)
	return r, svc
}

func TestCreateSessionReturnsCreated(t *testing.T) {
	router, _ := newTestRouter(&stubGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"language":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		ID       string `json:"id"`
		Language string `json:"language"`
		State    string `json:"state"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.ID == "" || payload.Language != "hi" || payload.State != "idle" {
		t.Fatalf("unexpected session payload: %+v", payload)
	}
}

func TestCreateSessionRejectsMalformedBody(t *testing.T) {
	router, _ := newTestRouter(&stubGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMessagesReturnsGreeting(t *testing.T) {
	router, svc := newTestRouter(&stubGenerator{})
	session, err := svc.CreateSession(context.Background(), "hi")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/session/"+session.ID+"/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Messages []struct {
			Text   string `json:"text"`
			IsUser bool   `json:"isUser"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Messages) != 1 || payload.Messages[0].IsUser {
		t.Fatalf("unexpected messages payload: %+v", payload)
	}
	if payload.Messages[0].Text != conversationService.GreetingText {
		t.Fatalf("expected greeting, got %q", payload.Messages[0].Text)
	}
}

func TestMessagesUnknownSessionReturnsNotFound(t *testing.T) {
	router, _ := newTestRouter(&stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/session/missing/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTranscriptReturnsResolvedReply(t *testing.T) {
	router, svc := newTestRouter(&stubGenerator{reply: "जून में बोएं।"})
	session, err := svc.CreateSession(context.Background(), "hi")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/session/"+session.ID+"/transcript", strings.NewReader(`{"text":"फसल कब बोएं?"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Reply struct {
			Text   string `json:"text"`
			IsUser bool   `json:"isUser"`
		} `json:"reply"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Reply.Text != "जून में बोएं।" || payload.Reply.IsUser {
		t.Fatalf("unexpected reply payload: %+v", payload)
	}
}

func TestTranscriptRequiresText(t *testing.T) {
	router, svc := newTestRouter(&stubGenerator{})
	session, _ := svc.CreateSession(context.Background(), "hi")

	req := httptest.NewRequest(http.MethodPost, "/session/"+session.ID+"/transcript", strings.NewReader(`{"text":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTranscriptUnknownSessionReturnsNotFound(t *testing.T) {
	router, _ := newTestRouter(&stubGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/session/missing/transcript", strings.NewReader(`{"text":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
