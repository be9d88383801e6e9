package feeds

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	feedsService "github.com/smart-bharat/backend/internal/service/feeds"
	translateService "github.com/smart-bharat/backend/internal/service/translate"
	"github.com/smart-bharat/backend/pkg/utils"
)

// Handler exposes the read-only informational feeds.
type Handler struct {
	healthSvc    *feedsService.HealthService
	weatherSvc   *feedsService.WeatherService
	translateSvc *translateService.Service
}

// New creates the feeds handler.
func New(healthSvc *feedsService.HealthService, weatherSvc *feedsService.WeatherService, translateSvc *translateService.Service) *Handler {
	return &Handler{
		healthSvc:    healthSvc,
		weatherSvc:   weatherSvc,
		translateSvc: translateSvc,
	}
}

// RegisterRoutes mounts the feed endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health-alerts", h.handleHealthAlerts)
	r.Get("/weather", h.handleWeather)
	r.Post("/translate", h.handleTranslate)
}

// handleHealthAlerts never fails; the service degrades to static content.
func (h *Handler) handleHealthAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := h.healthSvc.FetchAlerts(r.Context())
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"alerts":    alerts,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleWeather(w http.ResponseWriter, r *http.Request) {
	report := h.weatherSvc.FetchCurrent(r.Context())
	utils.RespondJSON(w, http.StatusOK, report)
}

func (h *Handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text           string `json:"text"`
		TargetLanguage string `json:"targetLanguage"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == "" || payload.TargetLanguage == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	result, err := h.translateSvc.Translate(r.Context(), payload.Text, payload.TargetLanguage)
	if err != nil {
		if errors.Is(err, translateService.ErrNotConfigured) {
			utils.RespondError(w, http.StatusInternalServerError, "API configuration error")
			return
		}
		log.Printf("[feeds] translation failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "Translation service error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}
