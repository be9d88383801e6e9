package assistant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	conversationService "github.com/smart-bharat/backend/internal/service/conversation"
	"github.com/smart-bharat/backend/pkg/utils"
)

// Handler exposes the assistant session API.
type Handler struct {
	convSvc *conversationService.Service
}

// New creates the assistant handler.
func New(convSvc *conversationService.Service) *Handler {
	return &Handler{convSvc: convSvc}
}

// RegisterRoutes mounts the session endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}/messages", h.handleMessages)
	r.Post("/session/{sessionID}/transcript", h.handleTranscript)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Language string `json:"language"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.convSvc.CreateSession(r.Context(), payload.Language)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.convSvc.Messages(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// handleTranscript feeds a final transcript through the state machine and
// responds with the resolved assistant message. The call blocks for at most
// the generation timeout.
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	reply, err := h.convSvc.SubmitTranscript(r.Context(), sessionID, payload.Text)
	if err != nil {
		switch {
		case errors.Is(err, conversationService.ErrSessionNotFound):
			utils.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, conversationService.ErrReplyPending), errors.Is(err, conversationService.ErrSuperseded):
			utils.RespondError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"reply": reply})
}
