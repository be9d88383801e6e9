package emergency

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smart-bharat/backend/internal/model/alert"
	dispatchService "github.com/smart-bharat/backend/internal/service/dispatch"
	"github.com/smart-bharat/backend/pkg/utils"
)

// Handler exposes emergency dispatch.
type Handler struct {
	dispatchSvc *dispatchService.Service
}

// New creates the emergency handler.
func New(dispatchSvc *dispatchService.Service) *Handler {
	return &Handler{dispatchSvc: dispatchSvc}
}

// RegisterRoutes mounts the dispatch endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/emergency", h.handleDispatch)
}

func (h *Handler) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req alert.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.dispatchSvc.Dispatch(r.Context(), req)
	if err != nil {
		if errors.Is(err, dispatchService.ErrValidation) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[emergency] dispatch failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}
