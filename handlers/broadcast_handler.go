package handlers

import (
	"context"
	"net/http"

	"github.com/blackrose-gg/guild-system/middleware"
	"github.com/blackrose-gg/guild-system/models"
	"github.com/blackrose-gg/guild-system/services"
	"github.com/go-chi/chi/v5"
)

type BroadcastHandler struct {
	broadcastService services.BroadcastService
}

func NewBroadcastHandler(broadcastService services.BroadcastService) *BroadcastHandler {
	return &BroadcastHandler{broadcastService: broadcastService}
}

func (h *BroadcastHandler) SetStreamMatch(w http.ResponseWriter, r *http.Request) {
	h.setPointer(w, r, h.broadcastService.SetStreamMatch)
}

func (h *BroadcastHandler) SetBannerMatch(w http.ResponseWriter, r *http.Request) {
	h.setPointer(w, r, h.broadcastService.SetBannerMatch)
}

// setPointer handles both pointer surfaces; a null match_id clears the
// pointer.
func (h *BroadcastHandler) setPointer(w http.ResponseWriter, r *http.Request, write func(context.Context, *models.User, string, *int) error) {
	var input struct {
		MatchID *int `json:"match_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contextID := chi.URLParam(r, "contextID")
	if err := write(r.Context(), middleware.CurrentUser(r), contextID, input.MatchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BroadcastHandler) GetVSView(w http.ResponseWriter, r *http.Request) {
	contextID := chi.URLParam(r, "contextID")
	view, err := h.broadcastService.GetVSView(r.Context(), contextID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BroadcastHandler) GetBannerView(w http.ResponseWriter, r *http.Request) {
	contextID := chi.URLParam(r, "contextID")
	view, err := h.broadcastService.GetBannerView(r.Context(), contextID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
