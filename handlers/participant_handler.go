package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/blackrose-gg/guild-system/middleware"
	"github.com/blackrose-gg/guild-system/models"
	"github.com/blackrose-gg/guild-system/services"
	"github.com/go-chi/chi/v5"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(participantService services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

func (h *ParticipantHandler) Apply(w http.ResponseWriter, r *http.Request) {
	contextID := chi.URLParam(r, "contextID")
	p, err := h.participantService.Apply(r.Context(), middleware.CurrentUser(r), contextID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": p}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	contextID := chi.URLParam(r, "contextID")

	var statusFilter *models.ParticipantStatus
	if v := r.URL.Query().Get("status"); v != "" {
		status := models.ParticipantStatus(v)
		switch status {
		case models.ParticipantPending, models.ParticipantApproved, models.ParticipantDenied:
			statusFilter = &status
		default:
			badRequestResponse(w, r, errors.New("status must be pending, approved or denied"))
			return
		}
	}

	participants, err := h.participantService.List(r.Context(), contextID, statusFilter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ParticipantHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.participantService.Approve)
}

func (h *ParticipantHandler) Deny(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.participantService.Deny)
}

func (h *ParticipantHandler) decide(w http.ResponseWriter, r *http.Request, fn func(context.Context, *models.User, string, string) error) {
	contextID := chi.URLParam(r, "contextID")
	participantID := chi.URLParam(r, "participantID")

	if err := fn(r.Context(), middleware.CurrentUser(r), contextID, participantID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ParticipantHandler) SetPoints(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Points int `json:"points"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contextID := chi.URLParam(r, "contextID")
	participantID := chi.URLParam(r, "participantID")

	err := h.participantService.SetPoints(r.Context(), middleware.CurrentUser(r), contextID, participantID, input.Points)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ParticipantHandler) Remove(w http.ResponseWriter, r *http.Request) {
	contextID := chi.URLParam(r, "contextID")
	participantID := chi.URLParam(r, "participantID")

	err := h.participantService.Remove(r.Context(), middleware.CurrentUser(r), contextID, participantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Leave is the member's own withdrawal, including the scrub of their match
// slots.
func (h *ParticipantHandler) Leave(w http.ResponseWriter, r *http.Request) {
	contextID := chi.URLParam(r, "contextID")
	if err := h.participantService.Leave(r.Context(), middleware.CurrentUser(r), contextID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
