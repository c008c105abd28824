package handlers

import (
	"context"
	"net/http"

	"github.com/blackrose-gg/guild-system/models"

	"github.com/blackrose-gg/guild-system/middleware"
	"github.com/blackrose-gg/guild-system/services"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler struct {
	leaveService services.LeaveService
}

func NewLeaveHandler(leaveService services.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

func (h *LeaveHandler) File(w http.ResponseWriter, r *http.Request) {
	var input services.FileLeaveInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	request, err := h.leaveService.File(r.Context(), middleware.CurrentUser(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"leave_request": request}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaveHandler) ListByGuild(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	requests, err := h.leaveService.ListByGuild(r.Context(), middleware.CurrentUser(r), guildID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"leave_requests": requests}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaveHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.leaveService.Approve)
}

func (h *LeaveHandler) Deny(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.leaveService.Deny)
}

func (h *LeaveHandler) decide(w http.ResponseWriter, r *http.Request, fn func(context.Context, *models.User, string, int) error) {
	guildID := chi.URLParam(r, "guildID")
	id, err := urlParamInt(r, "requestID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := fn(r.Context(), middleware.CurrentUser(r), guildID, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
