package handlers

import (
	"net/http"

	"github.com/blackrose-gg/guild-system/middleware"
	"github.com/blackrose-gg/guild-system/services"
	"github.com/go-chi/chi/v5"
)

type QueueHandler struct {
	queueService services.QueueService
}

func NewQueueHandler(queueService services.QueueService) *QueueHandler {
	return &QueueHandler{queueService: queueService}
}

func (h *QueueHandler) Join(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	entry, err := h.queueService.Join(r.Context(), middleware.CurrentUser(r), guildID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"entry": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	entries, err := h.queueService.List(r.Context(), guildID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"queue": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *QueueHandler) Leave(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	if err := h.queueService.Leave(r.Context(), middleware.CurrentUser(r), guildID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *QueueHandler) PopNext(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	entry, err := h.queueService.PopNext(r.Context(), middleware.CurrentUser(r), guildID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"entry": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *QueueHandler) Reset(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	if err := h.queueService.Reset(r.Context(), middleware.CurrentUser(r), guildID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
