package handlers

import (
	"net/http"

	"github.com/blackrose-gg/guild-system/middleware"
	"github.com/blackrose-gg/guild-system/services"
	"github.com/go-chi/chi/v5"
)

type NoticeHandler struct {
	noticeService services.NoticeService
}

func NewNoticeHandler(noticeService services.NoticeService) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService}
}

func (h *NoticeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateNoticeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	guildID := chi.URLParam(r, "guildID")
	notice, err := h.noticeService.Create(r.Context(), middleware.CurrentUser(r), guildID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"notice": notice}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NoticeHandler) List(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	notices, err := h.noticeService.ListByGuild(r.Context(), guildID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"notices": notices}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NoticeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	id, err := urlParamInt(r, "noticeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.noticeService.Delete(r.Context(), middleware.CurrentUser(r), guildID, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
