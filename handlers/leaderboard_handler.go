package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/blackrose-gg/guild-system/middleware"
	"github.com/blackrose-gg/guild-system/services"
	"github.com/go-chi/chi/v5"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// Submit accepts a multipart form: boss, clear_millis, party (comma separated
// uids) and an optional proof image.
func (h *LeaderboardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		badRequestResponse(w, r, errors.New("invalid multipart form"))
		return
	}

	clearMillis, err := strconv.ParseInt(r.FormValue("clear_millis"), 10, 64)
	if err != nil {
		badRequestResponse(w, r, errors.New("clear_millis must be an integer"))
		return
	}

	input := services.SubmitRecordInput{
		Boss:        r.FormValue("boss"),
		ClearMillis: clearMillis,
	}
	if party := r.FormValue("party"); party != "" {
		input.Party = strings.Split(party, ",")
	}

	var file io.ReadCloser
	if f, header, err := r.FormFile("proof"); err == nil {
		file = f
		input.ProofReader = f
		input.ProofContentType = header.Header.Get("Content-Type")
	}
	if file != nil {
		defer file.Close()
	}

	guildID := chi.URLParam(r, "guildID")
	rec, err := h.leaderboardService.SubmitRecord(r.Context(), middleware.CurrentUser(r), guildID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"record": rec}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	var boss *string
	if v := r.URL.Query().Get("boss"); v != "" {
		boss = &v
	}

	records, err := h.leaderboardService.List(r.Context(), guildID, boss)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"records": records}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	id, err := urlParamInt(r, "recordID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.leaderboardService.DeleteRecord(r.Context(), middleware.CurrentUser(r), guildID, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
