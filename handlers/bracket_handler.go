package handlers

import (
	"errors"
	"net/http"

	"github.com/blackrose-gg/guild-system/arena"
	"github.com/blackrose-gg/guild-system/middleware"
	"github.com/blackrose-gg/guild-system/services"
	"github.com/go-chi/chi/v5"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bracketService services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bracketService}
}

func (h *BracketHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Mode     string                   `json:"mode"`
		Size     int                      `json:"size,omitempty"`
		Pairings []services.CustomPairing `json:"pairings,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contextID := chi.URLParam(r, "contextID")
	actor := middleware.CurrentUser(r)

	var matches interface{}
	var err error
	switch input.Mode {
	case "standard":
		matches, err = h.bracketService.InitializeStandard(r.Context(), actor, contextID, input.Size)
	case "custom":
		matches, err = h.bracketService.InitializeCustom(r.Context(), actor, contextID, input.Pairings)
	default:
		badRequestResponse(w, r, errors.New("mode must be standard or custom"))
		return
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) Reset(w http.ResponseWriter, r *http.Request) {
	contextID := chi.URLParam(r, "contextID")
	if err := h.bracketService.ResetBracket(r.Context(), middleware.CurrentUser(r), contextID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BracketHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	contextID := chi.URLParam(r, "contextID")
	if err := h.bracketService.ShuffleSeed(r.Context(), middleware.CurrentUser(r), contextID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BracketHandler) DeclareWinner(w http.ResponseWriter, r *http.Request) {
	var input struct {
		WinnerUID string `json:"winner_uid"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.WinnerUID == "" {
		badRequestResponse(w, r, errors.New("winner_uid is required"))
		return
	}

	contextID := chi.URLParam(r, "contextID")
	matchID, err := urlParamInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	err = h.bracketService.DeclareWinner(r.Context(), middleware.CurrentUser(r), contextID, matchID, input.WinnerUID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BracketHandler) ClearSlot(w http.ResponseWriter, r *http.Request) {
	contextID := chi.URLParam(r, "contextID")
	matchID, err := urlParamInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	slot, err := urlParamInt(r, "slot")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	err = h.bracketService.ClearSlot(r.Context(), middleware.CurrentUser(r), contextID, matchID, arena.Slot(slot))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BracketHandler) AssignSlot(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ParticipantID string `json:"participant_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ParticipantID == "" {
		badRequestResponse(w, r, errors.New("participant_id is required"))
		return
	}

	contextID := chi.URLParam(r, "contextID")
	matchID, err := urlParamInt(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	slot, err := urlParamInt(r, "slot")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	err = h.bracketService.AssignSlot(r.Context(), middleware.CurrentUser(r), contextID, matchID, arena.Slot(slot), input.ParticipantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
