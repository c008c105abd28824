package handlers

import (
	"net/http"

	"github.com/blackrose-gg/guild-system/middleware"
	"github.com/blackrose-gg/guild-system/services"
	"github.com/go-chi/chi/v5"
)

type ContextHandler struct {
	contextService services.ContextService
}

func NewContextHandler(contextService services.ContextService) *ContextHandler {
	return &ContextHandler{contextService: contextService}
}

func (h *ContextHandler) ListGuilds(w http.ResponseWriter, r *http.Request) {
	guilds, err := h.contextService.ListGuilds(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"guilds": guilds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ContextHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.contextService.ListCustomTournaments(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ContextHandler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.contextService.CreateCustomTournament(r.Context(), middleware.CurrentUser(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ContextHandler) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.contextService.DeleteCustomTournament(r.Context(), middleware.CurrentUser(r), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContextHandler) UpdateGuildFlags(w http.ResponseWriter, r *http.Request) {
	var input struct {
		HasGrandFinale bool `json:"has_grand_finale"`
		HideRankings   bool `json:"hide_rankings"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	guildID := chi.URLParam(r, "guildID")
	err := h.contextService.UpdateGuildFlags(r.Context(), middleware.CurrentUser(r), guildID, input.HasGrandFinale, input.HideRankings)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetView serves the full context view-model a freshly opened window renders
// from, for either context kind.
func (h *ContextHandler) GetView(w http.ResponseWriter, r *http.Request) {
	contextID := chi.URLParam(r, "contextID")
	view, err := h.contextService.GetContextView(r.Context(), contextID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
