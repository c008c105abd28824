package handlers

import (
	"net/http"
	"strconv"

	"github.com/blackrose-gg/guild-system/repositories"
)

type AuditHandler struct {
	auditRepo repositories.AuditRepository
}

func NewAuditHandler(auditRepo repositories.AuditRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// ListRecent returns the latest manager actions, admin-only via routing.
func (h *AuditHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	entries, err := h.auditRepo.ListRecent(r.Context(), limit)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"audit": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
