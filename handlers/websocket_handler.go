package handlers

import (
	"log/slog"
	"net/http"

	"github.com/blackrose-gg/guild-system/arena"
	"github.com/blackrose-gg/guild-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict Origin to the deployed frontend host.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub            *arena.Hub
	contextService services.ContextService
	logger         *slog.Logger
}

func NewWebSocketHandler(hub *arena.Hub, contextService services.ContextService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, contextService: contextService, logger: logger}
}

// ServeWs subscribes the connecting window to its context's room. Switching
// contexts client-side means closing this socket and opening a new one, which
// is what tears the old room subscription down.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	contextID := chi.URLParam(r, "contextID")
	if contextID == "" {
		http.Error(w, "missing contextID", http.StatusBadRequest)
		return
	}

	if _, err := h.contextService.Lookup(r.Context(), contextID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			slog.String("context_id", contextID), slog.Any("error", err))
		return
	}

	h.hub.Subscribe(conn, contextID)
}
