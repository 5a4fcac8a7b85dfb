// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/dotvote/events"
	"github.com/danielhkuo/dotvote/voting"
)

type SubscriptionHandler struct {
	engine *voting.Engine
	hub    *events.Hub
}

func NewSubscriptionHandler(engine *voting.Engine, hub *events.Hub) *SubscriptionHandler {
	return &SubscriptionHandler{engine: engine, hub: hub}
}

// Subscribe handles GET /sessions/{id}/subscribe
//
// The connection receives invalidation events only; clients refetch their
// own filtered views after each one.
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if _, err := h.engine.Sessions.GetSession(r.Context(), sessionID); err != nil {
		writeError(w, err, "load session")
		return
	}

	// The upgrader has already answered the request when this fails.
	if err := events.ServeWS(h.hub, w, r, sessionID); err != nil {
		slog.Warn("subscription failed", "session_id", sessionID, "error", err)
	}
}
