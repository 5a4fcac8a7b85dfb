// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/dotvote/cliparse"
	"github.com/danielhkuo/dotvote/middleware"
	"github.com/danielhkuo/dotvote/models"
	"github.com/danielhkuo/dotvote/voting"
)

type SessionHandler struct {
	engine *voting.Engine
	cfg    cliparse.Config
}

func NewSessionHandler(engine *voting.Engine, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{engine: engine, cfg: cfg}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	session, err := h.engine.Sessions.CreateSession(r.Context(), voting.CreateSessionInput{
		ProjectRef:      req.ProjectRef,
		BoardRef:        req.BoardRef,
		Name:            req.Name,
		MaxVotesPerUser: req.MaxVotesPerUser,
		SilentMode:      req.SilentMode,
	}, callerOf(r, h.cfg.IdentityHeader))
	if err != nil {
		writeError(w, err, "create session")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, session)
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	summary, err := h.engine.Sessions.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "get session")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}

// StartVoting handles POST /sessions/{id}/start
func (h *SessionHandler) StartVoting(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "start voting", h.engine.Sessions.StartVoting)
}

// Reveal handles POST /sessions/{id}/reveal
func (h *SessionHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reveal session", h.engine.Sessions.Reveal)
}

// End handles POST /sessions/{id}/end
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "end session", h.engine.Sessions.End)
}

type transitionFunc func(ctx context.Context, sessionID, actor string) (models.Session, error)

func (h *SessionHandler) transition(w http.ResponseWriter, r *http.Request, op string, fn transitionFunc) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorCodeResponse(w, http.StatusBadRequest, CodeInvalidArgument, "session_id is required")
		return
	}

	session, err := fn(r.Context(), sessionID, callerOf(r, h.cfg.IdentityHeader))
	if err != nil {
		writeError(w, err, op)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, session)
}

// SetSilentMode handles POST /sessions/{id}/silent-mode
func (h *SessionHandler) SetSilentMode(w http.ResponseWriter, r *http.Request) {
	var req models.SilentModeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	session, err := h.engine.Sessions.ToggleSilentMode(r.Context(), r.PathValue("id"), callerOf(r, h.cfg.IdentityHeader), req.SilentMode)
	if err != nil {
		writeError(w, err, "toggle silent mode")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, session)
}

// ListBoardSessions handles GET /boards/{boardRef}/sessions
func (h *SessionHandler) ListBoardSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.engine.Sessions.ListActiveSessions(r.Context(), r.PathValue("boardRef"))
	if err != nil {
		writeError(w, err, "list board sessions")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionListResponse{Sessions: sessions})
}

// ListProjectSessions handles GET /projects/{projectRef}/sessions
func (h *SessionHandler) ListProjectSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.engine.Sessions.ListProjectSessions(r.Context(), r.PathValue("projectRef"))
	if err != nil {
		writeError(w, err, "list project sessions")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionListResponse{Sessions: sessions})
}

// History handles GET /boards/{boardRef}/history
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	boardRef := r.PathValue("boardRef")
	items, err := h.engine.Sessions.History(r.Context(), boardRef, callerOf(r, h.cfg.IdentityHeader))
	if err != nil {
		writeError(w, err, "load history")
		return
	}

	slog.Debug("history loaded", "board_ref", boardRef, "count", len(items))
	middleware.JSONResponse(w, http.StatusOK, models.HistoryResponse{Items: items})
}
