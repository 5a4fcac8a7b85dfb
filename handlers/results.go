// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/dotvote/cliparse"
	"github.com/danielhkuo/dotvote/middleware"
	"github.com/danielhkuo/dotvote/models"
	"github.com/danielhkuo/dotvote/voting"
)

// ResultsHandler serves read views. Every response is filtered for the
// caller, so two callers may see different vote lists for the same session.
type ResultsHandler struct {
	engine *voting.Engine
	cfg    cliparse.Config
}

func NewResultsHandler(engine *voting.Engine, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{engine: engine, cfg: cfg}
}

// VisibleVotes handles GET /sessions/{id}/votes
func (h *ResultsHandler) VisibleVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.engine.Results.VisibleVotes(r.Context(), r.PathValue("id"), callerOf(r, h.cfg.IdentityHeader))
	if err != nil {
		writeError(w, err, "list votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteListResponse{Votes: votes})
}

// MyVotes handles GET /sessions/{id}/my-votes
func (h *ResultsHandler) MyVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.engine.Results.MyVotes(r.Context(), r.PathValue("id"), callerOf(r, h.cfg.IdentityHeader))
	if err != nil {
		writeError(w, err, "list my votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteListResponse{Votes: votes})
}

// TargetVotes handles GET /sessions/{id}/targets/{targetID}/votes
func (h *ResultsHandler) TargetVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.engine.Results.TargetVotes(r.Context(), r.PathValue("id"), r.PathValue("targetID"), callerOf(r, h.cfg.IdentityHeader))
	if err != nil {
		writeError(w, err, "list target votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteListResponse{Votes: votes})
}

// GetResults handles GET /sessions/{id}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.engine.Results.SessionResults(r.Context(), r.PathValue("id"), callerOf(r, h.cfg.IdentityHeader))
	if err != nil {
		writeError(w, err, "compute results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
