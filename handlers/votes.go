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

type VoteHandler struct {
	engine *voting.Engine
	cfg    cliparse.Config
}

func NewVoteHandler(engine *voting.Engine, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{engine: engine, cfg: cfg}
}

// PlaceVote handles POST /sessions/{id}/votes
//
// A placement over quota is not an error: the response is 200 with
// accepted=false and reason "quota_exceeded". New dots answer 201, replays 200.
func (h *VoteHandler) PlaceVote(w http.ResponseWriter, r *http.Request) {
	var req models.PlaceVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	out, err := h.engine.Votes.PlaceVote(r.Context(), voting.PlaceVoteInput{
		SessionID:  r.PathValue("id"),
		VoteID:     req.VoteID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Position:   req.Position,
		Color:      req.Color,
	}, callerOf(r, h.cfg.IdentityHeader))
	if err != nil {
		writeError(w, err, "place vote")
		return
	}

	resp := models.PlaceVoteResponse{
		Accepted:       out.Accepted,
		Replayed:       out.Replayed,
		RemainingQuota: out.RemainingQuota,
	}
	switch {
	case out.QuotaExceeded:
		resp.Reason = ReasonQuotaExceeded
		middleware.JSONResponse(w, http.StatusOK, resp)
	case out.Replayed:
		resp.Vote = &out.Vote
		middleware.JSONResponse(w, http.StatusOK, resp)
	default:
		resp.Vote = &out.Vote
		middleware.JSONResponse(w, http.StatusCreated, resp)
	}
}

// MoveVote handles PATCH /votes/{voteID}
func (h *VoteHandler) MoveVote(w http.ResponseWriter, r *http.Request) {
	var req models.MoveVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	vote, err := h.engine.Votes.MoveVote(r.Context(), voting.MoveVoteInput{
		VoteID:     r.PathValue("voteID"),
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Position:   req.Position,
	}, callerOf(r, h.cfg.IdentityHeader))
	if err != nil {
		writeError(w, err, "move vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, vote)
}

// RemoveVote handles DELETE /votes/{voteID}
func (h *VoteHandler) RemoveVote(w http.ResponseWriter, r *http.Request) {
	vote, err := h.engine.Votes.RemoveVote(r.Context(), r.PathValue("voteID"), callerOf(r, h.cfg.IdentityHeader))
	if err != nil {
		writeError(w, err, "remove vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RemoveVoteResponse{VoteID: vote.ID, Removed: true})
}
