// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/dotvote/auth"
	"github.com/danielhkuo/dotvote/middleware"
	"github.com/danielhkuo/dotvote/voting"
)

// Machine-readable error codes sent in models.ErrorResponse.Code
const (
	CodeAuthenticationRequired = "authentication_required"
	CodeNotAuthorized          = "not_authorized"
	CodeSessionNotFound        = "session_not_found"
	CodeVoteNotFound           = "vote_not_found"
	CodeInvalidPhaseTransition = "invalid_phase_transition"
	CodeSessionClosed          = "session_closed"
	CodeInvalidArgument        = "invalid_argument"
	CodeInternal               = "internal"
)

// ReasonQuotaExceeded is the PlaceVoteResponse.Reason for a rejected placement
const ReasonQuotaExceeded = "quota_exceeded"

// writeError maps a voting error onto an HTTP status. Anything unknown is
// logged and reported as a 500.
func writeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, voting.ErrAuthenticationRequired):
		middleware.ErrorCodeResponse(w, http.StatusUnauthorized, CodeAuthenticationRequired, err.Error())
	case errors.Is(err, voting.ErrNotAuthorized):
		middleware.ErrorCodeResponse(w, http.StatusForbidden, CodeNotAuthorized, err.Error())
	case errors.Is(err, voting.ErrSessionNotFound):
		middleware.ErrorCodeResponse(w, http.StatusNotFound, CodeSessionNotFound, err.Error())
	case errors.Is(err, voting.ErrVoteNotFound):
		middleware.ErrorCodeResponse(w, http.StatusNotFound, CodeVoteNotFound, err.Error())
	case errors.Is(err, voting.ErrInvalidPhaseTransition):
		middleware.ErrorCodeResponse(w, http.StatusConflict, CodeInvalidPhaseTransition, err.Error())
	case errors.Is(err, voting.ErrSessionClosed):
		middleware.ErrorCodeResponse(w, http.StatusConflict, CodeSessionClosed, err.Error())
	case errors.Is(err, voting.ErrInvalidArgument):
		middleware.ErrorCodeResponse(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
	default:
		slog.Error("failed to "+op, "error", err)
		middleware.ErrorCodeResponse(w, http.StatusInternalServerError, CodeInternal, "Database error")
	}
}

// invalidJSON reports an unparseable request body
func invalidJSON(w http.ResponseWriter) {
	middleware.ErrorCodeResponse(w, http.StatusBadRequest, CodeInvalidArgument, "Invalid JSON")
}

// callerOf returns the identity stored by middleware.RequireIdentity, falling
// back to reading it from the request.
func callerOf(r *http.Request, header string) string {
	if caller := auth.CallerFromContext(r.Context()); caller != "" {
		return caller
	}
	caller, _ := auth.CallerFromRequest(r, header)
	return caller
}
