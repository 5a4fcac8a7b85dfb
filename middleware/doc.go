// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs completion with method, path, status, and duration_ms. The wrapped
writer supports hijacking, so websocket routes can be logged too.

# Caller Identity

Routes that act on behalf of a participant require an identity:

	mux.HandleFunc("POST /sessions", middleware.WithLogging(
		middleware.RequireIdentity(cfg.IdentityHeader, h.CreateSession)))

Requests without one get 401 with code "authentication_required". The
handler reads the identity with auth.CallerFromContext.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(cfg.IdentityHeader)(mux),
	}

Allows GET, POST, PATCH, DELETE, OPTIONS with Content-Type, Authorization,
and the identity header.

# JSON Helpers

JSON is encoded and decoded with goccy/go-json:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ErrorCodeResponse(w, http.StatusConflict, "session_closed", "message")

	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

GetClientIP returns the original client IP (X-Forwarded-For, X-Real-IP,
then RemoteAddr) for request logs.
*/
package middleware
