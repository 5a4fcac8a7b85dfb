// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the dotvote API.

# Handler Types

Each handler is a struct holding the voting engine and config:

  - SessionHandler: session lifecycle, listings, and board history
  - VoteHandler: placing, moving, and removing dots
  - ResultsHandler: caller-filtered vote lists and ranked results
  - SubscriptionHandler: websocket invalidation stream

Handlers are created via constructor functions:

	engine := voting.NewEngine(conn, dialect, hub)
	sessionHandler := handlers.NewSessionHandler(engine, cfg)

# Caller Identity

Every route runs behind middleware.RequireIdentity, which stores the caller
on the request context. Handlers pass it to the engine unchanged; the engine
decides what the caller may see and do.

# Session Lifecycle

	POST /sessions                   → CreateSession (phase setup)
	POST /sessions/{id}/start        → StartVoting (setup → voting)
	POST /sessions/{id}/reveal       → Reveal (voting → revealed)
	POST /sessions/{id}/end          → End (revealed → completed, saves snapshot)
	POST /sessions/{id}/silent-mode  → SetSilentMode (voting only)

Only the creator may drive a session.

# Errors

Engine errors map onto statuses with a machine-readable code:

	ErrAuthenticationRequired              → 401 authentication_required
	ErrNotAuthorized                       → 403 not_authorized
	ErrSessionNotFound, ErrVoteNotFound    → 404
	ErrInvalidPhaseTransition              → 409 invalid_phase_transition
	ErrSessionClosed                       → 409 session_closed
	ErrInvalidArgument, malformed JSON     → 400 invalid_argument

A placement over quota is not an error. It answers 200 with accepted=false
and reason "quota_exceeded".
*/
package handlers
