// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the dotvote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(engine, hub, cfg)

Every route except /health and / is wrapped in request logging and
middleware.RequireIdentity using cfg.IdentityHeader.

# Endpoints

Health:

	GET /health
	GET /

Session lifecycle (creator only):

	POST /sessions                  - Create session
	GET  /sessions/{id}             - Session with vote and participant counts
	POST /sessions/{id}/start       - Open for voting
	POST /sessions/{id}/reveal      - Show every dot
	POST /sessions/{id}/end         - Complete and save results
	POST /sessions/{id}/silent-mode - Toggle silent mode while voting

Listings:

	GET /boards/{boardRef}/sessions     - Sessions of a board that have not ended
	GET /boards/{boardRef}/history      - Saved results of completed sessions
	GET /projects/{projectRef}/sessions - Every session of a project

Dots:

	POST   /sessions/{id}/votes - Place a dot
	PATCH  /votes/{voteID}      - Move a dot
	DELETE /votes/{voteID}      - Remove a dot

Reads (filtered per caller):

	GET /sessions/{id}/votes                    - Visible dots
	GET /sessions/{id}/my-votes                 - Caller's dots
	GET /sessions/{id}/results                  - Ranked targets
	GET /sessions/{id}/targets/{targetID}/votes - Visible dots on one target

Push:

	GET /sessions/{id}/subscribe - Websocket invalidation stream
*/
package router
