// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the dotvote API server.

dotvote runs dot-voting sessions on collaborative boards. A facilitator
opens a session, participants spend a fixed number of dots on groups and
insights, and the facilitator reveals and ends the session. In silent mode
nobody sees anyone else's dots until the reveal.

# Starting the Server

The server reads flags, then a .env file, then the environment:

	DATABASE_URL=dotvote.db go run .

Or against Postgres:

	go run . -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string or SQLite file path

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - IDENTITY_HEADER (-identity-header): caller identity header (default: X-User-ID)
  - LOG_LEVEL (-log-level): debug, info, warn, error (default: info)
  - LOG_FILE (-log-file): also write logs to a rotated file

# Architecture

  - voting: sessions, quota-checked vote store, visibility, results
  - events: per-session invalidation hub and websocket stream
  - handlers: HTTP request handlers (sessions, votes, results, subscriptions)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, identity, JSON helpers
  - models: Request/response types
  - auth: Caller identity and id generation
  - db: Connections, schema, transactions
  - logging: slog setup with optional file rotation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
