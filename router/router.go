// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/dotvote/cliparse"
	"github.com/danielhkuo/dotvote/events"
	"github.com/danielhkuo/dotvote/handlers"
	"github.com/danielhkuo/dotvote/middleware"
	"github.com/danielhkuo/dotvote/voting"
)

func NewRouter(engine *voting.Engine, hub *events.Hub, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(engine, cfg)
	voteHandler := handlers.NewVoteHandler(engine, cfg)
	resultsHandler := handlers.NewResultsHandler(engine, cfg)
	subscriptionHandler := handlers.NewSubscriptionHandler(engine, hub)

	// Every API route needs a caller identity
	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.RequireIdentity(cfg.IdentityHeader, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session lifecycle (creator operations)
	handle("POST /sessions", sessionHandler.CreateSession)
	handle("GET /sessions/{id}", sessionHandler.GetSession)
	handle("POST /sessions/{id}/start", sessionHandler.StartVoting)
	handle("POST /sessions/{id}/reveal", sessionHandler.Reveal)
	handle("POST /sessions/{id}/end", sessionHandler.End)
	handle("POST /sessions/{id}/silent-mode", sessionHandler.SetSilentMode)

	// Listings
	handle("GET /boards/{boardRef}/sessions", sessionHandler.ListBoardSessions)
	handle("GET /boards/{boardRef}/history", sessionHandler.History)
	handle("GET /projects/{projectRef}/sessions", sessionHandler.ListProjectSessions)

	// Dots
	handle("POST /sessions/{id}/votes", voteHandler.PlaceVote)
	handle("PATCH /votes/{voteID}", voteHandler.MoveVote)
	handle("DELETE /votes/{voteID}", voteHandler.RemoveVote)

	// Caller-filtered reads
	handle("GET /sessions/{id}/votes", resultsHandler.VisibleVotes)
	handle("GET /sessions/{id}/my-votes", resultsHandler.MyVotes)
	handle("GET /sessions/{id}/results", resultsHandler.GetResults)
	handle("GET /sessions/{id}/targets/{targetID}/votes", resultsHandler.TargetVotes)

	// Push invalidations
	handle("GET /sessions/{id}/subscribe", subscriptionHandler.Subscribe)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("dotvote API v1"))
	})

	return mux
}
