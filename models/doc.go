// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - CreateSessionRequest: project_ref, board_ref, name, max_votes_per_user, silent_mode
  - SilentModeRequest: silent_mode
  - PlaceVoteRequest: vote_id (optional), target_type, target_id, position, color
  - MoveVoteRequest: target_type, target_id, position

# Response Types

  - PlaceVoteResponse: accepted, reason, replayed, vote, remaining_quota
  - RemoveVoteResponse, SessionListResponse, VoteListResponse, HistoryResponse
  - ErrorResponse: error, message, code

A placement refused for quota is not an error: PlaceVoteResponse carries
accepted=false and reason "quota_exceeded".

# Domain Types

  - Session: voting session metadata and lifecycle phase
  - SessionSummary: session plus vote and participant counts
  - Vote: a single dot with its owner, target, and ordering key
  - TargetResult: per-target totals, rank, and visible vote details
  - SessionResults: ranked targets plus the caller's quota usage
  - ResultSnapshot: immutable final ranking written when a session ends
  - HistoryItem: a completed session with its snapshot

# Constants

Phases:

	PhaseSetup     = "setup"
	PhaseVoting    = "voting"
	PhaseRevealed  = "revealed"
	PhaseCompleted = "completed"

Target types:

	TargetGroup   = "group"
	TargetInsight = "insight"
*/
package models
