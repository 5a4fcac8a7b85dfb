// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Phase is the lifecycle state of a voting session.
type Phase string

// Session phase constants
const (
	PhaseSetup     Phase = "setup"
	PhaseVoting    Phase = "voting"
	PhaseRevealed  Phase = "revealed"
	PhaseCompleted Phase = "completed"
)

// TargetType is the kind of board item a dot is placed on.
type TargetType string

// Target type constants
const (
	TargetGroup   TargetType = "group"
	TargetInsight TargetType = "insight"
)

// Valid reports whether t is a known target type.
func (t TargetType) Valid() bool {
	return t == TargetGroup || t == TargetInsight
}

// Request types

type CreateSessionRequest struct {
	ProjectRef      string `json:"project_ref"`
	BoardRef        string `json:"board_ref"`
	Name            string `json:"name"`
	MaxVotesPerUser int    `json:"max_votes_per_user"`
	SilentMode      bool   `json:"silent_mode"`
}

type SilentModeRequest struct {
	SilentMode bool `json:"silent_mode"`
}

// VoteID is optional; clients that retry a placement send the same id.
type PlaceVoteRequest struct {
	VoteID     string     `json:"vote_id,omitempty"`
	TargetType TargetType `json:"target_type"`
	TargetID   string     `json:"target_id"`
	Position   Position   `json:"position"`
	Color      string     `json:"color,omitempty"`
}

// An empty TargetID keeps the dot on its current target.
type MoveVoteRequest struct {
	TargetType TargetType `json:"target_type,omitempty"`
	TargetID   string     `json:"target_id,omitempty"`
	Position   Position   `json:"position"`
}

// Response types

type PlaceVoteResponse struct {
	Accepted       bool   `json:"accepted"`
	Reason         string `json:"reason,omitempty"`
	Replayed       bool   `json:"replayed,omitempty"`
	Vote           *Vote  `json:"vote,omitempty"`
	RemainingQuota int    `json:"remaining_quota"`
}

type RemoveVoteResponse struct {
	VoteID  string `json:"vote_id"`
	Removed bool   `json:"removed"`
}

type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
}

type VoteListResponse struct {
	Votes []Vote `json:"votes"`
}

type HistoryResponse struct {
	Items []HistoryItem `json:"items"`
}

// Domain types

type Session struct {
	ID              string    `json:"id"`
	ProjectRef      string    `json:"project_ref"`
	BoardRef        string    `json:"board_ref"`
	Name            string    `json:"name"`
	MaxVotesPerUser int       `json:"max_votes_per_user"`
	Phase           Phase     `json:"phase"`
	SilentMode      bool      `json:"silent_mode"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type SessionSummary struct {
	Session          Session `json:"session"`
	VoteCount        int     `json:"vote_count"`
	ParticipantCount int     `json:"participant_count"`
}

// Position is advisory placement on the board; the server never interprets it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Vote struct {
	ID         string     `json:"id"`
	SessionID  string     `json:"session_id"`
	OwnerID    string     `json:"owner_id"`
	TargetType TargetType `json:"target_type"`
	TargetID   string     `json:"target_id"`
	Weight     int        `json:"weight"`
	Position   Position   `json:"position"`
	Color      string     `json:"color"`
	OrderKey   int64      `json:"order_key"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Result types

type VoteDetail struct {
	VoteID    string    `json:"vote_id"`
	OwnerID   string    `json:"owner_id"`
	Color     string    `json:"color"`
	Position  Position  `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type TargetResult struct {
	TargetID    string       `json:"target_id"`
	TargetType  TargetType   `json:"target_type"`
	TotalVotes  int          `json:"total_votes"`
	HiddenVotes int          `json:"hidden_votes"`
	Rank        int          `json:"rank"` // 1-indexed ranking
	RankLabel   string       `json:"rank_label"`
	FirstVoteAt time.Time    `json:"first_vote_at"`
	VoteDetails []VoteDetail `json:"vote_details"`
}

type SessionResults struct {
	Session          Session        `json:"session"`
	PerTarget        []TargetResult `json:"per_target"`
	TotalVotes       int            `json:"total_votes"`
	MyVotesUsed      int            `json:"my_votes_used"`
	MyRemainingQuota int            `json:"my_remaining_quota"`
}

type ResultSnapshot struct {
	ID               string         `json:"id"`
	SessionID        string         `json:"session_id"`
	BoardRef         string         `json:"board_ref"`
	ComputedAt       time.Time      `json:"computed_at"`
	Rankings         []TargetResult `json:"rankings"`
	TotalVotes       int            `json:"total_votes"`
	ParticipantCount int            `json:"participant_count"`
	InputsHash       string         `json:"inputs_hash"` // Hash of all vote IDs for verification
}

type HistoryItem struct {
	Session  Session        `json:"session"`
	Snapshot ResultSnapshot `json:"snapshot"`
	SavedAgo string         `json:"saved_ago"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
