// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements dot-voting sessions.

A session walks a fixed phase sequence:

	setup -> voting -> revealed -> completed

Only the creator drives transitions or toggles silent mode. Participants
place dots (votes) on board targets until the session is revealed; each
participant is limited to max_votes_per_user dots.

# Components

  - SessionManager: creation, phase transitions, silent mode, listings, history
  - VoteStore: place, move, and remove dots under the quota
  - ResultAggregator: visibility-filtered reads and ranked results
  - Resolve: the visibility rule, recomputed on every read

Build them together with NewEngine:

	engine := voting.NewEngine(conn, db.SQLite, hub)
	outcome, err := engine.Votes.PlaceVote(ctx, in, caller)

# Consistency

Every mutation is one transaction run through db.WithTx. Vote writes first
advance the session clock with a phase-guarded UPDATE, which locks the
session row and yields the ordering key. Placement then reserves quota with
a conditional increment on the (session, owner) row of vote_quota and
inserts the vote. A refused reservation rolls the transaction back and is
reported as PlaceOutcome.QuotaExceeded, not as an error.

Phase transitions are compare-and-set UPDATEs guarded by id, creator, and
expected phase. Ending a session stores the final ranking in
result_snapshot within the same transaction.

# Errors

Failures are sentinel errors matched with errors.Is:

	ErrAuthenticationRequired, ErrNotAuthorized, ErrSessionNotFound,
	ErrInvalidPhaseTransition, ErrSessionClosed, ErrVoteNotFound,
	ErrInvalidArgument

# Notifications

Committed writes are published to a Notifier as Change values. Changes
name the session and vote but never the owner.
*/
package voting
