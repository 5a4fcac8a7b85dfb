// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is written in the subset shared by PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// DropSchema removes every table created by CreateSchema.
func DropSchema(db *sql.DB) error {
	_, err := db.Exec(`
		DROP TABLE IF EXISTS result_snapshot;
		DROP TABLE IF EXISTS vote_quota;
		DROP TABLE IF EXISTS vote;
		DROP TABLE IF EXISTS voting_session;
	`)
	if err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}

const schema = `
-- Voting sessions
CREATE TABLE IF NOT EXISTS voting_session (
    id TEXT PRIMARY KEY,
    project_ref TEXT NOT NULL,
    board_ref TEXT NOT NULL,
    name TEXT NOT NULL,
    max_votes_per_user INTEGER NOT NULL CHECK (max_votes_per_user > 0),
    phase TEXT NOT NULL DEFAULT 'setup' CHECK (phase IN ('setup', 'voting', 'revealed', 'completed')),
    silent_mode BOOLEAN NOT NULL DEFAULT FALSE,
    clock BIGINT NOT NULL DEFAULT 0,
    created_by TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_voting_session_board ON voting_session(board_ref);
CREATE INDEX IF NOT EXISTS idx_voting_session_project ON voting_session(project_ref);

-- Votes (dots)
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES voting_session(id) ON DELETE CASCADE,
    owner_id TEXT NOT NULL,
    target_type TEXT NOT NULL CHECK (target_type IN ('group', 'insight')),
    target_id TEXT NOT NULL,
    weight INTEGER NOT NULL DEFAULT 1 CHECK (weight > 0),
    pos_x REAL NOT NULL DEFAULT 0,
    pos_y REAL NOT NULL DEFAULT 0,
    color TEXT NOT NULL DEFAULT '',
    order_key BIGINT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vote_session_owner ON vote(session_id, owner_id);
CREATE INDEX IF NOT EXISTS idx_vote_session_target ON vote(session_id, target_id);

-- Committed weight per (session, owner); the quota check is a
-- conditional increment on this row.
CREATE TABLE IF NOT EXISTS vote_quota (
    session_id TEXT NOT NULL REFERENCES voting_session(id) ON DELETE CASCADE,
    owner_id TEXT NOT NULL,
    used INTEGER NOT NULL DEFAULT 0 CHECK (used >= 0),
    PRIMARY KEY (session_id, owner_id)
);

-- Result snapshots, written once when a session completes
CREATE TABLE IF NOT EXISTS result_snapshot (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL UNIQUE REFERENCES voting_session(id) ON DELETE CASCADE,
    board_ref TEXT NOT NULL,
    computed_at TIMESTAMP NOT NULL,
    payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_result_snapshot_board ON result_snapshot(board_ref);
`
