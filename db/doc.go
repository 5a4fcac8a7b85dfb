// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens connections, creates the schema, and runs transactions.

# Dialects

Two databases are supported behind database/sql:

  - Postgres (github.com/lib/pq) for deployments
  - SQLite (modernc.org/sqlite, pure Go) for single-node use and tests

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	conn, err := db.Open(dialect, cfg.DatabaseURL)

Queries are written with ? placeholders and passed through Rebind, which
rewrites them to $1, $2, ... for Postgres.

# Transactions

WithTx commits fn's work or rolls it back, and replays the whole
transaction on serialization failures, deadlocks, and busy SQLite locks:

	err := db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		// every statement goes through tx
		return nil
	})

# Tables

  - voting_session: session metadata, phase, silent mode, logical clock
  - vote: one row per dot
  - vote_quota: committed weight per (session, owner)
  - result_snapshot: ranking saved when a session completes

# Relationships

	voting_session 1──* vote
	voting_session 1──* vote_quota
	voting_session 1──1 result_snapshot

All foreign keys use ON DELETE CASCADE. CreateSchema is idempotent.
*/
package db
