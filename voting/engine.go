// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"database/sql"

	"github.com/danielhkuo/dotvote/db"
)

// Engine bundles the components that share one database.
type Engine struct {
	Sessions *SessionManager
	Votes    *VoteStore
	Results  *ResultAggregator
}

// NewEngine wires the core components. A nil notifier discards changes.
func NewEngine(conn *sql.DB, dialect db.Dialect, notifier Notifier) *Engine {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	st := store{conn: conn, dialect: dialect}
	return &Engine{
		Sessions: &SessionManager{store: st, notifier: notifier},
		Votes:    &VoteStore{store: st, notifier: notifier},
		Results:  &ResultAggregator{store: st},
	}
}
