// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/dotvote/db"
	"github.com/danielhkuo/dotvote/models"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// store carries the connection and dialect shared by the core components.
type store struct {
	conn    *sql.DB
	dialect db.Dialect
}

func (s store) q(query string) string {
	return db.Rebind(s.dialect, query)
}

const sessionColumns = `id, project_ref, board_ref, name, max_votes_per_user, phase, silent_mode, created_by, created_at, updated_at`

const voteColumns = `id, session_id, owner_id, target_type, target_id, weight, pos_x, pos_y, color, order_key, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (models.Session, error) {
	var s models.Session
	err := row.Scan(
		&s.ID, &s.ProjectRef, &s.BoardRef, &s.Name, &s.MaxVotesPerUser,
		&s.Phase, &s.SilentMode, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func scanVote(row scanner) (models.Vote, error) {
	var v models.Vote
	err := row.Scan(
		&v.ID, &v.SessionID, &v.OwnerID, &v.TargetType, &v.TargetID, &v.Weight,
		&v.Position.X, &v.Position.Y, &v.Color, &v.OrderKey, &v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

func (s store) getSession(ctx context.Context, q queryer, id string) (models.Session, error) {
	session, err := scanSession(q.QueryRowContext(ctx,
		s.q(`SELECT `+sessionColumns+` FROM voting_session WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

func (s store) listSessions(ctx context.Context, q queryer, where string, args ...any) ([]models.Session, error) {
	rows, err := q.QueryContext(ctx,
		s.q(`SELECT `+sessionColumns+` FROM voting_session WHERE `+where+` ORDER BY created_at DESC, id`), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

func (s store) getVote(ctx context.Context, q queryer, id string) (models.Vote, error) {
	vote, err := scanVote(q.QueryRowContext(ctx,
		s.q(`SELECT `+voteColumns+` FROM vote WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, ErrVoteNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to load vote: %w", err)
	}
	return vote, nil
}

// listVotes returns votes of a session in placement order, optionally
// narrowed by an extra condition on the vote table.
func (s store) listVotes(ctx context.Context, q queryer, sessionID, where string, args ...any) ([]models.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM vote WHERE session_id = ?`
	if where != "" {
		query += ` AND ` + where
	}
	query += ` ORDER BY order_key, id`

	rows, err := q.QueryContext(ctx, s.q(query), append([]any{sessionID}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}
	return votes, nil
}

// usedQuota returns the committed weight of owner in a session.
func (s store) usedQuota(ctx context.Context, q queryer, sessionID, ownerID string) (int, error) {
	var used int
	err := q.QueryRowContext(ctx,
		s.q(`SELECT used FROM vote_quota WHERE session_id = ? AND owner_id = ?`),
		sessionID, ownerID).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read quota: %w", err)
	}
	return used, nil
}

// tick advances the session clock while the session still accepts vote
// writes. The UPDATE takes the session row lock, which serializes every
// vote mutation of one session behind it. The returned clock value is the
// ordering key for the write.
func (s store) tick(ctx context.Context, tx *sql.Tx, sessionID string, now any) (clock int64, maxVotes int, err error) {
	err = tx.QueryRowContext(ctx, s.q(`
		UPDATE voting_session
		SET clock = clock + 1, updated_at = ?
		WHERE id = ? AND phase IN ('setup', 'voting')
		RETURNING clock, max_votes_per_user
	`), now, sessionID).Scan(&clock, &maxVotes)
	if errors.Is(err, sql.ErrNoRows) {
		if _, lookupErr := s.getSession(ctx, tx, sessionID); lookupErr != nil {
			return 0, 0, lookupErr
		}
		return 0, 0, ErrSessionClosed
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to advance session clock: %w", err)
	}
	return clock, maxVotes, nil
}
