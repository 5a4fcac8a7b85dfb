// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/dotvote/auth"
	"github.com/danielhkuo/dotvote/db"
	"github.com/danielhkuo/dotvote/models"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
)

// CreateSessionInput holds the parameters of a new voting session.
type CreateSessionInput struct {
	ProjectRef      string
	BoardRef        string
	Name            string
	MaxVotesPerUser int
	SilentMode      bool
}

func (in CreateSessionInput) validate() error {
	switch {
	case strings.TrimSpace(in.ProjectRef) == "":
		return fmt.Errorf("%w: project_ref is required", ErrInvalidArgument)
	case strings.TrimSpace(in.BoardRef) == "":
		return fmt.Errorf("%w: board_ref is required", ErrInvalidArgument)
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	case in.MaxVotesPerUser <= 0:
		return fmt.Errorf("%w: max_votes_per_user must be positive", ErrInvalidArgument)
	}
	return nil
}

// SessionManager owns session records and the phase state machine.
type SessionManager struct {
	store
	notifier Notifier
}

// CreateSession stores a new session in the setup phase.
func (m *SessionManager) CreateSession(ctx context.Context, in CreateSessionInput, creator string) (models.Session, error) {
	if creator == "" {
		return models.Session{}, ErrAuthenticationRequired
	}
	if err := in.validate(); err != nil {
		return models.Session{}, err
	}

	now := time.Now().UTC()
	session := models.Session{
		ID:              auth.GenerateID(),
		ProjectRef:      strings.TrimSpace(in.ProjectRef),
		BoardRef:        strings.TrimSpace(in.BoardRef),
		Name:            strings.TrimSpace(in.Name),
		MaxVotesPerUser: in.MaxVotesPerUser,
		Phase:           models.PhaseSetup,
		SilentMode:      in.SilentMode,
		CreatedBy:       creator,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := m.conn.ExecContext(ctx, m.q(`
		INSERT INTO voting_session (id, project_ref, board_ref, name, max_votes_per_user, phase, silent_mode, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), session.ID, session.ProjectRef, session.BoardRef, session.Name, session.MaxVotesPerUser,
		string(session.Phase), session.SilentMode, session.CreatedBy, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("session created", "session_id", session.ID, "board_ref", session.BoardRef,
		"max_votes_per_user", session.MaxVotesPerUser, "silent_mode", session.SilentMode)
	return session, nil
}

// StartVoting moves a session from setup to voting.
func (m *SessionManager) StartVoting(ctx context.Context, sessionID, actor string) (models.Session, error) {
	return m.transition(ctx, sessionID, actor, models.PhaseSetup, models.PhaseVoting)
}

// Reveal moves a session from voting to revealed. Every vote becomes
// visible to every caller without touching the vote rows.
func (m *SessionManager) Reveal(ctx context.Context, sessionID, actor string) (models.Session, error) {
	return m.transition(ctx, sessionID, actor, models.PhaseVoting, models.PhaseRevealed)
}

// End moves a session from revealed to completed and records the final
// ranking in the same transaction.
func (m *SessionManager) End(ctx context.Context, sessionID, actor string) (models.Session, error) {
	return m.transition(ctx, sessionID, actor, models.PhaseRevealed, models.PhaseCompleted)
}

func (m *SessionManager) transition(ctx context.Context, sessionID, actor string, from, to models.Phase) (models.Session, error) {
	if actor == "" {
		return models.Session{}, ErrAuthenticationRequired
	}

	var session models.Session
	err := db.WithTx(ctx, m.conn, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		res, err := tx.ExecContext(ctx, m.q(`
			UPDATE voting_session SET phase = ?, updated_at = ?
			WHERE id = ? AND created_by = ? AND phase = ?
		`), string(to), now, sessionID, actor, string(from))
		if err != nil {
			return fmt.Errorf("failed to update phase: %w", err)
		}
		if err := m.checkGuarded(ctx, tx, res, sessionID, actor, from); err != nil {
			return err
		}

		session, err = m.getSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if to == models.PhaseCompleted {
			return m.writeSnapshot(ctx, tx, session, now)
		}
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}

	slog.Info("session phase changed", "session_id", sessionID, "from", from, "to", to)
	m.notifier.Notify(Change{Kind: ChangePhase, SessionID: sessionID, Phase: to})
	return session, nil
}

// ToggleSilentMode sets the silent-mode flag. Only allowed while voting.
func (m *SessionManager) ToggleSilentMode(ctx context.Context, sessionID, actor string, silent bool) (models.Session, error) {
	if actor == "" {
		return models.Session{}, ErrAuthenticationRequired
	}

	var session models.Session
	err := db.WithTx(ctx, m.conn, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, m.q(`
			UPDATE voting_session SET silent_mode = ?, updated_at = ?
			WHERE id = ? AND created_by = ? AND phase = ?
		`), silent, time.Now().UTC(), sessionID, actor, string(models.PhaseVoting))
		if err != nil {
			return fmt.Errorf("failed to update silent mode: %w", err)
		}
		if err := m.checkGuarded(ctx, tx, res, sessionID, actor, models.PhaseVoting); err != nil {
			return err
		}

		session, err = m.getSession(ctx, tx, sessionID)
		return err
	})
	if err != nil {
		return models.Session{}, err
	}

	slog.Info("silent mode changed", "session_id", sessionID, "silent_mode", silent)
	m.notifier.Notify(Change{Kind: ChangeSilentMode, SessionID: sessionID, Phase: session.Phase})
	return session, nil
}

// checkGuarded turns a zero-row guarded UPDATE into the error that explains
// it. Existence is checked first, then the creator, then the phase.
func (m *SessionManager) checkGuarded(ctx context.Context, tx *sql.Tx, res sql.Result, sessionID, actor string, want models.Phase) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n > 0 {
		return nil
	}

	session, err := m.getSession(ctx, tx, sessionID)
	if err != nil {
		return err
	}
	if session.CreatedBy != actor {
		return ErrNotAuthorized
	}
	return fmt.Errorf("%w: session is %s, requires %s", ErrInvalidPhaseTransition, session.Phase, want)
}

type snapshotPayload struct {
	Rankings         []models.TargetResult `json:"rankings"`
	TotalVotes       int                   `json:"total_votes"`
	ParticipantCount int                   `json:"participant_count"`
	InputsHash       string                `json:"inputs_hash"`
}

func (m *SessionManager) writeSnapshot(ctx context.Context, tx *sql.Tx, session models.Session, now time.Time) error {
	votes, err := m.listVotes(ctx, tx, session.ID, "")
	if err != nil {
		return err
	}

	payload := snapshotPayload{
		Rankings:         rankTargets(session, votes, session.CreatedBy),
		TotalVotes:       totalWeight(votes),
		ParticipantCount: countOwners(votes),
		InputsHash:       hashVoteIDs(votes),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx, m.q(`
		INSERT INTO result_snapshot (id, session_id, board_ref, computed_at, payload)
		VALUES (?, ?, ?, ?, ?)
	`), auth.GenerateID(), session.ID, session.BoardRef, now, string(data))
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// hashVoteIDs fingerprints the vote set a snapshot was computed from.
func hashVoteIDs(votes []models.Vote) string {
	h := sha256.New()
	for _, v := range votes {
		h.Write([]byte(v.ID))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GetSession returns a session with its vote and participant counts.
func (m *SessionManager) GetSession(ctx context.Context, sessionID string) (models.SessionSummary, error) {
	session, err := m.getSession(ctx, m.conn, sessionID)
	if err != nil {
		return models.SessionSummary{}, err
	}

	summary := models.SessionSummary{Session: session}
	err = m.conn.QueryRowContext(ctx, m.q(`
		SELECT COUNT(*), COUNT(DISTINCT owner_id) FROM vote WHERE session_id = ?
	`), sessionID).Scan(&summary.VoteCount, &summary.ParticipantCount)
	if err != nil {
		return models.SessionSummary{}, fmt.Errorf("failed to count votes: %w", err)
	}
	return summary, nil
}

// ListActiveSessions returns the sessions of a board that have not ended,
// newest first.
func (m *SessionManager) ListActiveSessions(ctx context.Context, boardRef string) ([]models.Session, error) {
	return m.listSessions(ctx, m.conn, `board_ref = ? AND phase <> ?`, boardRef, string(models.PhaseCompleted))
}

// ListProjectSessions returns every session of a project, newest first.
func (m *SessionManager) ListProjectSessions(ctx context.Context, projectRef string) ([]models.Session, error) {
	return m.listSessions(ctx, m.conn, `project_ref = ?`, projectRef)
}

// History returns the completed sessions of a board with their final
// snapshots, most recently saved first.
func (m *SessionManager) History(ctx context.Context, boardRef, caller string) ([]models.HistoryItem, error) {
	if caller == "" {
		return nil, ErrAuthenticationRequired
	}

	rows, err := m.conn.QueryContext(ctx, m.q(`
		SELECT s.id, s.project_ref, s.board_ref, s.name, s.max_votes_per_user, s.phase, s.silent_mode,
		       s.created_by, s.created_at, s.updated_at, r.id, r.computed_at, r.payload
		FROM result_snapshot r
		JOIN voting_session s ON s.id = r.session_id
		WHERE r.board_ref = ?
		ORDER BY r.computed_at DESC, r.id
	`), boardRef)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	items := []models.HistoryItem{}
	for rows.Next() {
		var (
			s       models.Session
			snap    models.ResultSnapshot
			payload string
		)
		err := rows.Scan(
			&s.ID, &s.ProjectRef, &s.BoardRef, &s.Name, &s.MaxVotesPerUser, &s.Phase, &s.SilentMode,
			&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt, &snap.ID, &snap.ComputedAt, &payload,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}

		var p snapshotPayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot %s: %w", snap.ID, err)
		}
		snap.SessionID = s.ID
		snap.BoardRef = s.BoardRef
		snap.Rankings = p.Rankings
		snap.TotalVotes = p.TotalVotes
		snap.ParticipantCount = p.ParticipantCount
		snap.InputsHash = p.InputsHash

		items = append(items, models.HistoryItem{
			Session:  s,
			Snapshot: snap,
			SavedAgo: humanize.Time(snap.ComputedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return items, nil
}
