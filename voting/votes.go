// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/dotvote/auth"
	"github.com/danielhkuo/dotvote/db"
	"github.com/danielhkuo/dotvote/models"
)

// voteWeight is the weight of every placement: one dot, one unit of quota.
const voteWeight = 1

// PlaceVoteInput describes a dot placement. VoteID is optional; a client
// that retries a placement with the same id gets the stored vote back
// instead of a second vote.
type PlaceVoteInput struct {
	SessionID  string
	VoteID     string
	TargetType models.TargetType
	TargetID   string
	Position   models.Position
	Color      string
}

func (in PlaceVoteInput) validate() error {
	if !in.TargetType.Valid() {
		return fmt.Errorf("%w: target_type must be group or insight", ErrInvalidArgument)
	}
	if strings.TrimSpace(in.TargetID) == "" {
		return fmt.Errorf("%w: target_id is required", ErrInvalidArgument)
	}
	if in.VoteID != "" {
		if err := auth.ValidateID(in.VoteID); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	}
	return nil
}

// PlaceOutcome is the result of a placement. A placement refused for quota
// is a normal outcome with Accepted false and QuotaExceeded true.
type PlaceOutcome struct {
	Vote           models.Vote
	Accepted       bool
	QuotaExceeded  bool
	Replayed       bool
	RemainingQuota int
}

// MoveVoteInput retargets or repositions a dot. An empty TargetID keeps the
// current target; an empty TargetType keeps the current type.
type MoveVoteInput struct {
	VoteID     string
	TargetType models.TargetType
	TargetID   string
	Position   models.Position
}

// VoteStore persists dots and enforces the per-user quota.
type VoteStore struct {
	store
	notifier Notifier
}

// PlaceVote stores a new dot for caller if the session accepts votes and
// the caller has quota left.
//
// The quota check is a conditional increment on the (session, owner) quota
// row inside the same transaction as the insert, so concurrent placements
// by one user can never exceed the cap.
func (s *VoteStore) PlaceVote(ctx context.Context, in PlaceVoteInput, caller string) (PlaceOutcome, error) {
	if caller == "" {
		return PlaceOutcome{}, ErrAuthenticationRequired
	}
	if err := in.validate(); err != nil {
		return PlaceOutcome{}, err
	}

	voteID := in.VoteID
	if voteID == "" {
		voteID = auth.GenerateID()
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = ColorFor(caller)
	}

	var out PlaceOutcome
	err := db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		out = PlaceOutcome{}
		now := time.Now().UTC()

		clock, maxVotes, err := s.tick(ctx, tx, in.SessionID, now)
		if errors.Is(err, ErrSessionClosed) && in.VoteID != "" {
			// A retry of a placement that landed before the session closed
			// still reports the stored vote.
			if replayErr := s.replay(ctx, tx, in, caller, &out); replayErr == nil {
				return errReplayed
			}
		}
		if err != nil {
			return err
		}

		if in.VoteID != "" {
			switch replayErr := s.replay(ctx, tx, in, caller, &out); {
			case replayErr == nil:
				return errReplayed
			case !errors.Is(replayErr, ErrVoteNotFound):
				return replayErr
			}
		}

		_, err = tx.ExecContext(ctx, s.q(`
			INSERT INTO vote_quota (session_id, owner_id, used) VALUES (?, ?, 0)
			ON CONFLICT (session_id, owner_id) DO NOTHING
		`), in.SessionID, caller)
		if err != nil {
			return fmt.Errorf("failed to ensure quota row: %w", err)
		}

		res, err := tx.ExecContext(ctx, s.q(`
			UPDATE vote_quota SET used = used + ?
			WHERE session_id = ? AND owner_id = ? AND used + ? <= ?
		`), voteWeight, in.SessionID, caller, voteWeight, maxVotes)
		if err != nil {
			return fmt.Errorf("failed to reserve quota: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check quota reservation: %w", err)
		}
		if n == 0 {
			used, err := s.usedQuota(ctx, tx, in.SessionID, caller)
			if err != nil {
				return err
			}
			out.QuotaExceeded = true
			out.RemainingQuota = remaining(maxVotes, used)
			return errQuotaRejected
		}

		vote := models.Vote{
			ID:         voteID,
			SessionID:  in.SessionID,
			OwnerID:    caller,
			TargetType: in.TargetType,
			TargetID:   strings.TrimSpace(in.TargetID),
			Weight:     voteWeight,
			Position:   in.Position,
			Color:      color,
			OrderKey:   clock,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		_, err = tx.ExecContext(ctx, s.q(`
			INSERT INTO vote (id, session_id, owner_id, target_type, target_id, weight, pos_x, pos_y, color, order_key, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`), vote.ID, vote.SessionID, vote.OwnerID, string(vote.TargetType), vote.TargetID, vote.Weight,
			vote.Position.X, vote.Position.Y, vote.Color, vote.OrderKey, vote.CreatedAt, vote.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}

		used, err := s.usedQuota(ctx, tx, in.SessionID, caller)
		if err != nil {
			return err
		}
		out.Vote = vote
		out.Accepted = true
		out.RemainingQuota = remaining(maxVotes, used)
		return nil
	})

	switch {
	case errors.Is(err, errQuotaRejected):
		slog.Info("vote rejected", "session_id", in.SessionID, "reason", "quota_exceeded")
		return out, nil
	case errors.Is(err, errReplayed):
		slog.Info("vote placement replayed", "session_id", in.SessionID, "vote_id", out.Vote.ID)
		return out, nil
	case err != nil:
		return PlaceOutcome{}, err
	}

	slog.Info("vote placed", "session_id", in.SessionID, "vote_id", out.Vote.ID,
		"target_id", out.Vote.TargetID, "remaining_quota", out.RemainingQuota)
	s.notifier.Notify(Change{Kind: ChangeVotePlaced, SessionID: in.SessionID, VoteID: out.Vote.ID})
	return out, nil
}

// replay fills out with an already stored vote carrying the requested id.
// The id must belong to the same session and owner.
func (s *VoteStore) replay(ctx context.Context, tx *sql.Tx, in PlaceVoteInput, caller string, out *PlaceOutcome) error {
	existing, err := s.getVote(ctx, tx, in.VoteID)
	if err != nil {
		return err
	}
	if existing.SessionID != in.SessionID || existing.OwnerID != caller {
		return fmt.Errorf("%w: vote_id already in use", ErrInvalidArgument)
	}

	session, err := s.getSession(ctx, tx, in.SessionID)
	if err != nil {
		return err
	}
	used, err := s.usedQuota(ctx, tx, in.SessionID, caller)
	if err != nil {
		return err
	}

	*out = PlaceOutcome{
		Vote:           existing,
		Accepted:       true,
		Replayed:       true,
		RemainingQuota: remaining(session.MaxVotesPerUser, used),
	}
	return nil
}

// MoveVote retargets or repositions a dot owned by actor and gives it a
// fresh ordering key.
func (s *VoteStore) MoveVote(ctx context.Context, in MoveVoteInput, actor string) (models.Vote, error) {
	if actor == "" {
		return models.Vote{}, ErrAuthenticationRequired
	}
	if in.TargetType != "" && !in.TargetType.Valid() {
		return models.Vote{}, fmt.Errorf("%w: target_type must be group or insight", ErrInvalidArgument)
	}

	var vote models.Vote
	err := db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		var err error
		vote, err = s.ownedVote(ctx, tx, in.VoteID, actor)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		clock, _, err := s.tick(ctx, tx, vote.SessionID, now)
		if err != nil {
			return err
		}

		if target := strings.TrimSpace(in.TargetID); target != "" {
			vote.TargetID = target
		}
		if in.TargetType != "" {
			vote.TargetType = in.TargetType
		}
		vote.Position = in.Position
		vote.OrderKey = clock
		vote.UpdatedAt = now

		res, err := tx.ExecContext(ctx, s.q(`
			UPDATE vote SET target_type = ?, target_id = ?, pos_x = ?, pos_y = ?, order_key = ?, updated_at = ?
			WHERE id = ?
		`), string(vote.TargetType), vote.TargetID, vote.Position.X, vote.Position.Y, vote.OrderKey, vote.UpdatedAt, vote.ID)
		if err != nil {
			return fmt.Errorf("failed to move vote: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to check vote move: %w", err)
		} else if n == 0 {
			return ErrVoteNotFound
		}
		return nil
	})
	if err != nil {
		return models.Vote{}, err
	}

	slog.Info("vote moved", "session_id", vote.SessionID, "vote_id", vote.ID, "target_id", vote.TargetID)
	s.notifier.Notify(Change{Kind: ChangeVoteMoved, SessionID: vote.SessionID, VoteID: vote.ID})
	return vote, nil
}

// RemoveVote deletes a dot owned by actor and releases its quota.
func (s *VoteStore) RemoveVote(ctx context.Context, voteID, actor string) (models.Vote, error) {
	if actor == "" {
		return models.Vote{}, ErrAuthenticationRequired
	}

	var vote models.Vote
	err := db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		var err error
		vote, err = s.ownedVote(ctx, tx, voteID, actor)
		if err != nil {
			return err
		}

		if _, _, err := s.tick(ctx, tx, vote.SessionID, time.Now().UTC()); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM vote WHERE id = ?`), vote.ID)
		if err != nil {
			return fmt.Errorf("failed to delete vote: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to check vote delete: %w", err)
		} else if n == 0 {
			return ErrVoteNotFound
		}

		_, err = tx.ExecContext(ctx, s.q(`
			UPDATE vote_quota SET used = used - ?
			WHERE session_id = ? AND owner_id = ? AND used >= ?
		`), vote.Weight, vote.SessionID, vote.OwnerID, vote.Weight)
		if err != nil {
			return fmt.Errorf("failed to release quota: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Vote{}, err
	}

	slog.Info("vote removed", "session_id", vote.SessionID, "vote_id", vote.ID)
	s.notifier.Notify(Change{Kind: ChangeVoteRemoved, SessionID: vote.SessionID, VoteID: vote.ID})
	return vote, nil
}

// ownedVote loads a vote and checks that actor owns it. Ownership is
// checked before the session phase so a non-owner is always refused.
func (s *VoteStore) ownedVote(ctx context.Context, tx *sql.Tx, voteID, actor string) (models.Vote, error) {
	vote, err := s.getVote(ctx, tx, voteID)
	if err != nil {
		return models.Vote{}, err
	}
	if vote.OwnerID != actor {
		return models.Vote{}, ErrNotAuthorized
	}
	return vote, nil
}

func remaining(maxVotes, used int) int {
	if used >= maxVotes {
		return 0
	}
	return maxVotes - used
}
