// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"sort"

	"github.com/danielhkuo/dotvote/models"
	"github.com/dustin/go-humanize"
)

// ResultAggregator answers read queries. Visibility is derived from the
// session's current phase and silent-mode flag on every call.
type ResultAggregator struct {
	store
}

// VisibleVotes returns the votes of a session that caller may see.
func (a *ResultAggregator) VisibleVotes(ctx context.Context, sessionID, caller string) ([]models.Vote, error) {
	if caller == "" {
		return nil, ErrAuthenticationRequired
	}

	session, err := a.getSession(ctx, a.conn, sessionID)
	if err != nil {
		return nil, err
	}
	votes, err := a.listVotes(ctx, a.conn, sessionID, "")
	if err != nil {
		return nil, err
	}
	return filterVisible(session, votes, caller), nil
}

// MyVotes returns the votes caller owns, whatever the visibility rules.
func (a *ResultAggregator) MyVotes(ctx context.Context, sessionID, caller string) ([]models.Vote, error) {
	if caller == "" {
		return nil, ErrAuthenticationRequired
	}

	if _, err := a.getSession(ctx, a.conn, sessionID); err != nil {
		return nil, err
	}
	return a.listVotes(ctx, a.conn, sessionID, `owner_id = ?`, caller)
}

// TargetVotes returns the votes on one target that caller may see.
func (a *ResultAggregator) TargetVotes(ctx context.Context, sessionID, targetID, caller string) ([]models.Vote, error) {
	if caller == "" {
		return nil, ErrAuthenticationRequired
	}

	session, err := a.getSession(ctx, a.conn, sessionID)
	if err != nil {
		return nil, err
	}
	votes, err := a.listVotes(ctx, a.conn, sessionID, `target_id = ?`, targetID)
	if err != nil {
		return nil, err
	}
	return filterVisible(session, votes, caller), nil
}

// SessionResults ranks the targets of a session. Totals count every vote;
// only the itemized details are filtered for caller.
func (a *ResultAggregator) SessionResults(ctx context.Context, sessionID, caller string) (models.SessionResults, error) {
	if caller == "" {
		return models.SessionResults{}, ErrAuthenticationRequired
	}

	session, err := a.getSession(ctx, a.conn, sessionID)
	if err != nil {
		return models.SessionResults{}, err
	}
	votes, err := a.listVotes(ctx, a.conn, sessionID, "")
	if err != nil {
		return models.SessionResults{}, err
	}

	used := 0
	for _, v := range votes {
		if v.OwnerID == caller {
			used += v.Weight
		}
	}

	return models.SessionResults{
		Session:          session,
		PerTarget:        rankTargets(session, votes, caller),
		TotalVotes:       totalWeight(votes),
		MyVotesUsed:      used,
		MyRemainingQuota: remaining(session.MaxVotesPerUser, used),
	}, nil
}

// rankTargets groups votes by target and orders the groups by total weight
// descending, then earliest first vote, then target id.
func rankTargets(session models.Session, votes []models.Vote, caller string) []models.TargetResult {
	byTarget := make(map[string]*models.TargetResult)
	for _, v := range votes {
		r, ok := byTarget[v.TargetID]
		if !ok {
			r = &models.TargetResult{
				TargetID:    v.TargetID,
				TargetType:  v.TargetType,
				FirstVoteAt: v.CreatedAt,
				VoteDetails: []models.VoteDetail{},
			}
			byTarget[v.TargetID] = r
		}

		r.TotalVotes += v.Weight
		if v.CreatedAt.Before(r.FirstVoteAt) {
			r.FirstVoteAt = v.CreatedAt
		}
		if Resolve(session.Phase, session.SilentMode, v.OwnerID, caller) {
			r.VoteDetails = append(r.VoteDetails, models.VoteDetail{
				VoteID:    v.ID,
				OwnerID:   v.OwnerID,
				Color:     v.Color,
				Position:  v.Position,
				CreatedAt: v.CreatedAt,
			})
		} else {
			r.HiddenVotes += v.Weight
		}
	}

	results := make([]models.TargetResult, 0, len(byTarget))
	for _, r := range byTarget {
		results = append(results, *r)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].TotalVotes != results[j].TotalVotes {
			return results[i].TotalVotes > results[j].TotalVotes
		}
		if !results[i].FirstVoteAt.Equal(results[j].FirstVoteAt) {
			return results[i].FirstVoteAt.Before(results[j].FirstVoteAt)
		}
		return results[i].TargetID < results[j].TargetID
	})

	for i := range results {
		results[i].Rank = i + 1
		results[i].RankLabel = humanize.Ordinal(i + 1)
	}
	return results
}

func totalWeight(votes []models.Vote) int {
	total := 0
	for _, v := range votes {
		total += v.Weight
	}
	return total
}

func countOwners(votes []models.Vote) int {
	owners := make(map[string]struct{})
	for _, v := range votes {
		owners[v.OwnerID] = struct{}{}
	}
	return len(owners)
}
