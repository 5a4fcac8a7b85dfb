// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/dotvote/models"
	"github.com/danielhkuo/dotvote/testutil"
)

func TestVisibleVotes_SilentIsolation(t *testing.T) {
	engine, _ := setupEngine(t)
	conn := engine.Results.conn
	ctx := context.Background()

	sessionID := testutil.CreateTestSession(t, conn, "alice", models.PhaseVoting, 3, true)
	testutil.AddTestVote(t, conn, sessionID, "a", "g1")
	testutil.AddTestVote(t, conn, sessionID, "a", "g1")
	testutil.AddTestVote(t, conn, sessionID, "b", "g2")

	forA, err := engine.Results.VisibleVotes(ctx, sessionID, "a")
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range forA {
		if v.OwnerID != "a" {
			t.Errorf("a must not see %s's vote while silent", v.OwnerID)
		}
	}
	if len(forA) != 2 {
		t.Errorf("a should see own 2 votes, got %d", len(forA))
	}

	forB, err := engine.Results.VisibleVotes(ctx, sessionID, "b")
	if err != nil {
		t.Fatal(err)
	}
	if len(forB) != 1 || forB[0].OwnerID != "b" {
		t.Errorf("b should see only own vote, got %+v", forB)
	}

	mineB, err := engine.Results.MyVotes(ctx, sessionID, "b")
	if err != nil {
		t.Fatal(err)
	}
	if len(mineB) != 1 {
		t.Errorf("b's own votes: expected 1, got %d", len(mineB))
	}
}

func TestVisibleVotes_NotSilent(t *testing.T) {
	engine, _ := setupEngine(t)
	conn := engine.Results.conn
	ctx := context.Background()

	sessionID := testutil.CreateTestSession(t, conn, "alice", models.PhaseVoting, 3, false)
	testutil.AddTestVote(t, conn, sessionID, "a", "g1")
	testutil.AddTestVote(t, conn, sessionID, "b", "g2")

	votes, err := engine.Results.VisibleVotes(ctx, sessionID, "c")
	if err != nil {
		t.Fatal(err)
	}
	if len(votes) != 2 {
		t.Errorf("expected every vote visible without silent mode, got %d", len(votes))
	}
	if votes[0].OrderKey >= votes[1].OrderKey {
		t.Errorf("expected votes in placement order, got %d then %d", votes[0].OrderKey, votes[1].OrderKey)
	}
}

func TestVisibleVotes_RevealCompleteness(t *testing.T) {
	engine, _ := setupEngine(t)
	conn := engine.Results.conn
	ctx := context.Background()

	sessionID := testutil.CreateTestSession(t, conn, "alice", models.PhaseVoting, 3, true)
	testutil.AddTestVote(t, conn, sessionID, "a", "g1")
	testutil.AddTestVote(t, conn, sessionID, "b", "g2")
	testutil.AddTestVote(t, conn, sessionID, "c", "g2")

	if _, err := engine.Sessions.Reveal(ctx, sessionID, "alice"); err != nil {
		t.Fatal(err)
	}

	creatorView, err := engine.Results.VisibleVotes(ctx, sessionID, "alice")
	if err != nil {
		t.Fatal(err)
	}
	for _, caller := range []string{"a", "b", "c", "stranger"} {
		view, err := engine.Results.VisibleVotes(ctx, sessionID, caller)
		if err != nil {
			t.Fatal(err)
		}
		if len(view) != len(creatorView) {
			t.Fatalf("%s sees %d votes, creator sees %d", caller, len(view), len(creatorView))
		}
		for i := range view {
			if view[i].ID != creatorView[i].ID {
				t.Errorf("%s: vote %d differs from creator view", caller, i)
			}
		}
	}
}

func TestReadErrors(t *testing.T) {
	engine, _ := setupEngine(t)
	ctx := context.Background()

	if _, err := engine.Results.VisibleVotes(ctx, "missing", "a"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("VisibleVotes: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := engine.Results.MyVotes(ctx, "missing", "a"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("MyVotes: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := engine.Results.SessionResults(ctx, "missing", "a"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SessionResults: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := engine.Results.TargetVotes(ctx, "missing", "g1", "a"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("TargetVotes: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := engine.Results.VisibleVotes(ctx, "missing", ""); !errors.Is(err, ErrAuthenticationRequired) {
		t.Errorf("VisibleVotes: expected ErrAuthenticationRequired, got %v", err)
	}
	if _, err := engine.Results.SessionResults(ctx, "missing", ""); !errors.Is(err, ErrAuthenticationRequired) {
		t.Errorf("SessionResults: expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestSessionResults(t *testing.T) {
	engine, _ := setupEngine(t)
	conn := engine.Results.conn
	ctx := context.Background()

	sessionID := testutil.CreateTestSession(t, conn, "alice", models.PhaseVoting, 3, true)
	testutil.AddTestVote(t, conn, sessionID, "a", "g1")
	testutil.AddTestVote(t, conn, sessionID, "b", "g2")
	testutil.AddTestVote(t, conn, sessionID, "b", "g2")
	testutil.AddTestVote(t, conn, sessionID, "a", "g3")

	results, err := engine.Results.SessionResults(ctx, sessionID, "a")
	if err != nil {
		t.Fatal(err)
	}

	if results.TotalVotes != 4 {
		t.Errorf("expected 4 total votes, got %d", results.TotalVotes)
	}
	if results.MyVotesUsed != 2 || results.MyRemainingQuota != 1 {
		t.Errorf("expected 2 used / 1 remaining, got %d / %d", results.MyVotesUsed, results.MyRemainingQuota)
	}

	targets := results.PerTarget
	if len(targets) != 3 {
		t.Fatalf("expected 3 targets, got %d", len(targets))
	}

	// g2 leads; g1 and g3 tie and g1 got its first vote earlier
	wantOrder := []string{"g2", "g1", "g3"}
	wantLabels := []string{"1st", "2nd", "3rd"}
	for i, want := range wantOrder {
		if targets[i].TargetID != want {
			t.Errorf("rank %d: expected %s, got %s", i+1, want, targets[i].TargetID)
		}
		if targets[i].Rank != i+1 || targets[i].RankLabel != wantLabels[i] {
			t.Errorf("rank %d: got rank %d label %q", i+1, targets[i].Rank, targets[i].RankLabel)
		}
	}

	// Totals count hidden votes; details only show what a may see
	g2 := targets[0]
	if g2.TotalVotes != 2 {
		t.Errorf("g2: expected total 2, got %d", g2.TotalVotes)
	}
	if len(g2.VoteDetails) != 0 || g2.HiddenVotes != 2 {
		t.Errorf("g2: expected 0 visible / 2 hidden for a, got %d / %d", len(g2.VoteDetails), g2.HiddenVotes)
	}
	g1 := targets[1]
	if len(g1.VoteDetails) != 1 || g1.VoteDetails[0].OwnerID != "a" {
		t.Errorf("g1: expected a's own vote detail, got %+v", g1.VoteDetails)
	}
}

func TestSessionResults_NoVotes(t *testing.T) {
	engine, _ := setupEngine(t)
	sessionID := testutil.CreateTestSession(t, engine.Results.conn, "alice", models.PhaseVoting, 5, false)

	results, err := engine.Results.SessionResults(context.Background(), sessionID, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(results.PerTarget) != 0 {
		t.Errorf("expected no targets, got %d", len(results.PerTarget))
	}
	if results.MyRemainingQuota != 5 {
		t.Errorf("expected full quota, got %d", results.MyRemainingQuota)
	}
}

func TestTargetVotes(t *testing.T) {
	engine, _ := setupEngine(t)
	conn := engine.Results.conn
	ctx := context.Background()

	sessionID := testutil.CreateTestSession(t, conn, "alice", models.PhaseVoting, 3, true)
	testutil.AddTestVote(t, conn, sessionID, "a", "g1")
	testutil.AddTestVote(t, conn, sessionID, "b", "g1")
	testutil.AddTestVote(t, conn, sessionID, "b", "g2")

	votes, err := engine.Results.TargetVotes(ctx, sessionID, "g1", "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(votes) != 1 || votes[0].OwnerID != "a" {
		t.Errorf("silent: expected only a's vote on g1, got %+v", votes)
	}

	testutil.SetTestPhase(t, conn, sessionID, models.PhaseRevealed)
	votes, err = engine.Results.TargetVotes(ctx, sessionID, "g1", "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(votes) != 2 {
		t.Errorf("revealed: expected 2 votes on g1, got %d", len(votes))
	}
}

func TestRankTargets_TieBreak(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	session := models.Session{Phase: models.PhaseRevealed}
	votes := []models.Vote{
		{ID: "1", OwnerID: "a", TargetID: "late", Weight: 1, CreatedAt: base.Add(2 * time.Second)},
		{ID: "2", OwnerID: "a", TargetID: "early", Weight: 1, CreatedAt: base.Add(time.Second)},
		{ID: "3", OwnerID: "b", TargetID: "same-b", Weight: 1, CreatedAt: base},
		{ID: "4", OwnerID: "b", TargetID: "same-a", Weight: 1, CreatedAt: base},
	}

	got := rankTargets(session, votes, "a")
	want := []string{"same-a", "same-b", "early", "late"}
	for i, id := range want {
		if got[i].TargetID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].TargetID)
		}
	}
}
