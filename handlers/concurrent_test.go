// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/dotvote/models"
	"github.com/danielhkuo/dotvote/testutil"
)

// TestConcurrentPlacementsSameUser verifies that simultaneous placements by
// one participant never exceed the quota
func TestConcurrentPlacementsSameUser(t *testing.T) {
	engine, conn := setupEngine(t)
	handler := NewVoteHandler(engine, testutil.GetTestConfig())
	sessionID := testutil.CreateTestSession(t, conn, "alice", models.PhaseVoting, 3, false)

	numRequests := 10
	var accepted, refused atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := httptest.NewRecorder()
			handler.PlaceVote(w, placeRequest(sessionID, "bob", "g1"))

			var resp models.PlaceVoteResponse
			switch w.Code {
			case http.StatusCreated:
				accepted.Add(1)
			case http.StatusOK:
				testutil.AssertJSON(t, w, &resp)
				if resp.Reason == ReasonQuotaExceeded {
					refused.Add(1)
				}
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}()
	}

	wg.Wait()

	if accepted.Load() != 3 {
		t.Errorf("Expected 3 accepted placements, got %d", accepted.Load())
	}
	if refused.Load() != int32(numRequests-3) {
		t.Errorf("Expected %d refused placements, got %d", numRequests-3, refused.Load())
	}
	if n := testutil.CountVotes(t, conn, sessionID, "bob"); n != 3 {
		t.Errorf("Expected 3 stored votes, got %d", n)
	}
	if used := testutil.QuotaUsed(t, conn, sessionID, "bob"); used != 3 {
		t.Errorf("Expected quota used 3, got %d", used)
	}
}

// TestConcurrentPlacementsManyUsers verifies that quotas are tracked per
// participant under load
func TestConcurrentPlacementsManyUsers(t *testing.T) {
	engine, conn := setupEngine(t)
	handler := NewVoteHandler(engine, testutil.GetTestConfig())
	sessionID := testutil.CreateTestSession(t, conn, "alice", models.PhaseVoting, 2, false)

	users := []string{"u1", "u2", "u3", "u4", "u5"}
	var wg sync.WaitGroup

	for _, user := range users {
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(caller string) {
				defer wg.Done()
				w := httptest.NewRecorder()
				handler.PlaceVote(w, placeRequest(sessionID, caller, "g1"))
				if w.Code != http.StatusCreated && w.Code != http.StatusOK {
					t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
				}
			}(user)
		}
	}

	wg.Wait()

	for _, user := range users {
		if n := testutil.CountVotes(t, conn, sessionID, user); n != 2 {
			t.Errorf("%s: expected 2 votes, got %d", user, n)
		}
	}
}

// TestConcurrentRevealAndPlacement verifies that a placement racing the
// reveal either lands before it or is refused, never after it
func TestConcurrentRevealAndPlacement(t *testing.T) {
	engine, conn := setupEngine(t)
	cfg := testutil.GetTestConfig()
	votes := NewVoteHandler(engine, cfg)
	sessions := NewSessionHandler(engine, cfg)
	sessionID := testutil.CreateTestSession(t, conn, "alice", models.PhaseVoting, 20, false)

	var placed, closed atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			votes.PlaceVote(w, placeRequest(sessionID, "bob", "g1"))
			switch w.Code {
			case http.StatusCreated:
				placed.Add(1)
			case http.StatusConflict:
				closed.Add(1)
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		req := testutil.MakeRequest("POST", "/sessions/"+sessionID+"/reveal", nil, "alice")
		req.SetPathValue("id", sessionID)
		w := httptest.NewRecorder()
		sessions.Reveal(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("Reveal failed: %d - %s", w.Code, w.Body.String())
		}
	}()

	wg.Wait()

	if placed.Load()+closed.Load() != 10 {
		t.Errorf("Expected 10 outcomes, got %d placed + %d closed", placed.Load(), closed.Load())
	}
	if n := testutil.CountVotes(t, conn, sessionID, "bob"); n != int(placed.Load()) {
		t.Errorf("Stored votes %d do not match accepted placements %d", n, placed.Load())
	}
	if phase := testutil.GetTestPhase(t, conn, sessionID); phase != models.PhaseRevealed {
		t.Errorf("Expected phase revealed, got %s", phase)
	}
}
