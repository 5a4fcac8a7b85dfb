// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/dotvote/models"
	"github.com/danielhkuo/dotvote/testutil"
)

// TestFullSessionWorkflow walks one session through its whole lifecycle:
// 1. Facilitator creates a silent session and starts voting
// 2. Participants place dots; silent mode hides them from each other
// 3. A participant moves and removes a dot
// 4. Facilitator reveals; everyone sees every dot
// 5. Facilitator ends the session; results land in board history
// 6. Placements after the end are refused
func TestFullSessionWorkflow(t *testing.T) {
	engine, _ := setupEngine(t)
	cfg := testutil.GetTestConfig()
	sessions := NewSessionHandler(engine, cfg)
	votes := NewVoteHandler(engine, cfg)
	results := NewResultsHandler(engine, cfg)

	// Step 1: Create and start
	req := testutil.MakeRequest("POST", "/sessions", models.CreateSessionRequest{
		ProjectRef:      "project-9",
		BoardRef:        "board-9",
		Name:            "Which themes matter most?",
		MaxVotesPerUser: 2,
		SilentMode:      true,
	}, "facilitator")
	w := httptest.NewRecorder()
	sessions.CreateSession(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create session failed: %d - %s", w.Code, w.Body.String())
	}
	var session models.Session
	testutil.AssertJSON(t, w, &session)
	sessionID := session.ID

	req = testutil.MakeRequest("POST", "/sessions/"+sessionID+"/start", nil, "facilitator")
	req.SetPathValue("id", sessionID)
	w = httptest.NewRecorder()
	sessions.StartVoting(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 1 - Start voting failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 2: Place dots
	place := func(caller, targetID string) models.PlaceVoteResponse {
		w := httptest.NewRecorder()
		votes.PlaceVote(w, placeRequest(sessionID, caller, targetID))
		if w.Code != http.StatusCreated && w.Code != http.StatusOK {
			t.Fatalf("Step 2 - Place vote failed: %d - %s", w.Code, w.Body.String())
		}
		var resp models.PlaceVoteResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	first := place("ana", "theme-a")
	place("ana", "theme-b")
	if over := place("ana", "theme-c"); over.Accepted || over.Reason != ReasonQuotaExceeded {
		t.Fatalf("Step 2 - Expected third dot refused, got %+v", over)
	}
	place("ben", "theme-b")
	place("ben", "theme-b")

	votesPath := "/sessions/" + sessionID + "/votes"
	idValues := map[string]string{"id": sessionID}
	if seen := listVotes(t, results.VisibleVotes, votesPath, idValues, "ana"); len(seen) != 2 {
		t.Errorf("Step 2 - ana should see only her 2 dots, saw %d", len(seen))
	}
	if seen := listVotes(t, results.VisibleVotes, votesPath, idValues, "facilitator"); len(seen) != 0 {
		t.Errorf("Step 2 - facilitator should see no dots, saw %d", len(seen))
	}

	// Step 3: Move and remove
	req = testutil.MakeRequest("PATCH", "/votes/"+first.Vote.ID, models.MoveVoteRequest{TargetID: "theme-c"}, "ana")
	req.SetPathValue("voteID", first.Vote.ID)
	w = httptest.NewRecorder()
	votes.MoveVote(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Move vote failed: %d - %s", w.Code, w.Body.String())
	}

	req = testutil.MakeRequest("DELETE", "/votes/"+first.Vote.ID, nil, "ana")
	req.SetPathValue("voteID", first.Vote.ID)
	w = httptest.NewRecorder()
	votes.RemoveVote(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Remove vote failed: %d - %s", w.Code, w.Body.String())
	}
	if again := place("ana", "theme-a"); !again.Accepted {
		t.Fatal("Step 3 - Removing a dot should free quota")
	}

	// Step 4: Reveal
	req = testutil.MakeRequest("POST", "/sessions/"+sessionID+"/reveal", nil, "facilitator")
	req.SetPathValue("id", sessionID)
	w = httptest.NewRecorder()
	sessions.Reveal(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - Reveal failed: %d - %s", w.Code, w.Body.String())
	}
	if seen := listVotes(t, results.VisibleVotes, votesPath, idValues, "facilitator"); len(seen) != 4 {
		t.Errorf("Step 4 - facilitator should see all 4 dots, saw %d", len(seen))
	}

	req = testutil.MakeRequest("GET", "/sessions/"+sessionID+"/results", nil, "facilitator")
	req.SetPathValue("id", sessionID)
	w = httptest.NewRecorder()
	results.GetResults(w, req)
	var res models.SessionResults
	testutil.AssertJSON(t, w, &res)
	if len(res.PerTarget) == 0 || res.PerTarget[0].TargetID != "theme-b" || res.PerTarget[0].TotalVotes != 3 {
		t.Errorf("Step 4 - Expected theme-b first with 3 dots, got %+v", res.PerTarget)
	}

	// Step 5: End and check history
	req = testutil.MakeRequest("POST", "/sessions/"+sessionID+"/end", nil, "facilitator")
	req.SetPathValue("id", sessionID)
	w = httptest.NewRecorder()
	sessions.End(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - End failed: %d - %s", w.Code, w.Body.String())
	}

	req = testutil.MakeRequest("GET", "/boards/board-9/history", nil, "ana")
	req.SetPathValue("boardRef", "board-9")
	w = httptest.NewRecorder()
	sessions.History(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var history models.HistoryResponse
	testutil.AssertJSON(t, w, &history)
	if len(history.Items) != 1 {
		t.Fatalf("Step 5 - Expected 1 history item, got %d", len(history.Items))
	}
	if item := history.Items[0]; item.Session.ID != sessionID || item.Snapshot.TotalVotes != 4 || item.SavedAgo == "" {
		t.Errorf("Step 5 - Unexpected history item: %+v", item)
	}

	// Step 6: Closed for votes
	w = httptest.NewRecorder()
	votes.PlaceVote(w, placeRequest(sessionID, "ben", "theme-a"))
	testutil.AssertStatus(t, w, http.StatusConflict)
}
