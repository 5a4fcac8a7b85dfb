// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/dotvote/auth"
	"github.com/danielhkuo/dotvote/cliparse"
	"github.com/danielhkuo/dotvote/db"
	"github.com/danielhkuo/dotvote/models"
	"github.com/goccy/go-json"
)

// TestDialect is the dialect of databases returned by SetupTestDB
const TestDialect = db.SQLite

// IdentityHeader is the caller identity header used by test requests
const IdentityHeader = "X-User-ID"

// SetupTestDB creates a fresh file-backed SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dotvote-test.db")
	conn, err := db.Open(TestDialect, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    "file:test.db",
		DatabaseType:   string(TestDialect),
		IdentityHeader: IdentityHeader,
		LogLevel:       "error",
	}
}

// CreateTestSession inserts a session directly in the given phase and returns its ID
func CreateTestSession(t *testing.T, conn *sql.DB, creator string, phase models.Phase, maxVotes int, silent bool) string {
	t.Helper()

	sessionID := auth.GenerateID()
	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO voting_session (id, project_ref, board_ref, name, max_votes_per_user, phase, silent_mode, created_by, created_at, updated_at)
		VALUES (?, 'project-1', 'board-1', 'Test Session', ?, ?, ?, ?, ?, ?)
	`, sessionID, maxVotes, string(phase), silent, creator, now, now)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return sessionID
}

// SetTestPhase forces a session into a phase, bypassing the state machine
func SetTestPhase(t *testing.T, conn *sql.DB, sessionID string, phase models.Phase) {
	t.Helper()

	_, err := conn.Exec(`UPDATE voting_session SET phase = ? WHERE id = ?`, string(phase), sessionID)
	if err != nil {
		t.Fatalf("Failed to set test phase: %v", err)
	}
}

// AddTestVote inserts a group vote and charges the owner's quota; returns the vote ID
func AddTestVote(t *testing.T, conn *sql.DB, sessionID, ownerID, targetID string) string {
	t.Helper()

	var clock int64
	err := conn.QueryRow(`UPDATE voting_session SET clock = clock + 1 WHERE id = ? RETURNING clock`, sessionID).Scan(&clock)
	if err != nil {
		t.Fatalf("Failed to advance test clock: %v", err)
	}

	voteID := auth.GenerateID()
	now := time.Now().UTC()
	_, err = conn.Exec(`
		INSERT INTO vote (id, session_id, owner_id, target_type, target_id, weight, pos_x, pos_y, color, order_key, created_at, updated_at)
		VALUES (?, ?, ?, 'group', ?, 1, 0, 0, '#3B82F6', ?, ?, ?)
	`, voteID, sessionID, ownerID, targetID, clock, now, now)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO vote_quota (session_id, owner_id, used) VALUES (?, ?, 1)
		ON CONFLICT (session_id, owner_id) DO UPDATE SET used = vote_quota.used + 1
	`, sessionID, ownerID)
	if err != nil {
		t.Fatalf("Failed to charge test quota: %v", err)
	}

	return voteID
}

// CountVotes returns the number of stored votes for an owner in a session
func CountVotes(t *testing.T, conn *sql.DB, sessionID, ownerID string) int {
	t.Helper()

	var n int
	err := conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE session_id = ? AND owner_id = ?`, sessionID, ownerID).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return n
}

// QuotaUsed returns the committed weight recorded for an owner in a session
func QuotaUsed(t *testing.T, conn *sql.DB, sessionID, ownerID string) int {
	t.Helper()

	var used int
	err := conn.QueryRow(`SELECT used FROM vote_quota WHERE session_id = ? AND owner_id = ?`, sessionID, ownerID).Scan(&used)
	if err == sql.ErrNoRows {
		return 0
	}
	if err != nil {
		t.Fatalf("Failed to read quota: %v", err)
	}
	return used
}

// GetTestPhase reads the stored phase of a session
func GetTestPhase(t *testing.T, conn *sql.DB, sessionID string) models.Phase {
	t.Helper()

	var phase string
	if err := conn.QueryRow(`SELECT phase FROM voting_session WHERE id = ?`, sessionID).Scan(&phase); err != nil {
		t.Fatalf("Failed to read phase: %v", err)
	}
	return models.Phase(phase)
}

// MakeRequest creates an HTTP test request. A non-empty caller is sent in
// the identity header.
func MakeRequest(method, path string, body interface{}, caller string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if caller != "" {
		req.Header.Set(IdentityHeader, caller)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
