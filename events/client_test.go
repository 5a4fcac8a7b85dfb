// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read event: %v", err)
	}

	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("failed to decode event %s: %v", data, err)
	}
	return e
}

func TestServeWS(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := ServeWS(hub, w, r, "s1"); err != nil {
			t.Errorf("ServeWS() error = %v", err)
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	ready := readEvent(t, conn)
	if ready.Type != EventTypeReady || ready.SessionID != "s1" {
		t.Fatalf("expected ready event, got %+v", ready)
	}

	hub.Publish(Event{Type: "vote.placed", SessionID: "s1", VoteID: "v1"})
	hub.Publish(Event{Type: "vote.placed", SessionID: "other", VoteID: "v2"})
	hub.Publish(Event{Type: "vote.removed", SessionID: "s1", VoteID: "v1"})

	first := readEvent(t, conn)
	if first.Type != "vote.placed" || first.VoteID != "v1" {
		t.Errorf("unexpected first event: %+v", first)
	}
	second := readEvent(t, conn)
	if second.Type != "vote.removed" {
		t.Errorf("expected removal event, got %+v", second)
	}
}

func TestServeWS_ClosedByHub(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r, "s1")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	readEvent(t, conn)
	hub.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("expected going-away close, got %v", err)
	}
}

func TestServeWS_RejectsPlainHTTP(t *testing.T) {
	hub := NewHub()
	req := httptest.NewRequest("GET", "/sessions/s1/subscribe", nil)
	w := httptest.NewRecorder()

	if err := ServeWS(hub, w, req, "s1"); err == nil {
		t.Error("expected upgrade error for a plain request")
	}
	if n := hub.SubscriberCount("s1"); n != 0 {
		t.Errorf("failed upgrade must not subscribe, got %d", n)
	}
}
