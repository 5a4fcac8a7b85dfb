// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is handled by middleware
	},
}

// client is one websocket subscriber of a session.
type client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	events    chan Event
}

// ServeWS upgrades the request and streams the session's events until the
// connection closes. It blocks for the lifetime of the connection.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, sessionID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	c := &client{
		hub:       hub,
		conn:      conn,
		sessionID: sessionID,
		events:    hub.Subscribe(sessionID),
	}
	slog.Info("subscriber connected", "session_id", sessionID)

	done := make(chan struct{})
	go c.readPump(done)
	c.writePump(done)

	hub.Unsubscribe(sessionID, c.events)
	slog.Info("subscriber disconnected", "session_id", sessionID)
	return nil
}

// readPump discards client messages and watches for pongs and close.
func (c *client) readPump(done chan struct{}) {
	defer close(done)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read error", "session_id", c.sessionID, "error", err)
			}
			return
		}
	}
}

// writePump sends the ready event, then every hub event, with periodic pings.
func (c *client) writePump(done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	ready := Event{Type: EventTypeReady, SessionID: c.sessionID, Timestamp: time.Now().UTC()}
	if err := c.writeEvent(ready); err != nil {
		return
	}

	for {
		select {
		case event, ok := <-c.events:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.writeEvent(event); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}

func (c *client) writeEvent(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to encode event", "error", err)
		return err
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
