// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package events pushes session change notifications to subscribers.

Hub implements voting.Notifier. Every committed write in the voting core
becomes an Event naming the session, and optionally the vote and phase.
Events are invalidations: they carry no owner data, so subscribers refetch
through the visibility-filtered queries.

	hub := events.NewHub()
	engine := voting.NewEngine(conn, dialect, hub)

ServeWS upgrades an HTTP request to a websocket and streams events for one
session. Delivery never blocks a writer; a subscriber that falls behind is
disconnected and is expected to reconnect and re-read.
*/
package events
