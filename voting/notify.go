// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "github.com/danielhkuo/dotvote/models"

// ChangeKind names what happened to a session.
type ChangeKind string

const (
	ChangeVotePlaced  ChangeKind = "vote.placed"
	ChangeVoteMoved   ChangeKind = "vote.moved"
	ChangeVoteRemoved ChangeKind = "vote.removed"
	ChangePhase       ChangeKind = "session.phase_changed"
	ChangeSilentMode  ChangeKind = "session.silent_mode_changed"
)

// Change is published after a write commits. It never carries owner
// identity; subscribers re-read through the visibility-filtered queries.
type Change struct {
	Kind      ChangeKind
	SessionID string
	VoteID    string
	Phase     models.Phase
}

// Notifier receives committed changes. Implementations must not block.
type Notifier interface {
	Notify(Change)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Change) {}
