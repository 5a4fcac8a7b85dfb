// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "github.com/danielhkuo/dotvote/models"

// Resolve reports whether a vote owned by ownerID may be shown to callerID.
//
// Once a session is revealed or completed every vote is visible. Before
// that, owners always see their own votes and everybody sees everything
// unless the session is in silent mode.
func Resolve(phase models.Phase, silentMode bool, ownerID, callerID string) bool {
	switch phase {
	case models.PhaseRevealed, models.PhaseCompleted:
		return true
	}
	if ownerID == callerID {
		return true
	}
	return !silentMode
}

func filterVisible(session models.Session, votes []models.Vote, callerID string) []models.Vote {
	visible := make([]models.Vote, 0, len(votes))
	for _, v := range votes {
		if Resolve(session.Phase, session.SilentMode, v.OwnerID, callerID) {
			visible = append(visible, v)
		}
	}
	return visible
}
