// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "errors"

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrNotAuthorized          = errors.New("not authorized")
	ErrSessionNotFound        = errors.New("session not found")
	ErrInvalidPhaseTransition = errors.New("invalid phase transition")
	ErrSessionClosed          = errors.New("session closed")
	ErrVoteNotFound           = errors.New("vote not found")
	ErrInvalidArgument        = errors.New("invalid argument")
)

// Rollback markers: the transaction body returns these to discard its
// writes while the caller still reports a normal outcome.
var (
	errQuotaRejected = errors.New("quota rejected")
	errReplayed      = errors.New("placement replayed")
)
