// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides caller identity extraction and id generation.

Authentication itself happens upstream. The service receives an opaque,
stable caller identity per request and only ever compares it for equality.

# Caller Identity

The identity is read from a configurable header (X-User-ID by default),
falling back to the "identity" query parameter for websocket upgrades:

	caller, err := auth.CallerFromRequest(r, cfg.IdentityHeader)
	if errors.Is(err, auth.ErrMissingIdentity) {
		// 401
	}

Middleware stores it on the request context:

	ctx := auth.WithCaller(r.Context(), caller)
	caller := auth.CallerFromContext(ctx)

# ID Generation

Sessions, votes, and snapshots use random UUIDs:

	id := auth.GenerateID()

Clients that retry vote placements generate their own ids; ValidateID
rejects anything that is not a UUID.
*/
package auth
