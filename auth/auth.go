// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// DefaultIdentityHeader carries the caller identity set by the upstream gateway.
const DefaultIdentityHeader = "X-User-ID"

// IdentityQueryParam is the fallback for clients that cannot set headers
// (browser websocket upgrades).
const IdentityQueryParam = "identity"

const maxIdentityLen = 256

var (
	ErrMissingIdentity = errors.New("missing caller identity")
	ErrInvalidIdentity = errors.New("invalid caller identity")
	ErrInvalidID       = errors.New("invalid id format")
)

// GenerateID creates a random UUIDv4 string for database records
func GenerateID() string {
	return uuid.NewString()
}

// ValidateID checks that a client-supplied id is a well-formed UUID
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return nil
}

// CallerFromRequest extracts the opaque caller identity from the request.
// The header wins over the query parameter.
func CallerFromRequest(r *http.Request, header string) (string, error) {
	if header == "" {
		header = DefaultIdentityHeader
	}

	caller := strings.TrimSpace(r.Header.Get(header))
	if caller == "" {
		caller = strings.TrimSpace(r.URL.Query().Get(IdentityQueryParam))
	}
	if caller == "" {
		return "", ErrMissingIdentity
	}
	if len(caller) > maxIdentityLen || strings.ContainsAny(caller, "\r\n") {
		return "", ErrInvalidIdentity
	}
	return caller, nil
}

type callerKey struct{}

// WithCaller returns a copy of ctx carrying the caller identity
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the identity stored by WithCaller, or ""
func CallerFromContext(ctx context.Context) string {
	caller, _ := ctx.Value(callerKey{}).(string)
	return caller
}
