// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	id1 := GenerateID()
	id2 := GenerateID()

	if len(id1) != 36 {
		t.Errorf("GenerateID() length = %d, want 36", len(id1))
	}
	if err := ValidateID(id1); err != nil {
		t.Errorf("ValidateID(GenerateID()) error = %v", err)
	}
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid uuid", "9b2f6c1e-8d4a-4b7e-9f3a-2c1d0e5f6a7b", false},
		{"empty", "", true},
		{"not a uuid", "vote-1", true},
		{"truncated", "9b2f6c1e-8d4a-4b7e", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidID) {
				t.Errorf("ValidateID(%q) error = %v, want ErrInvalidID", tt.id, err)
			}
		})
	}
}

func TestCallerFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		target  string
		headers map[string]string
		want    string
		wantErr error
	}{
		{
			name:    "default header",
			target:  "/sessions",
			headers: map[string]string{"X-User-ID": "alice"},
			want:    "alice",
		},
		{
			name:    "custom header",
			header:  "X-Forwarded-User",
			target:  "/sessions",
			headers: map[string]string{"X-Forwarded-User": "bob"},
			want:    "bob",
		},
		{
			name:    "whitespace trimmed",
			target:  "/sessions",
			headers: map[string]string{"X-User-ID": "  carol  "},
			want:    "carol",
		},
		{
			name:   "query fallback",
			target: "/sessions/s1/subscribe?identity=dave",
			want:   "dave",
		},
		{
			name:    "header wins over query",
			target:  "/sessions/s1/subscribe?identity=dave",
			headers: map[string]string{"X-User-ID": "erin"},
			want:    "erin",
		},
		{
			name:    "missing",
			target:  "/sessions",
			wantErr: ErrMissingIdentity,
		},
		{
			name:    "blank header",
			target:  "/sessions",
			headers: map[string]string{"X-User-ID": "   "},
			wantErr: ErrMissingIdentity,
		},
		{
			name:    "too long",
			target:  "/sessions",
			headers: map[string]string{"X-User-ID": strings.Repeat("a", 300)},
			wantErr: ErrInvalidIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			got, err := CallerFromRequest(req, tt.header)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CallerFromRequest() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CallerFromRequest() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CallerFromRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCallerContext(t *testing.T) {
	ctx := context.Background()
	if got := CallerFromContext(ctx); got != "" {
		t.Errorf("CallerFromContext(empty) = %q, want empty", got)
	}

	ctx = WithCaller(ctx, "alice")
	if got := CallerFromContext(ctx); got != "alice" {
		t.Errorf("CallerFromContext() = %q, want alice", got)
	}
}
