// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package logging configures the default slog logger: a text handler on
// stderr plus an optional size-rotated file via lumberjack.
package logging
