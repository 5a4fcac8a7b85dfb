// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL URL or SQLite file path (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - IdentityHeader: Header carrying the caller identity (default: X-User-ID)
  - LogLevel: debug, info, warn, or error (default: info)
  - LogFile: Optional rotated log file

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	-identity-header  Caller identity header
	-log-level        Log level
	-log-file         Log file path
	-env-file         Env file to load (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	IDENTITY_HEADER → -identity-header
	LOG_LEVEL       → -log-level
	LOG_FILE        → -log-file

Variables may also come from the env file, loaded with godotenv. Values
already present in the environment are never overwritten by the file, and
a missing file is ignored.

# Validation

ParseFlags returns an error if DATABASE_URL is missing or PORT is not a
number.
*/
package cliparse
