// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite, postgres, redis or memory (default: sqlite)
  - DatabaseURL: connection string (required unless memory)
  - GeminiAPIKey: key for manifesto drafting (optional)
  - GeminiModel: model name (default: gemini-2.5-flash)
  - EmailDomain: accepted login email domain (default: reva.edu.in)

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Store type
	-gemini-key    Gemini API key
	-gemini-model  Gemini model
	-email-domain  Login email domain

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	GEMINI_API_KEY → -gemini-key (then API_KEY)
	GEMINI_MODEL   → -gemini-model
	EMAIL_DOMAIN   → -email-domain

CLI flags take precedence over environment variables. main loads a .env
file into the environment before parsing.

# Validation

ParseFlags returns an error when the store type is unknown or when no
database URL is given for a persistent store. A missing Gemini key is not an
error: manifesto drafts then always use the fallback text.
*/
package cliparse
