// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Reva e-voting API server.

Reva e-voting runs a single student council election: students log in with
their university details and a 4-digit OTP, cast one vote per position,
nominate themselves with an optional AI-drafted manifesto and follow the
tally live.

# Starting the Server

The server reads CLI flags, environment variables or a .env file:

	DATABASE_URL=reva.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

  - DATABASE_TYPE (-t): sqlite, postgres, redis or memory (default: sqlite)
  - DATABASE_URL (-d): connection string, not needed for memory
  - GEMINI_API_KEY (-gemini-key): enables manifesto drafting
  - PORT (-p): Server port (default: 3318)

# Architecture

  - handlers: HTTP request handlers (login, election, manifesto)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - election: Per-session state machine and tallying
  - store: Profile, candidate and ballot stores over kvstore
  - kvstore: SQLite, PostgreSQL, Redis and in-memory backends
  - manifesto: Gemini drafting with fixed fallback
  - live: Websocket tally feed
  - metrics: Prometheus collectors
  - auth: Credential formats, OTP and session tokens
  - models: Shared types and error kinds
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
