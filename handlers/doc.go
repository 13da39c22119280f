// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Reva e-voting API.

# Handler Types

  - AuthHandler: OTP login, session restore and logout
  - ElectionHandler: candidates, votes, ballots, results and the live feed
  - ManifestoHandler: AI manifesto drafts

All of them share one Sessions registry:

	sessions := handlers.NewSessions(kv, auth.NewVerifier(cfg.EmailDomain))
	electionHandler := handlers.NewElectionHandler(sessions, hub)

# Login Flow

	POST /auth/otp        → RequestOTP (returns challenge_id)
	POST /auth/otp/resend → ResendOTP (429 within 60s of the last send)
	POST /auth/verify     → Verify (returns session_token)
	GET /session          → GetSession (restores after a restart)
	DELETE /session       → Logout

Any four digits are accepted as the OTP. Challenges are single use.

# Sessions

Each session owns one election.Machine. The voter profile is saved under
reva_evote_user:<token>, so a token stays valid across restarts until logout.
Every election endpoint requires the X-Session-Token header.

# Errors

Domain errors map to status codes in one place:

	ValidationError      → 400
	missing session      → 401
	unknown candidate    → 404
	AlreadyActedError    → 409
	draft in progress    → 429
	everything else      → 500

# Live Results

GET /results/live upgrades to a websocket. The first frame is the current
tally; every successful vote or nomination pushes a new one.
*/
package handlers
