// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Reva e-voting API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(kv, cfg, generator, hub)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Login (public):

	POST   /auth/otp        - Validate details, open OTP challenge
	POST   /auth/otp/resend - Resend OTP after 60s
	POST   /auth/verify     - Exchange OTP for a session token
	GET    /session         - Current voter and progress
	DELETE /session         - Log out

Election (requires X-Session-Token):

	GET  /positions                 - Position list
	GET  /candidates?position=&q=   - Filter candidates
	POST /candidates                - Self-nominate
	POST /votes                     - Cast one vote
	GET  /ballot                    - Own ballot and progress
	POST /manifesto                 - Draft a manifesto with AI

Results:

	GET /results            - All positions (requires session)
	GET /results/{position} - One position (requires session)
	GET /results/live       - Websocket tally feed

GET /results/live is registered before GET /results/{position}; the mux
prefers the literal segment either way.
*/
package router
