// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential format checks and token generation.

# Login Details

A Verifier validates the login form with go-playground/validator and two
custom tags, rollno and univemail:

	v := auth.NewVerifier("reva.edu.in")
	if err := v.ValidateDetails(req); err != nil {
		// *models.ValidationError with a user-facing message
	}

Checks run in this order and stop at the first failure:

  - all of name, student ID, email and phone present
  - student ID matches R + 2 digits + 2-4 alphanumerics + 3-4 digits (any case)
  - email ends in @<domain>
  - phone has at least 10 characters

Only formats are checked. Nobody's identity is verified.

# OTP

VerifyOTP accepts any four digits:

	if err := auth.VerifyOTP("4821"); err != nil { ... }

# Tokens

	id, _ := auth.GenerateID(16)          // 32 hex chars, challenge IDs
	token, _ := auth.GenerateSessionToken() // 32 URL-safe chars, 192 bits

Session tokens are sent in the X-Session-Token header.
*/
package auth
