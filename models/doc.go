// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, domain and error types for the API.

# Domain Types

  - VoterIdentity: name, rollNo, studentId, email, phone
  - Position: one of the five fixed offices (see Positions)
  - Candidate: nominee with manifesto and running vote count
  - BallotRecord: position -> candidate ID, write-once per position
  - TallyEntry: candidate with percentage and leader flag
  - PositionResults: ordered tally for one position

The JSON field names of VoterIdentity and Candidate are also the persisted
format used by the stores.

# Request Types

  - RequestOTPRequest: name, student_id, email, phone
  - ResendOTPRequest, VerifyOTPRequest: challenge_id (+ otp)
  - CastVoteRequest: candidate_id, position
  - RegisterCandidateRequest: position, key_points, manifesto
  - GenerateManifestoRequest: position, key_points

# Error Kinds

	ValidationError      bad input, nothing changed
	AlreadyActedError    repeated vote or nomination, nothing changed
	StoreCorruptError    undecodable persisted value, treated as absent
	ExternalServiceError manifesto generation failure, replaced by fallback

None of these is fatal.
*/
package models
