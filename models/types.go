package models

// Position is one of the fixed electable offices.
type Position string

const (
	PositionPresident         Position = "President"
	PositionVicePresident     Position = "Vice President"
	PositionSecretary         Position = "Secretary"
	PositionCulturalSecretary Position = "Cultural Secretary"
	PositionSportsSecretary   Position = "Sports Secretary"
)

// Positions lists every electable office in display order.
var Positions = []Position{
	PositionPresident,
	PositionVicePresident,
	PositionSecretary,
	PositionCulturalSecretary,
	PositionSportsSecretary,
}

// Valid reports whether p belongs to the closed position set.
func (p Position) Valid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

// Domain types

// VoterIdentity is created at authentication and never modified afterwards.
// RollNo always equals StudentID.
type VoterIdentity struct {
	Name      string `json:"name"`
	RollNo    string `json:"rollNo"`
	StudentID string `json:"studentId"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Candidate struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	RollNo    string   `json:"rollNo"`
	Position  Position `json:"position"`
	Manifesto string   `json:"manifesto"`
	Votes     int      `json:"votes"`
}

// BallotRecord maps a position to the candidate ID chosen for it.
// An entry, once present, is never changed or removed.
type BallotRecord map[Position]string

type TallyEntry struct {
	Candidate  Candidate `json:"candidate"`
	Percentage float64   `json:"percentage"` // 0-100
	Leader     bool      `json:"leader"`
}

type PositionResults struct {
	Position   Position     `json:"position"`
	TotalVotes int          `json:"total_votes"`
	Entries    []TallyEntry `json:"entries"`
}

// Request types

type RequestOTPRequest struct {
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type ResendOTPRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type VerifyOTPRequest struct {
	ChallengeID string `json:"challenge_id"`
	OTP         string `json:"otp"`
}

type CastVoteRequest struct {
	CandidateID string   `json:"candidate_id"`
	Position    Position `json:"position"`
}

type RegisterCandidateRequest struct {
	Position  Position `json:"position"`
	KeyPoints string   `json:"key_points"`
	Manifesto string   `json:"manifesto"`
}

type GenerateManifestoRequest struct {
	Position  Position `json:"position"`
	KeyPoints string   `json:"key_points"`
}

// Response types

type RequestOTPResponse struct {
	ChallengeID string `json:"challenge_id"`
	ResendIn    int    `json:"resend_in"` // seconds
}

type SessionResponse struct {
	SessionToken string        `json:"session_token,omitempty"`
	Voter        VoterIdentity `json:"voter"`
	Progress     float64       `json:"progress"`
}

type CastVoteResponse struct {
	Candidate Candidate `json:"candidate"`
	Message   string    `json:"message"`
}

type BallotResponse struct {
	Ballot   BallotRecord `json:"ballot"`
	Progress float64      `json:"progress"`
}

type RegisterCandidateResponse struct {
	Candidate Candidate `json:"candidate"`
	Message   string    `json:"message"`
}

type GenerateManifestoResponse struct {
	Manifesto string `json:"manifesto"`
}

type CandidatesResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type ResultsResponse struct {
	Results []PositionResults `json:"results"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
