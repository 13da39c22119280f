// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "github.com/danielhkuo/reva-evote/models"

// InitialCandidates returns a fresh copy of the roster seeded into an empty store.
func InitialCandidates() []models.Candidate {
	return []models.Candidate{
		{
			ID:        "1",
			Name:      "Aarav Sharma",
			RollNo:    "R21CS104",
			Position:  models.PositionPresident,
			Manifesto: "Focusing on better campus Wi-Fi, 24/7 library access, and more industry-connect workshops for CS students.",
			Votes:     42,
		},
		{
			ID:        "2",
			Name:      "Priya Patel",
			RollNo:    "R22EC055",
			Position:  models.PositionPresident,
			Manifesto: "Advocating for sustainable campus initiatives, mental health awareness weeks, and improved canteen hygiene.",
			Votes:     38,
		},
		{
			ID:        "3",
			Name:      "Rohan Kumar",
			RollNo:    "R21ME201",
			Position:  models.PositionSecretary,
			Manifesto: "I promise to streamline the event permissions process and bring more sports tournaments to Reva.",
			Votes:     27,
		},
		{
			ID:        "4",
			Name:      "Ishaan Gupta",
			RollNo:    "R21CV033",
			Position:  models.PositionSportsSecretary,
			Manifesto: "New equipment for the gym and regular inter-college leagues.",
			Votes:     15,
		},
		{
			ID:        "5",
			Name:      "Ananya Singh",
			RollNo:    "R22BT012",
			Position:  models.PositionCulturalSecretary,
			Manifesto: "More frequent cultural fests and funding for student clubs.",
			Votes:     56,
		},
	}
}
