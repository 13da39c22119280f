// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"cmp"
	"iter"
	"slices"
	"strings"

	"github.com/danielhkuo/reva-evote/models"
)

// Tally yields the candidates of one position, most votes first.
// Ties keep list order. Nothing is computed until the sequence is ranged
// over, and every range starts from the list as given.
func Tally(list []models.Candidate, position models.Position) iter.Seq[models.TallyEntry] {
	return func(yield func(models.TallyEntry) bool) {
		var ranked []models.Candidate
		total := 0
		for _, c := range list {
			if c.Position == position {
				ranked = append(ranked, c)
				total += c.Votes
			}
		}

		slices.SortStableFunc(ranked, func(a, b models.Candidate) int {
			return cmp.Compare(b.Votes, a.Votes)
		})

		// A tie for first place has no leader
		hasLeader := len(ranked) > 0 && ranked[0].Votes > 0 &&
			(len(ranked) == 1 || ranked[1].Votes < ranked[0].Votes)

		for i, c := range ranked {
			entry := models.TallyEntry{
				Candidate: c,
				Leader:    hasLeader && i == 0,
			}
			if total > 0 {
				entry.Percentage = float64(c.Votes) / float64(total) * 100
			}
			if !yield(entry) {
				return
			}
		}
	}
}

// Results tallies every position in display order.
func Results(list []models.Candidate) []models.PositionResults {
	results := make([]models.PositionResults, 0, len(models.Positions))
	for _, position := range models.Positions {
		res := models.PositionResults{
			Position: position,
			Entries:  []models.TallyEntry{},
		}
		for entry := range Tally(list, position) {
			res.TotalVotes += entry.Candidate.Votes
			res.Entries = append(res.Entries, entry)
		}
		results = append(results, res)
	}
	return results
}

// Filter returns the candidates of position whose name or roll number
// contains search, ignoring case. An empty search matches everyone.
func Filter(list []models.Candidate, position models.Position, search string) []models.Candidate {
	needle := strings.ToLower(search)
	matches := []models.Candidate{}
	for _, c := range list {
		if c.Position != position {
			continue
		}
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.RollNo), needle) {
			matches = append(matches, c)
		}
	}
	return matches
}
