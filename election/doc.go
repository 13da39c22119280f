// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the voting and nomination rules of a session.

# Machine

A Machine holds the candidate list and one voter's ballot:

	m := election.NewMachine(candidates, ballots)
	if err := m.Initialize(ctx, voter); err != nil {
		return err
	}
	c, err := m.Vote(ctx, "1", models.PositionPresident)

Session states: unauthenticated → authenticated → session-ended.
Per position: unvoted → voted, never back.

# Rules

  - One vote per position per voter, ever. A repeat returns an
    AlreadyActedError and no count changes.
  - The candidate must be running for the position voted on.
  - One nomination per roll number across all positions.
  - A nomination needs a non-empty manifesto.

# Tallies

Tally returns an iter.Seq that ranks a position's candidates by votes,
keeping list order on ties. Percentages are 0-100 and all 0 without votes.
Only a unique, positive top score is flagged as leader.

	for entry := range m.Tally(models.PositionPresident) {
		fmt.Println(entry.Candidate.Name, entry.Percentage, entry.Leader)
	}

# Persistence

Every mutation is a read-modify-write through the store package, which
serializes writers within one process. Writers in other processes sharing
the same backing store are not coordinated with: the last write wins.
*/
package election
