package brackets

import "github.com/padelpoint/padel-system/models"

// RoundRobinGenerator produces every unordered pair exactly once. Matches are
// partitioned into balanced matchdays with the circle method; the matchday is
// recorded as the round number, but court/day scheduling itself stays with
// the caller.
type RoundRobinGenerator struct{}

func (g *RoundRobinGenerator) Format() models.BracketFormat {
	return models.FormatRoundRobin
}

func (g *RoundRobinGenerator) Generate(params GenerateParams) ([]*Match, error) {
	if len(params.Seeds) < 2 {
		return nil, ErrInsufficientTeams
	}
	matches, _ := roundRobinMatches(params.Seeds, nil, 1, 1)
	return matches, nil
}

// roundRobinMatches builds circle-method pairings for one round-robin pool.
// With an odd team count a dummy slot rotates through, giving each team one
// idle matchday. Returns the matches and the next free match number.
func roundRobinMatches(seeds []Seed, group *int, startMatchNumber, startRound int) ([]*Match, int) {
	ids := make([]*int, 0, len(seeds)+1)
	for _, s := range seeds {
		ids = append(ids, intPtr(s.TeamID))
	}
	if len(ids)%2 != 0 {
		ids = append(ids, nil) // idle slot
	}

	n := len(ids)
	rounds := n - 1
	half := n / 2

	matches := make([]*Match, 0, len(seeds)*(len(seeds)-1)/2)
	matchNumber := startMatchNumber

	for r := 0; r < rounds; r++ {
		for i := 0; i < half; i++ {
			t1 := ids[i]
			t2 := ids[n-1-i]
			if t1 == nil || t2 == nil {
				continue
			}
			matches = append(matches, &Match{
				MatchNumber: matchNumber,
				RoundNumber: startRound + r,
				Team1ID:     t1,
				Team2ID:     t2,
				Status:      models.MatchStatusScheduled,
				GroupNumber: group,
			})
			matchNumber++
		}
		// rotate everything but the first slot
		last := ids[n-1]
		copy(ids[2:], ids[1:n-1])
		ids[1] = last
	}

	return matches, matchNumber
}
