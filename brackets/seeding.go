package brackets

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/padelpoint/padel-system/models"
)

var ErrInvalidTeamList = errors.New("team list is empty or contains duplicates")

// Seed is one team's placement rank, 1 being the top seed.
type Seed struct {
	TeamID int
	Rank   int
}

// SeedTeams orders teams into seed ranks 1..N. For the random method the
// permutation is uniformly random with no determinism contract. For ranking,
// rankings maps team id to an external ranking score sorted descending; ties
// keep the caller's input order.
func SeedTeams(teamIDs []int, method models.SeedingMethod, rankings map[int]float64) ([]Seed, error) {
	if len(teamIDs) == 0 {
		return nil, ErrInvalidTeamList
	}
	seen := make(map[int]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: team %d appears twice", ErrInvalidTeamList, id)
		}
		seen[id] = struct{}{}
	}

	ordered := make([]int, len(teamIDs))
	copy(ordered, teamIDs)

	switch method {
	case models.SeedingRandom:
		rand.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	case models.SeedingManual:
		// caller-supplied order is authoritative
	case models.SeedingRanking:
		sort.SliceStable(ordered, func(i, j int) bool {
			return rankings[ordered[i]] > rankings[ordered[j]]
		})
	default:
		return nil, fmt.Errorf("unknown seeding method %q", method)
	}

	seeds := make([]Seed, len(ordered))
	for i, id := range ordered {
		seeds[i] = Seed{TeamID: id, Rank: i + 1}
	}
	return seeds, nil
}
