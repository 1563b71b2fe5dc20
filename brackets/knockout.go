package brackets

import (
	"math/bits"

	"github.com/padelpoint/padel-system/models"
)

// KnockoutGenerator builds a single-elimination tree with standard seed
// slotting: seed 1 meets the lowest remaining seed, and byes created by
// padding to a power of two land on the highest seeds.
type KnockoutGenerator struct{}

func (g *KnockoutGenerator) Format() models.BracketFormat {
	return models.FormatKnockout
}

func (g *KnockoutGenerator) Generate(params GenerateParams) ([]*Match, error) {
	thirdPlace := false
	if params.Config != nil && params.Config.Knockout != nil {
		thirdPlace = params.Config.Knockout.ThirdPlaceMatch
	}
	return buildKnockout(params.Seeds, buildKnockoutOptions{
		startMatchNumber: 1,
		startRound:       1,
		thirdPlaceMatch:  thirdPlace,
	})
}

type buildKnockoutOptions struct {
	startMatchNumber int
	startRound       int
	thirdPlaceMatch  bool
}

// buildKnockout is shared with the knockout stage of groups brackets, which
// continues an existing match/round numbering.
func buildKnockout(seeds []Seed, opts buildKnockoutOptions) ([]*Match, error) {
	n := len(seeds)
	if n < 2 {
		return nil, ErrInsufficientTeams
	}

	size := nextPowerOfTwo(n)
	rounds := bits.TrailingZeros(uint(size))

	// slots[i] holds the team occupying bracket slot i, nil for a bye
	positions := bracketPositions(size)
	slots := make([]*int, size)
	for i, seedRank := range positions {
		if seedRank <= n {
			slots[i] = intPtr(seeds[seedRank-1].TeamID)
		}
	}

	matches := make([]*Match, 0, size-1)
	byRound := make(map[int][]*Match, rounds)
	matchNumber := opts.startMatchNumber

	for r := 1; r <= rounds; r++ {
		matchesInRound := size >> uint(r)
		name := roundName(matchesInRound)
		for i := 0; i < matchesInRound; i++ {
			m := &Match{
				MatchNumber: matchNumber,
				RoundNumber: opts.startRound + r - 1,
				RoundName:   strPtr(name),
				Status:      models.MatchStatusPending,
			}
			if r == 1 {
				m.Team1ID = slots[2*i]
				m.Team2ID = slots[2*i+1]
				m.Status = initialStatus(m.Team1ID, m.Team2ID)
			}
			matchNumber++
			matches = append(matches, m)
			byRound[r] = append(byRound[r], m)
		}
	}

	// forward edges: match i of round r feeds match ceil(i/2) of round r+1
	for r := 1; r < rounds; r++ {
		for i, m := range byRound[r] {
			next := byRound[r+1][i/2]
			m.NextMatchNumber = intPtr(next.MatchNumber)
			m.NextMatchPosition = intPtr(i%2 + 1)
		}
	}

	// byes resolve at generation time and advance exactly like a normal win
	for _, m := range byRound[1] {
		side := byeSide(m)
		if side == 0 {
			continue
		}
		m.IsBye = true
		m.Status = models.MatchStatusBye
		m.WinnerTeam = intPtr(side)
		advanceGenerated(m, byRound)
	}

	if opts.thirdPlaceMatch && rounds >= 2 {
		final := byRound[rounds][0]
		third := &Match{
			MatchNumber: matchNumber,
			RoundNumber: final.RoundNumber,
			RoundName:   strPtr("Third Place"),
			Status:      models.MatchStatusPending,
		}
		for _, semi := range byRound[rounds-1] {
			semi.LoserNextMatchNumber = intPtr(third.MatchNumber)
		}
		matches = append(matches, third)
	}

	return matches, nil
}

// byeSide returns the present side of a one-sided match, 0 when both or
// neither slot is filled.
func byeSide(m *Match) int {
	if m.Team1ID != nil && m.Team2ID == nil {
		return 1
	}
	if m.Team2ID != nil && m.Team1ID == nil {
		return 2
	}
	return 0
}

// advanceGenerated pushes a decided match's winner into its successor slot
// within a freshly generated graph.
func advanceGenerated(m *Match, byRound map[int][]*Match) {
	if m.NextMatchNumber == nil || m.WinnerTeam == nil {
		return
	}
	var winner *int
	if *m.WinnerTeam == 1 {
		winner = m.Team1ID
	} else {
		winner = m.Team2ID
	}
	for _, roundMatches := range byRound {
		for _, next := range roundMatches {
			if next.MatchNumber != *m.NextMatchNumber {
				continue
			}
			if *m.NextMatchPosition == 1 {
				next.Team1ID = winner
			} else {
				next.Team2ID = winner
			}
			next.Status = initialStatus(next.Team1ID, next.Team2ID)
			return
		}
	}
}

// bracketPositions expands the classic seeding order for a bracket of the
// given size (a power of two): [1 2] -> [1 4 2 3] -> [1 8 4 5 2 7 3 6] ...
// Adjacent pairs form the first-round matches.
func bracketPositions(size int) []int {
	pos := []int{1}
	for len(pos) < size {
		mirror := len(pos)*2 + 1
		next := make([]int, 0, len(pos)*2)
		for _, p := range pos {
			next = append(next, p, mirror-p)
		}
		pos = next
	}
	return pos
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
