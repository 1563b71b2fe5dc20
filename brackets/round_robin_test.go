package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectPairs(t *testing.T, matches []*Match) map[string]bool {
	t.Helper()
	pairs := make(map[string]bool)
	for _, m := range matches {
		require.NotNil(t, m.Team1ID)
		require.NotNil(t, m.Team2ID)
		a, b := *m.Team1ID, *m.Team2ID
		if a > b {
			a, b = b, a
		}
		key := fmt.Sprintf("%d-%d", a, b)
		assert.False(t, pairs[key], "pair %s plays twice", key)
		pairs[key] = true
	}
	return pairs
}

func TestRoundRobinEvenTeams(t *testing.T) {
	g := &RoundRobinGenerator{}
	matches, err := g.Generate(GenerateParams{Seeds: manualSeeds(1, 2, 3, 4)})
	require.NoError(t, err)
	require.Len(t, matches, 6)

	pairs := collectPairs(t, matches)
	assert.Len(t, pairs, 6)

	// three matchdays, each team playing once per day
	perRound := make(map[int][]int)
	for _, m := range matches {
		perRound[m.RoundNumber] = append(perRound[m.RoundNumber], *m.Team1ID, *m.Team2ID)
	}
	require.Len(t, perRound, 3)
	for round, teams := range perRound {
		assert.Len(t, teams, 4, "round %d", round)
		seen := make(map[int]bool)
		for _, id := range teams {
			assert.False(t, seen[id], "team %d plays twice in round %d", id, round)
			seen[id] = true
		}
	}
}

func TestRoundRobinOddTeams(t *testing.T) {
	g := &RoundRobinGenerator{}
	matches, err := g.Generate(GenerateParams{Seeds: manualSeeds(1, 2, 3, 4, 5)})
	require.NoError(t, err)
	require.Len(t, matches, 10)

	pairs := collectPairs(t, matches)
	assert.Len(t, pairs, 10)

	// five matchdays with one team idle per day
	idlePerRound := make(map[int]int)
	appearances := make(map[int]int)
	rounds := make(map[int]map[int]bool)
	for _, m := range matches {
		if rounds[m.RoundNumber] == nil {
			rounds[m.RoundNumber] = make(map[int]bool)
		}
		rounds[m.RoundNumber][*m.Team1ID] = true
		rounds[m.RoundNumber][*m.Team2ID] = true
		appearances[*m.Team1ID]++
		appearances[*m.Team2ID]++
	}
	require.Len(t, rounds, 5)
	for round, playing := range rounds {
		idlePerRound[round] = 5 - len(playing)
		assert.Equal(t, 1, idlePerRound[round], "round %d", round)
	}
	for id, n := range appearances {
		assert.Equal(t, 4, n, "team %d", id)
	}
}

func TestRoundRobinMatchNumbering(t *testing.T) {
	group := 3
	matches, next := roundRobinMatches(manualSeeds(1, 2, 3), &group, 11, 4)
	require.Len(t, matches, 3)
	assert.Equal(t, 14, next)
	for i, m := range matches {
		assert.Equal(t, 11+i, m.MatchNumber)
		require.NotNil(t, m.GroupNumber)
		assert.Equal(t, 3, *m.GroupNumber)
		assert.GreaterOrEqual(t, m.RoundNumber, 4)
	}
}
