package brackets

import (
	"testing"

	"github.com/padelpoint/padel-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmericanoAllPairsWithRoundNames(t *testing.T) {
	g := &AmericanoGenerator{}
	matches, err := g.Generate(GenerateParams{Seeds: manualSeeds(1, 2, 3, 4)})
	require.NoError(t, err)
	require.Len(t, matches, 6)

	pairs := collectPairs(t, matches)
	assert.Len(t, pairs, 6)
	for _, m := range matches {
		require.NotNil(t, m.RoundName)
		assert.Contains(t, *m.RoundName, "Round ")
	}
}

func TestMexicanoOpeningRound(t *testing.T) {
	g := &MexicanoGenerator{}
	matches, err := g.Generate(GenerateParams{Seeds: manualSeeds(10, 20, 30, 40)})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, [2]int{10, 20}, pair(matches[0]))
	assert.Equal(t, [2]int{30, 40}, pair(matches[1]))
	assert.Equal(t, "Round 1", *matches[0].RoundName)
}

func TestMexicanoOddEntrantSitsOut(t *testing.T) {
	g := &MexicanoGenerator{}
	matches, err := g.Generate(GenerateParams{Seeds: manualSeeds(1, 2, 3, 4, 5)})
	require.NoError(t, err)
	require.Len(t, matches, 2) // seed 5 sits round one out
}

func TestNextMexicanoRoundPairsByPosition(t *testing.T) {
	standings := []*models.StandingEntry{
		{TeamID: 30, Position: 2},
		{TeamID: 10, Position: 4},
		{TeamID: 40, Position: 1},
		{TeamID: 20, Position: 3},
	}

	matches, err := NextMexicanoRound(standings, 2, 3)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, [2]int{40, 30}, pair(matches[0]))
	assert.Equal(t, [2]int{20, 10}, pair(matches[1]))
	assert.Equal(t, 3, matches[0].MatchNumber)
	assert.Equal(t, 4, matches[1].MatchNumber)
	assert.Equal(t, "Round 2", *matches[0].RoundName)
	assert.Equal(t, 2, matches[0].RoundNumber)
}

func TestNextMexicanoRoundTooFewEntrants(t *testing.T) {
	_, err := NextMexicanoRound([]*models.StandingEntry{{TeamID: 1, Position: 1}}, 2, 1)
	assert.ErrorIs(t, err, ErrInsufficientTeams)
}
