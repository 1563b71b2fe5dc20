package brackets

import (
	"testing"

	"github.com/padelpoint/padel-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedTeamsManual(t *testing.T) {
	seeds, err := SeedTeams([]int{30, 10, 20}, models.SeedingManual, nil)
	require.NoError(t, err)
	require.Len(t, seeds, 3)
	assert.Equal(t, Seed{TeamID: 30, Rank: 1}, seeds[0])
	assert.Equal(t, Seed{TeamID: 10, Rank: 2}, seeds[1])
	assert.Equal(t, Seed{TeamID: 20, Rank: 3}, seeds[2])
}

func TestSeedTeamsRanking(t *testing.T) {
	rankings := map[int]float64{10: 120.5, 20: 300, 30: 120.5, 40: 50}
	seeds, err := SeedTeams([]int{10, 20, 30, 40}, models.SeedingRanking, rankings)
	require.NoError(t, err)

	ids := make([]int, len(seeds))
	for i, s := range seeds {
		ids[i] = s.TeamID
	}
	// 20 leads, the 120.5 tie keeps input order (10 before 30), 40 last
	assert.Equal(t, []int{20, 10, 30, 40}, ids)
	for i, s := range seeds {
		assert.Equal(t, i+1, s.Rank)
	}
}

func TestSeedTeamsRandomIsPermutation(t *testing.T) {
	input := []int{1, 2, 3, 4, 5, 6}
	seeds, err := SeedTeams(input, models.SeedingRandom, nil)
	require.NoError(t, err)
	require.Len(t, seeds, len(input))

	seen := make(map[int]bool)
	for _, s := range seeds {
		seen[s.TeamID] = true
	}
	for _, id := range input {
		assert.True(t, seen[id], "team %d missing after shuffle", id)
	}
}

func TestSeedTeamsRejects(t *testing.T) {
	_, err := SeedTeams(nil, models.SeedingManual, nil)
	assert.ErrorIs(t, err, ErrInvalidTeamList)

	_, err = SeedTeams([]int{1, 2, 1}, models.SeedingManual, nil)
	assert.ErrorIs(t, err, ErrInvalidTeamList)

	_, err = SeedTeams([]int{1, 2}, models.SeedingMethod("coin_flip"), nil)
	assert.Error(t, err)
}
