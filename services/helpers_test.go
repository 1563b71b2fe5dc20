package services

import (
	"testing"

	"github.com/padelpoint/padel-system/brackets"
	"github.com/padelpoint/padel-system/models"
	"github.com/stretchr/testify/assert"
)

func tbPtr(v int) *int { return &v }

func TestSetsEqual(t *testing.T) {
	a := models.SetScores{{Team1: 6, Team2: 4}, {Team1: 7, Team2: 6, TiebreakTeam1: tbPtr(7), TiebreakTeam2: tbPtr(3)}}
	b := models.SetScores{{Team1: 6, Team2: 4}, {Team1: 7, Team2: 6, TiebreakTeam1: tbPtr(7), TiebreakTeam2: tbPtr(3)}}
	assert.True(t, setsEqual(a, b))

	assert.False(t, setsEqual(a, a[:1]))
	assert.False(t, setsEqual(a, models.SetScores{{Team1: 6, Team2: 4}, {Team1: 7, Team2: 6}}))

	c := models.SetScores{{Team1: 6, Team2: 4}, {Team1: 7, Team2: 6, TiebreakTeam1: tbPtr(7), TiebreakTeam2: tbPtr(5)}}
	assert.False(t, setsEqual(a, c))

	assert.True(t, setsEqual(nil, nil))
	assert.True(t, setsEqual(models.SetScores{}, nil))
}

func TestMapEngineError(t *testing.T) {
	assert.NoError(t, mapEngineError(nil))
	assert.ErrorIs(t, mapEngineError(brackets.ErrInsufficientTeams), ErrInsufficientTeams)
	assert.ErrorIs(t, mapEngineError(brackets.ErrInvalidTeamList), ErrTeamListInvalid)
	assert.ErrorIs(t, mapEngineError(brackets.ErrInvalidGroupConfig), ErrInvalidGroupConfig)
	assert.ErrorIs(t, mapEngineError(brackets.ErrUnsupportedFormat), ErrInvalidInput)
}

func TestToScoringSets(t *testing.T) {
	sets := models.SetScores{{Team1: 7, Team2: 6, TiebreakTeam1: tbPtr(7), TiebreakTeam2: tbPtr(2)}}
	out := toScoringSets(sets)
	assert.Len(t, out, 1)
	assert.Equal(t, 7, out[0].Team1)
	assert.Equal(t, 6, out[0].Team2)
	assert.Equal(t, 7, *out[0].TiebreakTeam1)
	assert.Equal(t, 2, *out[0].TiebreakTeam2)
}

func TestTeamIDsInMatches(t *testing.T) {
	m1 := &models.Match{Team1ID: tbPtr(3), Team2ID: tbPtr(1)}
	m2 := &models.Match{Team1ID: tbPtr(2), Team2ID: tbPtr(3)}
	m3 := &models.Match{Team1ID: tbPtr(1)}

	ids := teamIDsInMatches([]*models.Match{m1, m2, m3})
	assert.Equal(t, []int{3, 1, 2}, ids)
}
