package brackets

import (
	"testing"

	"github.com/padelpoint/padel-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduledModelMatch(id, team1, team2 int) *models.Match {
	return &models.Match{
		ID:      id,
		Team1ID: &team1,
		Team2ID: &team2,
		Status:  models.MatchStatusScheduled,
	}
}

func TestComplete(t *testing.T) {
	m := scheduledModelMatch(1, 10, 20)
	sets := models.SetScores{{Team1: 6, Team2: 3}, {Team1: 6, Team2: 4}}

	require.NoError(t, Complete(m, 1, sets, models.MatchStatusCompleted))
	assert.Equal(t, models.MatchStatusCompleted, m.Status)
	require.NotNil(t, m.WinnerTeam)
	assert.Equal(t, 1, *m.WinnerTeam)
	require.NotNil(t, m.WinnerTeamID())
	assert.Equal(t, 10, *m.WinnerTeamID())
	require.NotNil(t, m.LoserTeamID())
	assert.Equal(t, 20, *m.LoserTeamID())

	assert.ErrorIs(t, Complete(m, 2, sets, models.MatchStatusCompleted), ErrMatchAlreadyDecided)
}

func TestCompleteRejections(t *testing.T) {
	half := &models.Match{ID: 2, Team1ID: intPtr(10), Status: models.MatchStatusPending}
	assert.ErrorIs(t, Complete(half, 1, nil, models.MatchStatusCompleted), ErrMatchMissingTeams)

	m := scheduledModelMatch(3, 10, 20)
	assert.Error(t, Complete(m, 3, nil, models.MatchStatusCompleted))
	assert.Nil(t, m.WinnerTeam)
}

func TestForfeit(t *testing.T) {
	m := scheduledModelMatch(1, 10, 20)
	require.NoError(t, Forfeit(m, 10))
	assert.Equal(t, models.MatchStatusForfeited, m.Status)
	require.NotNil(t, m.WinnerTeam)
	assert.Equal(t, 2, *m.WinnerTeam, "opponent side wins the forfeit")

	other := scheduledModelMatch(2, 10, 20)
	require.NoError(t, Forfeit(other, 20))
	assert.Equal(t, 1, *other.WinnerTeam)

	assert.ErrorIs(t, Forfeit(m, 20), ErrMatchAlreadyDecided)
	assert.ErrorIs(t, Forfeit(scheduledModelMatch(3, 1, 2), 99), ErrNotInMatch)
}

func TestForfeitWithUnknownOpponent(t *testing.T) {
	// the opponent slot is still waiting on a feeder match
	m := &models.Match{ID: 4, Team1ID: intPtr(10), Status: models.MatchStatusPending}
	require.NoError(t, Forfeit(m, 10))
	assert.Equal(t, 2, *m.WinnerTeam)
	assert.Nil(t, m.WinnerTeamID(), "no team to advance yet")
}

func TestAdvance(t *testing.T) {
	pos := 2
	nextID := 9
	m := scheduledModelMatch(1, 10, 20)
	m.WinnerTeam = intPtr(1)
	m.NextMatchID = &nextID
	m.NextMatchPosition = &pos

	next := &models.Match{ID: nextID, Status: models.MatchStatusPending}
	ready, err := Advance(m, next)
	require.NoError(t, err)
	assert.False(t, ready, "one slot still empty")
	require.NotNil(t, next.Team2ID)
	assert.Equal(t, 10, *next.Team2ID)
	assert.Equal(t, models.MatchStatusPending, next.Status)

	// a second feeder fills the other slot and makes the match playable
	pos1 := 1
	other := scheduledModelMatch(2, 30, 40)
	other.WinnerTeam = intPtr(2)
	other.NextMatchID = &nextID
	other.NextMatchPosition = &pos1

	ready, err = Advance(other, next)
	require.NoError(t, err)
	assert.True(t, ready)
	require.NotNil(t, next.Team1ID)
	assert.Equal(t, 40, *next.Team1ID)
	assert.Equal(t, models.MatchStatusScheduled, next.Status)
}

func TestAdvanceWithoutSuccessor(t *testing.T) {
	m := scheduledModelMatch(1, 10, 20)
	m.WinnerTeam = intPtr(1)

	ready, err := Advance(m, nil)
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestAdvanceRequiresWinner(t *testing.T) {
	m := scheduledModelMatch(1, 10, 20)
	_, err := Advance(m, &models.Match{ID: 2})
	assert.Error(t, err)
}

func TestAdvanceLoserMirrorsSlot(t *testing.T) {
	thirdID := 7
	pos := 1
	semi := scheduledModelMatch(1, 10, 20)
	semi.WinnerTeam = intPtr(1)
	semi.LoserNextMatchID = &thirdID
	semi.NextMatchPosition = &pos

	third := &models.Match{ID: thirdID, Status: models.MatchStatusPending}
	ready, err := AdvanceLoser(semi, third)
	require.NoError(t, err)
	assert.False(t, ready)
	require.NotNil(t, third.Team1ID)
	assert.Equal(t, 20, *third.Team1ID)

	pos2 := 2
	otherSemi := scheduledModelMatch(2, 30, 40)
	otherSemi.WinnerTeam = intPtr(2)
	otherSemi.LoserNextMatchID = &thirdID
	otherSemi.NextMatchPosition = &pos2

	ready, err = AdvanceLoser(otherSemi, third)
	require.NoError(t, err)
	assert.True(t, ready)
	require.NotNil(t, third.Team2ID)
	assert.Equal(t, 30, *third.Team2ID)
	assert.Equal(t, models.MatchStatusScheduled, third.Status)
}
