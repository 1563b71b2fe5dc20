package brackets

import (
	"errors"
	"fmt"

	"github.com/padelpoint/padel-system/models"
)

var (
	ErrMatchAlreadyDecided = errors.New("match already has a final result")
	ErrMatchMissingTeams   = errors.New("match does not have both teams assigned yet")
	ErrNotInMatch          = errors.New("team is not part of this match")
)

// Complete finalizes a match with the given result and status (completed or
// forfeited). The match must still be undecided and have both slots filled.
func Complete(m *models.Match, winnerSide int, sets models.SetScores, status models.MatchStatus) error {
	if m.IsDecided() {
		return ErrMatchAlreadyDecided
	}
	if m.Team1ID == nil || m.Team2ID == nil {
		return ErrMatchMissingTeams
	}
	if winnerSide != 1 && winnerSide != 2 {
		return fmt.Errorf("winner side must be 1 or 2, got %d", winnerSide)
	}
	m.Sets = sets
	m.WinnerTeam = intPtr(winnerSide)
	m.Status = status
	return nil
}

// Forfeit resolves a match against the withdrawn team: the opponent is
// recorded as winner and the match is marked forfeited.
func Forfeit(m *models.Match, withdrawnTeamID int) error {
	if m.IsDecided() {
		return ErrMatchAlreadyDecided
	}
	if !m.HasTeam(withdrawnTeamID) {
		return ErrNotInMatch
	}
	side := 2
	if m.Team2ID != nil && *m.Team2ID == withdrawnTeamID {
		side = 1
	}
	m.WinnerTeam = intPtr(side)
	m.Status = models.MatchStatusForfeited
	return nil
}

// Advance writes a decided match's winner into its successor's slot per
// NextMatchPosition and promotes the successor to scheduled once both slots
// are filled. It reports whether the successor became eligible for play.
func Advance(m, next *models.Match) (bool, error) {
	if m.WinnerTeam == nil {
		return false, fmt.Errorf("cannot advance from match %d without a winner", m.ID)
	}
	if m.NextMatchID == nil || next == nil {
		return false, nil
	}
	if m.NextMatchPosition == nil {
		return false, fmt.Errorf("match %d has a successor but no slot position", m.ID)
	}
	winnerID := m.WinnerTeamID()
	switch *m.NextMatchPosition {
	case 1:
		next.Team1ID = winnerID
	case 2:
		next.Team2ID = winnerID
	default:
		return false, fmt.Errorf("match %d has invalid next match position %d", m.ID, *m.NextMatchPosition)
	}
	if next.Team1ID != nil && next.Team2ID != nil && next.Status == models.MatchStatusPending {
		next.Status = models.MatchStatusScheduled
		return true, nil
	}
	return false, nil
}

// AdvanceLoser feeds a semifinal loser into the third-place match. The slot
// mirrors the winner edge's position so the two semifinal losers land on
// opposite sides.
func AdvanceLoser(m, third *models.Match) (bool, error) {
	if m.WinnerTeam == nil {
		return false, fmt.Errorf("cannot advance loser from match %d without a winner", m.ID)
	}
	if m.LoserNextMatchID == nil || third == nil {
		return false, nil
	}
	pos := 1
	if m.NextMatchPosition != nil {
		pos = *m.NextMatchPosition
	}
	loserID := m.LoserTeamID()
	if pos == 1 {
		third.Team1ID = loserID
	} else {
		third.Team2ID = loserID
	}
	if third.Team1ID != nil && third.Team2ID != nil && third.Status == models.MatchStatusPending {
		third.Status = models.MatchStatusScheduled
		return true, nil
	}
	return false, nil
}
