package brackets

import (
	"sort"
	"time"

	"github.com/padelpoint/padel-system/models"
)

// TieBreak is one comparator of the standings ordering chain. Each compares
// strictly descending; ties fall through to the next criterion, and ties
// surviving the whole chain keep team input order.
type TieBreak string

const (
	TieBreakPoints          TieBreak = "points"
	TieBreakPointDifference TieBreak = "point_difference"
	TieBreakGamesWon        TieBreak = "games_won"
	TieBreakMatchesWon      TieBreak = "matches_won"
)

// DefaultTieBreaks is the chain used when a category does not configure one.
var DefaultTieBreaks = []TieBreak{TieBreakPoints, TieBreakPointDifference, TieBreakGamesWon}

// StandingsOptions configures the standings computation for one scope.
type StandingsOptions struct {
	PointsPerWin  int
	PointsPerLoss int
	TieBreaks     []TieBreak
	// Group restricts the scope to one group's matches; nil means the whole
	// bracket.
	Group *int
	// WithRoundReached records each team's deepest round, for knockout
	// elimination depth.
	WithRoundReached bool
}

// ComputeStandings aggregates completed and forfeited matches into a ranked
// table. teamIDs fixes both membership and the deterministic insertion order
// that breaks any ties left after the tie-break chain. Positions are a strict
// 1..N total order.
func ComputeStandings(matches []*models.Match, teamIDs []int, opts StandingsOptions) []*models.StandingEntry {
	if opts.PointsPerWin == 0 {
		opts.PointsPerWin = 2
	}
	chain := opts.TieBreaks
	if len(chain) == 0 {
		chain = DefaultTieBreaks
	}

	entries := make([]*models.StandingEntry, 0, len(teamIDs))
	byTeam := make(map[int]*models.StandingEntry, len(teamIDs))
	for _, id := range teamIDs {
		e := &models.StandingEntry{TeamID: id, GroupNumber: opts.Group, UpdatedAt: time.Now()}
		entries = append(entries, e)
		byTeam[id] = e
	}

	for _, m := range matches {
		if opts.Group != nil && (m.GroupNumber == nil || *m.GroupNumber != *opts.Group) {
			continue
		}
		if opts.WithRoundReached {
			noteRoundReached(byTeam, m)
		}
		if m.Status != models.MatchStatusCompleted && m.Status != models.MatchStatusForfeited {
			continue
		}
		winnerID := m.WinnerTeamID()
		loserID := m.LoserTeamID()
		if winnerID == nil {
			continue
		}

		if w, ok := byTeam[*winnerID]; ok {
			w.MatchesPlayed++
			w.MatchesWon++
			w.TotalPoints += opts.PointsPerWin
		}
		if loserID != nil {
			if l, ok := byTeam[*loserID]; ok {
				l.MatchesPlayed++
				l.MatchesLost++
				l.TotalPoints += opts.PointsPerLoss
			}
		}

		// forfeits count as a win/loss with zero games unless sets were
		// actually recorded
		for _, set := range m.Sets {
			if m.Team1ID != nil {
				if e, ok := byTeam[*m.Team1ID]; ok {
					e.GamesWon += set.Team1
					e.GamesLost += set.Team2
				}
			}
			if m.Team2ID != nil {
				if e, ok := byTeam[*m.Team2ID]; ok {
					e.GamesWon += set.Team2
					e.GamesLost += set.Team1
				}
			}
		}
	}

	for _, e := range entries {
		e.PointDifference = e.GamesWon - e.GamesLost
	}

	sort.SliceStable(entries, func(i, j int) bool {
		for _, tb := range chain {
			a, b := tieBreakValue(entries[i], tb), tieBreakValue(entries[j], tb)
			if a != b {
				return a > b
			}
		}
		return false
	})
	for i, e := range entries {
		e.Position = i + 1
	}
	return entries
}

func tieBreakValue(e *models.StandingEntry, tb TieBreak) int {
	switch tb {
	case TieBreakPoints:
		return e.TotalPoints
	case TieBreakPointDifference:
		return e.PointDifference
	case TieBreakGamesWon:
		return e.GamesWon
	case TieBreakMatchesWon:
		return e.MatchesWon
	}
	return 0
}

func noteRoundReached(byTeam map[int]*models.StandingEntry, m *models.Match) {
	for _, id := range []*int{m.Team1ID, m.Team2ID} {
		if id == nil {
			continue
		}
		if e, ok := byTeam[*id]; ok {
			if e.RoundReached == nil || *e.RoundReached < m.RoundNumber {
				r := m.RoundNumber
				e.RoundReached = &r
			}
		}
	}
}
