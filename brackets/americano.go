package brackets

import (
	"fmt"
	"sort"

	"github.com/padelpoint/padel-system/models"
)

// AmericanoGenerator builds the social padel format: every entrant meets
// every other entrant once, with the circle method spreading matches over
// rounds so each entrant plays (at most) once per round. Scores are normally
// express (points to a cap), but that is the category's concern.
type AmericanoGenerator struct{}

func (g *AmericanoGenerator) Format() models.BracketFormat {
	return models.FormatAmericano
}

func (g *AmericanoGenerator) Generate(params GenerateParams) ([]*Match, error) {
	if len(params.Seeds) < 2 {
		return nil, ErrInsufficientTeams
	}
	matches, _ := roundRobinMatches(params.Seeds, nil, 1, 1)
	for _, m := range matches {
		m.RoundName = strPtr(fmt.Sprintf("Round %d", m.RoundNumber))
	}
	return matches, nil
}

// MexicanoGenerator builds only the opening round up front; every following
// round is paired from the live standings via NextMexicanoRound, so the match
// graph grows as the event progresses.
type MexicanoGenerator struct{}

func (g *MexicanoGenerator) Format() models.BracketFormat {
	return models.FormatMexicano
}

func (g *MexicanoGenerator) Generate(params GenerateParams) ([]*Match, error) {
	if len(params.Seeds) < 2 {
		return nil, ErrInsufficientTeams
	}
	matches := make([]*Match, 0, len(params.Seeds)/2)
	matchNumber := 1
	for i := 0; i+1 < len(params.Seeds); i += 2 {
		matches = append(matches, &Match{
			MatchNumber: matchNumber,
			RoundNumber: 1,
			RoundName:   strPtr("Round 1"),
			Team1ID:     intPtr(params.Seeds[i].TeamID),
			Team2ID:     intPtr(params.Seeds[i+1].TeamID),
			Status:      models.MatchStatusScheduled,
		})
		matchNumber++
	}
	return matches, nil
}

// NextMexicanoRound pairs adjacent standings (1v2, 3v4, ...) into the next
// round. With an odd entrant count the bottom-ranked entrant sits the round
// out. Match numbering continues from startMatchNumber.
func NextMexicanoRound(standings []*models.StandingEntry, round, startMatchNumber int) ([]*Match, error) {
	if len(standings) < 2 {
		return nil, ErrInsufficientTeams
	}
	ordered := make([]*models.StandingEntry, len(standings))
	copy(ordered, standings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	matches := make([]*Match, 0, len(ordered)/2)
	matchNumber := startMatchNumber
	for i := 0; i+1 < len(ordered); i += 2 {
		matches = append(matches, &Match{
			MatchNumber: matchNumber,
			RoundNumber: round,
			RoundName:   strPtr(fmt.Sprintf("Round %d", round)),
			Team1ID:     intPtr(ordered[i].TeamID),
			Team2ID:     intPtr(ordered[i+1].TeamID),
			Status:      models.MatchStatusScheduled,
		})
		matchNumber++
	}
	return matches, nil
}
