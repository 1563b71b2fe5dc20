package brackets

import (
	"errors"
	"fmt"

	"github.com/padelpoint/padel-system/models"
)

var (
	ErrInsufficientTeams  = errors.New("not enough teams to generate a bracket (minimum 2)")
	ErrInvalidGroupConfig = errors.New("invalid group configuration")
	ErrUnsupportedFormat  = errors.New("unsupported bracket format")
)

// Match is one node of a freshly generated match graph. Edges reference
// match numbers rather than database ids: matches are generated in batch and
// only receive ids once persisted, so the caller resolves NextMatchNumber to
// next_match_id after insertion.
type Match struct {
	MatchNumber int
	RoundNumber int
	RoundName   *string
	Team1ID     *int
	Team2ID     *int
	WinnerTeam  *int
	Status      models.MatchStatus
	IsBye       bool
	GroupNumber *int

	NextMatchNumber      *int
	NextMatchPosition    *int
	LoserNextMatchNumber *int
}

// GenerateParams carries seeded teams plus the per-format configuration
// already decoded from the bracket's config blob.
type GenerateParams struct {
	Seeds  []Seed
	Config *models.BracketConfig
}

// Generator builds the initial match graph for one bracket format.
type Generator interface {
	Format() models.BracketFormat
	Generate(params GenerateParams) ([]*Match, error)
}

// NewGenerator selects the generator for a bracket format.
func NewGenerator(format models.BracketFormat) (Generator, error) {
	switch format {
	case models.FormatKnockout:
		return &KnockoutGenerator{}, nil
	case models.FormatRoundRobin:
		return &RoundRobinGenerator{}, nil
	case models.FormatGroupsKnockout:
		return &GroupsKnockoutGenerator{}, nil
	case models.FormatAmericano:
		return &AmericanoGenerator{}, nil
	case models.FormatMexicano:
		return &MexicanoGenerator{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

// roundName follows the fixed naming table keyed on the number of matches in
// the round.
func roundName(matchesInRound int) string {
	switch matchesInRound {
	case 1:
		return "Final"
	case 2:
		return "Semifinal"
	case 4:
		return "Quarterfinal"
	case 8:
		return "Round of 16"
	}
	return fmt.Sprintf("Round of %d", matchesInRound*2)
}

// initialStatus returns scheduled when both sides are known, pending while a
// slot still waits on a feeder match.
func initialStatus(team1, team2 *int) models.MatchStatus {
	if team1 != nil && team2 != nil {
		return models.MatchStatusScheduled
	}
	return models.MatchStatusPending
}
