package brackets

import (
	"fmt"

	"github.com/padelpoint/padel-system/models"
)

// GroupsKnockoutGenerator builds the group stage of a hybrid bracket: teams
// are distributed into groups and each group plays a round robin. The
// knockout stage is generated separately once group play completes, via
// GenerateKnockoutStage.
type GroupsKnockoutGenerator struct{}

func (g *GroupsKnockoutGenerator) Format() models.BracketFormat {
	return models.FormatGroupsKnockout
}

func (g *GroupsKnockoutGenerator) Generate(params GenerateParams) ([]*Match, error) {
	if len(params.Seeds) < 2 {
		return nil, ErrInsufficientTeams
	}
	if params.Config == nil || params.Config.GroupsKnockout == nil {
		return nil, fmt.Errorf("%w: missing groups_knockout config", ErrInvalidGroupConfig)
	}
	cfg := params.Config.GroupsKnockout
	if err := validateGroupConfig(cfg, len(params.Seeds)); err != nil {
		return nil, err
	}

	return GenerateGroupStage(AssignGroups(params.Seeds, cfg.GroupCount)), nil
}

// GenerateGroupStage builds a round robin per group, tagged with the group
// number and numbered continuously. Groups may also come from an explicit
// caller-supplied assignment instead of AssignGroups.
func GenerateGroupStage(groups [][]Seed) []*Match {
	matches := make([]*Match, 0)
	matchNumber := 1
	for gi, groupSeeds := range groups {
		groupMatches, next := roundRobinMatches(groupSeeds, intPtr(gi+1), matchNumber, 1)
		matchNumber = next
		matches = append(matches, groupMatches...)
	}
	return matches
}

func validateGroupConfig(cfg *models.GroupsKnockoutConfig, teamCount int) error {
	if cfg.GroupCount < 1 || cfg.TeamsPerGroup < 2 {
		return fmt.Errorf("%w: need at least one group of two teams", ErrInvalidGroupConfig)
	}
	if cfg.GroupCount*cfg.TeamsPerGroup != teamCount {
		return fmt.Errorf("%w: %d groups of %d do not fit %d teams",
			ErrInvalidGroupConfig, cfg.GroupCount, cfg.TeamsPerGroup, teamCount)
	}
	if cfg.AdvancingPerGroup < 1 || cfg.AdvancingPerGroup >= cfg.TeamsPerGroup {
		return fmt.Errorf("%w: advancing_per_group must be in [1, teams_per_group)", ErrInvalidGroupConfig)
	}
	return nil
}

// AssignGroups distributes seeds over groupCount groups with a serpentine
// pass: 1..G left to right, G+1..2G right to left, and so on, spreading top
// seeds evenly.
func AssignGroups(seeds []Seed, groupCount int) [][]Seed {
	groups := make([][]Seed, groupCount)
	for i, s := range seeds {
		pass := i / groupCount
		idx := i % groupCount
		if pass%2 == 1 {
			idx = groupCount - 1 - idx
		}
		groups[idx] = append(groups[idx], s)
	}
	return groups
}

// GroupQualifier is a team advancing out of its group, with its final group
// position (1 = group winner).
type GroupQualifier struct {
	TeamID      int
	GroupNumber int
	Position    int
}

// GenerateKnockoutStage seeds the knockout stage from group finishers. The
// seed list interleaves finishers position-major (all winners, then all
// runners-up, ...), which under standard slotting pairs group winners against
// other groups' runners-up. A fixup pass swaps sides when same-group pairings
// are still avoidable. Match and round numbering continue from the group
// stage.
func GenerateKnockoutStage(qualifiers []GroupQualifier, cfg *models.GroupsKnockoutConfig, startMatchNumber, startRound int) ([]*Match, error) {
	if len(qualifiers) < 2 {
		return nil, ErrInsufficientTeams
	}

	seeds := make([]Seed, len(qualifiers))
	groupOf := make(map[int]int, len(qualifiers))
	for i, q := range qualifiers {
		seeds[i] = Seed{TeamID: q.TeamID, Rank: i + 1}
		groupOf[q.TeamID] = q.GroupNumber
	}

	thirdPlace := cfg != nil && cfg.ThirdPlaceMatch
	matches, err := buildKnockout(seeds, buildKnockoutOptions{
		startMatchNumber: startMatchNumber,
		startRound:       startRound,
		thirdPlaceMatch:  thirdPlace,
	})
	if err != nil {
		return nil, err
	}

	avoidSameGroupPairings(matches, startRound, groupOf)
	return matches, nil
}

// avoidSameGroupPairings swaps team2 slots between first-round matches when a
// pairing puts two teams of the same group against each other and a swap
// resolves it without creating a new clash. Best effort only: with enough
// qualifiers per group such pairings can be unavoidable.
func avoidSameGroupPairings(matches []*Match, firstRound int, groupOf map[int]int) {
	var first []*Match
	for _, m := range matches {
		if m.RoundNumber == firstRound {
			first = append(first, m)
		}
	}
	sameGroup := func(m *Match) bool {
		if m.Team1ID == nil || m.Team2ID == nil {
			return false
		}
		return groupOf[*m.Team1ID] == groupOf[*m.Team2ID]
	}
	for _, m := range first {
		if !sameGroup(m) {
			continue
		}
		for _, other := range first {
			if other == m || other.Team2ID == nil {
				continue
			}
			m.Team2ID, other.Team2ID = other.Team2ID, m.Team2ID
			if !sameGroup(m) && !sameGroup(other) {
				break
			}
			m.Team2ID, other.Team2ID = other.Team2ID, m.Team2ID
		}
	}
}
