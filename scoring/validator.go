package scoring

import "fmt"

// Set is one submitted set score. Tiebreak points are required for sets that
// went to a tiebreak (e.g. 7-6 in classic scoring).
type Set struct {
	Team1         int
	Team2         int
	TiebreakTeam1 *int
	TiebreakTeam2 *int
}

func (s Set) winnerSide() Side {
	if s.Team1 > s.Team2 {
		return Side1
	}
	return Side2
}

func (s Set) hasTiebreak() bool {
	return s.TiebreakTeam1 != nil && s.TiebreakTeam2 != nil
}

// Validation is the outcome of validating a submitted score. When Valid is
// false, Reason describes the first violated rule and the remaining fields
// are zero.
type Validation struct {
	Valid     bool
	Winner    Side
	Team1Sets int
	Team2Sets int
	Reason    string
}

func invalid(format string, args ...interface{}) Validation {
	return Validation{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks a full submitted score against the configured format and
// returns the match winner with the set split, or the first violated rule.
// It is pure: no state, no side effects, deterministic.
func Validate(sets []Set, cfg Config) Validation {
	if len(sets) == 0 {
		return invalid("no sets submitted")
	}
	if len(sets) > cfg.TotalSets {
		return invalid("too many sets: got %d, format allows at most %d", len(sets), cfg.TotalSets)
	}

	need := cfg.SetsToWin()
	var won [3]int // indexed by Side

	for i, set := range sets {
		if won[Side1] >= need || won[Side2] >= need {
			return invalid("set %d recorded after the match was already decided", i+1)
		}
		var v Validation
		switch cfg.Format {
		case FormatExpress:
			v = validateExpressSet(i, set, cfg)
		default:
			v = validateClassicSet(i, set, cfg)
		}
		if !v.Valid {
			return v
		}
		won[set.winnerSide()]++
	}

	switch {
	case won[Side1] >= need:
		return Validation{Valid: true, Winner: Side1, Team1Sets: won[Side1], Team2Sets: won[Side2]}
	case won[Side2] >= need:
		return Validation{Valid: true, Winner: Side2, Team1Sets: won[Side1], Team2Sets: won[Side2]}
	}
	return invalid("match not decided: %d-%d in sets, %d needed to win", won[Side1], won[Side2], need)
}

func validateClassicSet(idx int, set Set, cfg Config) Validation {
	a, b := set.Team1, set.Team2
	if a < 0 || b < 0 {
		return invalid("set %d: scores cannot be negative (%d-%d)", idx+1, a, b)
	}
	if a == b {
		return invalid("set %d: scores cannot be equal (%d-%d)", idx+1, a, b)
	}
	w, l := a, b
	if b > a {
		w, l = b, a
	}

	g := cfg.GamesPerSet
	switch {
	case w == g && w-l >= 2:
		return Validation{Valid: true}
	case w == g+1 && l == g-1 && cfg.TiebreakAllowed():
		// the extended "7-5" set
		return Validation{Valid: true}
	case w == g+1 && l == g && cfg.TiebreakAllowed():
		if !set.hasTiebreak() {
			return invalid("set %d: %d-%d requires a tiebreak score", idx+1, w, l)
		}
		return Validation{Valid: true}
	}
	return invalid("set %d: invalid score %d-%d", idx+1, a, b)
}

func validateExpressSet(idx int, set Set, cfg Config) Validation {
	a, b := set.Team1, set.Team2
	max := cfg.MaxPoints
	if a < 0 || b < 0 {
		return invalid("set %d: scores cannot be negative (%d-%d)", idx+1, a, b)
	}
	if a == max && b == max {
		return invalid("set %d: both sides cannot reach %d points", idx+1, max)
	}
	if a > max || b > max {
		return invalid("set %d: score exceeds the %d point cap", idx+1, max)
	}
	if a != max && b != max {
		return invalid("set %d: neither side reached %d points", idx+1, max)
	}
	return Validation{Valid: true}
}
