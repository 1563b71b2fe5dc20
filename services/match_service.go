package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/padelpoint/padel-system/brackets"
	"github.com/padelpoint/padel-system/models"
	"github.com/padelpoint/padel-system/realtime"
	"github.com/padelpoint/padel-system/repositories"
	"github.com/padelpoint/padel-system/scoring"
)

type RecordScoreRequest struct {
	Sets models.SetScores `json:"sets"`
}

type MatchService interface {
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	// RecordScore validates and stores a final score, then advances the
	// winner (and semifinal loser, where a third place match exists) through
	// the bracket. Resubmitting the identical score line is a no-op.
	RecordScore(ctx context.Context, matchID int, req RecordScoreRequest) (*models.Match, error)
	// ManualAdvance records a winner without a score line, for walkovers the
	// organizer decides on site.
	ManualAdvance(ctx context.Context, matchID int, winnerSide int) (*models.Match, error)
	// WithdrawTeam forfeits every undecided match of the team in the bracket
	// and marks the team withdrawn. It returns the forfeited matches.
	WithdrawTeam(ctx context.Context, bracketID, teamID int) ([]*models.Match, error)
}

type matchService struct {
	db           *sql.DB
	bracketRepo  repositories.BracketRepository
	matchRepo    repositories.MatchRepository
	teamRepo     repositories.TeamRepository
	categoryRepo repositories.CategoryRepository
	standings    StandingsService
	hub          *realtime.Hub
	logger       *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	bracketRepo repositories.BracketRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	categoryRepo repositories.CategoryRepository,
	standings StandingsService,
	hub *realtime.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:           db,
		bracketRepo:  bracketRepo,
		matchRepo:    matchRepo,
		teamRepo:     teamRepo,
		categoryRepo: categoryRepo,
		standings:    standings,
		hub:          hub,
		logger:       logger,
	}
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrMatchNotFound)
	}
	return match, nil
}

func (s *matchService) RecordScore(ctx context.Context, matchID int, req RecordScoreRequest) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrMatchNotFound)
	}

	scoringCfg, err := s.matchScoringConfig(ctx, match.BracketID)
	if err != nil {
		return nil, err
	}

	var updated *models.Match
	err = runTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.bracketRepo.AcquireLock(ctx, tx, match.BracketID); err != nil {
			return err
		}
		// Reload under the lock: a concurrent submission may have landed
		// between the first read and lock acquisition.
		match, err = s.matchRepo.GetByID(ctx, tx, matchID)
		if err != nil {
			return mapRepoNotFound(err, repositories.ErrMatchNotFound)
		}
		if match.IsBye {
			return fmt.Errorf("%w: bye matches are resolved automatically", ErrIllegalTransition)
		}
		if match.IsDecided() {
			if match.Status == models.MatchStatusCompleted && setsEqual(match.Sets, req.Sets) {
				updated = match
				return nil
			}
			return fmt.Errorf("%w: match %d already has a result", ErrIllegalTransition, matchID)
		}

		validation := scoring.Validate(toScoringSets(req.Sets), scoringCfg)
		if !validation.Valid {
			return fmt.Errorf("%w: %s", ErrScoreValidation, validation.Reason)
		}
		if err := brackets.Complete(match, int(validation.Winner), req.Sets, models.MatchStatusCompleted); err != nil {
			return mapProgressionError(err)
		}
		if err := s.matchRepo.UpdateResult(ctx, tx, match); err != nil {
			return err
		}
		if err := s.propagate(ctx, tx, match, nil); err != nil {
			return err
		}
		updated = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMatchDecided(ctx, updated)
	return updated, nil
}

func (s *matchService) ManualAdvance(ctx context.Context, matchID int, winnerSide int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrMatchNotFound)
	}

	var updated *models.Match
	err = runTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.bracketRepo.AcquireLock(ctx, tx, match.BracketID); err != nil {
			return err
		}
		match, err = s.matchRepo.GetByID(ctx, tx, matchID)
		if err != nil {
			return mapRepoNotFound(err, repositories.ErrMatchNotFound)
		}
		if match.IsBye {
			return fmt.Errorf("%w: bye matches are resolved automatically", ErrIllegalTransition)
		}
		if err := brackets.Complete(match, winnerSide, nil, models.MatchStatusCompleted); err != nil {
			return mapProgressionError(err)
		}
		if err := s.matchRepo.UpdateResult(ctx, tx, match); err != nil {
			return err
		}
		if err := s.propagate(ctx, tx, match, nil); err != nil {
			return err
		}
		updated = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match advanced manually",
		slog.Int("match_id", matchID),
		slog.Int("winner_side", winnerSide))
	s.afterMatchDecided(ctx, updated)
	return updated, nil
}

func (s *matchService) WithdrawTeam(ctx context.Context, bracketID, teamID int) ([]*models.Match, error) {
	if _, err := s.bracketRepo.GetByID(ctx, nil, bracketID); err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrBracketNotFound)
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTeamNotFound)
	}

	var forfeited []*models.Match
	err = runTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.bracketRepo.AcquireLock(ctx, tx, bracketID); err != nil {
			return err
		}
		// Propagation can drop the withdrawn team into matches it was not in
		// when the pass started (e.g. the third place match), so keep
		// sweeping until a pass forfeits nothing.
		for {
			matches, err := s.matchRepo.ListByBracket(ctx, tx, bracketID, repositories.MatchFilter{})
			if err != nil {
				return err
			}
			changed := false
			for _, m := range matches {
				if !m.HasTeam(teamID) || m.IsDecided() {
					continue
				}
				if err := brackets.Forfeit(m, teamID); err != nil {
					return mapProgressionError(err)
				}
				if err := s.matchRepo.UpdateResult(ctx, tx, m); err != nil {
					return err
				}
				if err := s.propagate(ctx, tx, m, &forfeited); err != nil {
					return err
				}
				forfeited = append(forfeited, m)
				changed = true
			}
			if !changed {
				break
			}
		}
		if !team.Withdrawn {
			if err := s.teamRepo.SetWithdrawn(ctx, tx, teamID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team withdrawn",
		slog.Int("bracket_id", bracketID),
		slog.Int("team_id", teamID),
		slog.Int("forfeited_matches", len(forfeited)))
	s.hub.BroadcastBracketEvent(realtime.Event{
		Type:      realtime.EventTeamWithdrawn,
		BracketID: bracketID,
		Payload:   map[string]interface{}{"team_id": teamID, "forfeited_matches": forfeited},
	})
	s.recomputeStandings(ctx, bracketID, forfeited)
	return forfeited, nil
}

// propagate pushes the result of a decided match through the bracket: the
// winner into the successor slot, the loser into the third place match if
// one is linked. When the successor itself is already decided (a forfeit
// recorded against a then-unknown opponent), the arriving team keeps moving
// until it lands in an open match. Matches a withdrawn team lands in are
// forfeited on the spot; cascades is appended to when non-nil so withdrawal
// responses can report them.
func (s *matchService) propagate(ctx context.Context, tx *sql.Tx, m *models.Match, cascades *[]*models.Match) error {
	current := m
	for current.NextMatchID != nil {
		// A forfeit against a still-unknown opponent has no team to move
		// yet; the feeder match will carry it through once it resolves.
		if current.WinnerTeamID() == nil {
			return nil
		}
		next, err := s.matchRepo.GetByID(ctx, tx, *current.NextMatchID)
		if err != nil {
			return err
		}
		if _, err := brackets.Advance(current, next); err != nil {
			return err
		}
		if err := s.matchRepo.UpdateTeams(ctx, tx, next.ID, next.Team1ID, next.Team2ID, next.Status); err != nil {
			return err
		}
		if err := s.forfeitIfWithdrawn(ctx, tx, next, *current.WinnerTeamID(), cascades); err != nil {
			return err
		}
		if err := s.advanceLoser(ctx, tx, current, cascades); err != nil {
			return err
		}
		// A successor decided before its slot filled means the slot's team
		// won by forfeit; carry it forward.
		if next.WinnerTeam == nil || current.NextMatchPosition == nil || *next.WinnerTeam != *current.NextMatchPosition {
			return nil
		}
		current = next
	}
	return s.advanceLoser(ctx, tx, current, cascades)
}

func (s *matchService) advanceLoser(ctx context.Context, tx *sql.Tx, m *models.Match, cascades *[]*models.Match) error {
	if m.LoserNextMatchID == nil {
		return nil
	}
	third, err := s.matchRepo.GetByID(ctx, tx, *m.LoserNextMatchID)
	if err != nil {
		return err
	}
	if _, err := brackets.AdvanceLoser(m, third); err != nil {
		return err
	}
	if err := s.matchRepo.UpdateTeams(ctx, tx, third.ID, third.Team1ID, third.Team2ID, third.Status); err != nil {
		return err
	}
	loser := m.LoserTeamID()
	if loser == nil {
		return nil
	}
	return s.forfeitIfWithdrawn(ctx, tx, third, *loser, cascades)
}

// forfeitIfWithdrawn forfeits an undecided match that a withdrawn team just
// landed in. A team can withdraw while a feeder match is still open, so its
// withdrawal sweep never sees the matches it would have advanced into; this
// keeps the forfeit cascading when propagation fills those slots later.
func (s *matchService) forfeitIfWithdrawn(ctx context.Context, tx *sql.Tx, m *models.Match, teamID int, cascades *[]*models.Match) error {
	if m.IsDecided() {
		return nil
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return mapRepoNotFound(err, repositories.ErrTeamNotFound)
	}
	if !team.Withdrawn {
		return nil
	}
	if err := brackets.Forfeit(m, teamID); err != nil {
		return mapProgressionError(err)
	}
	if err := s.matchRepo.UpdateResult(ctx, tx, m); err != nil {
		return err
	}
	if cascades != nil {
		*cascades = append(*cascades, m)
	}
	return s.propagate(ctx, tx, m, cascades)
}

// afterMatchDecided emits the realtime event and refreshes derived standings.
// Both are best effort once the transaction has committed.
func (s *matchService) afterMatchDecided(ctx context.Context, match *models.Match) {
	s.hub.BroadcastBracketEvent(realtime.Event{
		Type:      realtime.EventMatchUpdated,
		BracketID: match.BracketID,
		Payload:   match,
	})
	s.recomputeStandings(ctx, match.BracketID, []*models.Match{match})
}

func (s *matchService) recomputeStandings(ctx context.Context, bracketID int, decided []*models.Match) {
	scopes := map[string]*int{}
	for _, m := range decided {
		if m.GroupNumber != nil {
			g := *m.GroupNumber
			scopes[fmt.Sprintf("g%d", g)] = &g
		} else {
			scopes["bracket"] = nil
		}
	}
	for _, group := range scopes {
		if _, err := s.standings.Recompute(ctx, bracketID, group); err != nil {
			s.logger.Warn("standings recompute failed",
				slog.Int("bracket_id", bracketID),
				slog.Any("error", err))
		}
	}
}

func (s *matchService) matchScoringConfig(ctx context.Context, bracketID int) (scoring.Config, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, nil, bracketID)
	if err != nil {
		return scoring.Config{}, mapRepoNotFound(err, repositories.ErrBracketNotFound)
	}
	category, err := s.categoryRepo.GetByID(ctx, bracket.CategoryID)
	if err != nil {
		return scoring.Config{}, mapRepoNotFound(err, repositories.ErrCategoryNotFound)
	}
	cfg, err := category.ScoringConfig()
	if err != nil {
		return scoring.Config{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return cfg, nil
}

// mapProgressionError translates bracket progression errors into the service
// error vocabulary.
func mapProgressionError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrMatchAlreadyDecided):
		return fmt.Errorf("%w: %v", ErrIllegalTransition, err)
	case errors.Is(err, brackets.ErrMatchMissingTeams):
		return fmt.Errorf("%w: %v", ErrIllegalTransition, err)
	case errors.Is(err, brackets.ErrNotInMatch):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return err
}
