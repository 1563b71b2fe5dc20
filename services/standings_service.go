package services

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/padelpoint/padel-system/brackets"
	"github.com/padelpoint/padel-system/models"
	"github.com/padelpoint/padel-system/realtime"
	"github.com/padelpoint/padel-system/repositories"
)

type StandingsService interface {
	// Recompute rebuilds the standings table for a bracket, or for one group
	// of it when group is non-nil, and persists the result.
	Recompute(ctx context.Context, bracketID int, group *int) ([]*models.StandingEntry, error)
	List(ctx context.Context, bracketID int, group *int) ([]*models.StandingEntry, error)
}

type standingsService struct {
	db           *sql.DB
	bracketRepo  repositories.BracketRepository
	matchRepo    repositories.MatchRepository
	standingRepo repositories.StandingRepository
	hub          *realtime.Hub
	logger       *slog.Logger
}

func NewStandingsService(
	db *sql.DB,
	bracketRepo repositories.BracketRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	hub *realtime.Hub,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		db:           db,
		bracketRepo:  bracketRepo,
		matchRepo:    matchRepo,
		standingRepo: standingRepo,
		hub:          hub,
		logger:       logger,
	}
}

func (s *standingsService) Recompute(ctx context.Context, bracketID int, group *int) ([]*models.StandingEntry, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, nil, bracketID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrBracketNotFound)
	}
	cfg, err := bracket.ParseConfig()
	if err != nil {
		return nil, err
	}

	filter := repositories.MatchFilter{Group: group}
	matches, err := s.matchRepo.ListByBracket(ctx, nil, bracketID, filter)
	if err != nil {
		return nil, err
	}

	points := standingsPoints(cfg)
	opts := brackets.StandingsOptions{
		PointsPerWin:  points.PointsPerWin,
		PointsPerLoss: points.PointsPerLoss,
		Group:         group,
	}
	if bracket.Format == models.FormatKnockout {
		opts.WithRoundReached = true
	}

	entries := brackets.ComputeStandings(matches, teamIDsInMatches(matches), opts)

	err = runTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.standingRepo.ReplaceForScope(ctx, tx, bracketID, group, entries)
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastBracketEvent(realtime.Event{
		Type:      realtime.EventStandingsUpdated,
		BracketID: bracketID,
		Payload:   entries,
	})
	return entries, nil
}

func (s *standingsService) List(ctx context.Context, bracketID int, group *int) ([]*models.StandingEntry, error) {
	if _, err := s.bracketRepo.GetByID(ctx, nil, bracketID); err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrBracketNotFound)
	}
	return s.standingRepo.ListByBracket(ctx, bracketID, group)
}
