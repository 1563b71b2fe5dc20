package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/padelpoint/padel-system/brackets"
	"github.com/padelpoint/padel-system/models"
	"github.com/padelpoint/padel-system/notify"
	"github.com/padelpoint/padel-system/realtime"
	"github.com/padelpoint/padel-system/repositories"
	"golang.org/x/sync/errgroup"
)

type CreateBracketRequest struct {
	TournamentID  int                  `json:"tournament_id"`
	CategoryID    int                  `json:"category_id"`
	Format        models.BracketFormat `json:"format"`
	SeedingMethod models.SeedingMethod `json:"seeding_method"`
	Config        *string              `json:"config,omitempty"`
}

// BracketData bundles everything a client needs to render one bracket.
type BracketData struct {
	Bracket   *models.Bracket         `json:"bracket"`
	Teams     []*models.Team          `json:"teams"`
	Matches   []*models.Match         `json:"matches"`
	Standings []*models.StandingEntry `json:"standings"`
}

type BracketService interface {
	CreateBracket(ctx context.Context, req CreateBracketRequest) (*models.Bracket, error)
	GenerateMatches(ctx context.Context, bracketID int) ([]*models.Match, error)
	AssignGroups(ctx context.Context, bracketID int, groups [][]int) ([]*models.Match, error)
	Publish(ctx context.Context, bracketID int) (*models.Bracket, error)
	GetBracketData(ctx context.Context, bracketID int) (*BracketData, error)
	GenerateKnockoutStage(ctx context.Context, bracketID int) ([]*models.Match, error)
	NextMexicanoRound(ctx context.Context, bracketID int) ([]*models.Match, error)
}

type bracketService struct {
	db             *sql.DB
	bracketRepo    repositories.BracketRepository
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	categoryRepo   repositories.CategoryRepository
	tournamentRepo repositories.TournamentRepository
	userRepo       repositories.UserRepository
	standingRepo   repositories.StandingRepository
	notifier       notify.Notifier
	hub            *realtime.Hub
	logger         *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	bracketRepo repositories.BracketRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	categoryRepo repositories.CategoryRepository,
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	standingRepo repositories.StandingRepository,
	notifier notify.Notifier,
	hub *realtime.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:             db,
		bracketRepo:    bracketRepo,
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		categoryRepo:   categoryRepo,
		tournamentRepo: tournamentRepo,
		userRepo:       userRepo,
		standingRepo:   standingRepo,
		notifier:       notifier,
		hub:            hub,
		logger:         logger,
	}
}

func (s *bracketService) CreateBracket(ctx context.Context, req CreateBracketRequest) (*models.Bracket, error) {
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrCategoryNotFound)
	}

	bracket := &models.Bracket{
		TournamentID:  req.TournamentID,
		CategoryID:    req.CategoryID,
		Format:        req.Format,
		Status:        models.BracketStatusDraft,
		SeedingMethod: req.SeedingMethod,
		ConfigJSON:    req.Config,
	}
	if bracket.SeedingMethod == "" {
		bracket.SeedingMethod = models.SeedingRanking
	}
	// reject malformed format/config before touching storage
	if _, err := bracket.ParseConfig(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.bracketRepo.Create(ctx, nil, bracket); err != nil {
		return nil, err
	}
	return bracket, nil
}

func (s *bracketService) GenerateMatches(ctx context.Context, bracketID int) ([]*models.Match, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, nil, bracketID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrBracketNotFound)
	}
	cfg, err := bracket.ParseConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	existing, err := s.matchRepo.ListByBracket(ctx, nil, bracketID, repositories.MatchFilter{})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrBracketAlreadyGenerated
	}

	seeds, err := s.seedCategoryTeams(ctx, bracket)
	if err != nil {
		return nil, err
	}

	generator, err := brackets.NewGenerator(bracket.Format)
	if err != nil {
		return nil, mapEngineError(err)
	}
	generated, err := generator.Generate(brackets.GenerateParams{Seeds: seeds, Config: cfg})
	if err != nil {
		return nil, mapEngineError(err)
	}

	var saved []*models.Match
	err = runTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.bracketRepo.AcquireLock(ctx, tx, bracketID); err != nil {
			return err
		}
		saved, err = s.saveGeneratedMatches(ctx, tx, bracketID, generated)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bracket matches generated",
		slog.Int("bracket_id", bracketID),
		slog.String("format", string(bracket.Format)),
		slog.Int("matches", len(saved)))
	return saved, nil
}

func (s *bracketService) seedCategoryTeams(ctx context.Context, bracket *models.Bracket) ([]brackets.Seed, error) {
	teams, err := s.teamRepo.ListByCategory(ctx, bracket.CategoryID)
	if err != nil {
		return nil, err
	}
	teamIDs := make([]int, 0, len(teams))
	rankings := make(map[int]float64, len(teams))
	for _, t := range teams {
		if t.Withdrawn {
			continue
		}
		teamIDs = append(teamIDs, t.ID)
		rankings[t.ID] = t.RankingPoints
	}
	if len(teamIDs) < 2 {
		return nil, ErrInsufficientTeams
	}
	seeds, err := brackets.SeedTeams(teamIDs, bracket.SeedingMethod, rankings)
	if err != nil {
		return nil, mapEngineError(err)
	}
	return seeds, nil
}

// saveGeneratedMatches persists a generated match graph in two passes: first
// every match row, then the forward/loser edges once database ids exist for
// the referenced match numbers.
func (s *bracketService) saveGeneratedMatches(ctx context.Context, tx *sql.Tx, bracketID int, generated []*brackets.Match) ([]*models.Match, error) {
	saved := make([]*models.Match, 0, len(generated))
	idByNumber := make(map[int]int, len(generated))

	for _, gm := range generated {
		m := &models.Match{
			BracketID:   bracketID,
			UID:         fmt.Sprintf("R%dM%d", gm.RoundNumber, gm.MatchNumber),
			RoundNumber: gm.RoundNumber,
			MatchNumber: gm.MatchNumber,
			RoundName:   gm.RoundName,
			Team1ID:     gm.Team1ID,
			Team2ID:     gm.Team2ID,
			WinnerTeam:  gm.WinnerTeam,
			Status:      gm.Status,
			GroupNumber: gm.GroupNumber,
			IsBye:       gm.IsBye,
		}
		if err := s.matchRepo.Create(ctx, tx, m); err != nil {
			return nil, err
		}
		idByNumber[gm.MatchNumber] = m.ID
		saved = append(saved, m)
	}

	for i, gm := range generated {
		if gm.NextMatchNumber == nil && gm.LoserNextMatchNumber == nil {
			continue
		}
		m := saved[i]
		if gm.NextMatchNumber != nil {
			id := idByNumber[*gm.NextMatchNumber]
			m.NextMatchID = &id
			m.NextMatchPosition = gm.NextMatchPosition
		}
		if gm.LoserNextMatchNumber != nil {
			id := idByNumber[*gm.LoserNextMatchNumber]
			m.LoserNextMatchID = &id
		}
		if err := s.matchRepo.UpdateLinks(ctx, tx, m.ID, m.NextMatchID, m.NextMatchPosition, m.LoserNextMatchID); err != nil {
			return nil, err
		}
	}
	return saved, nil
}

func (s *bracketService) AssignGroups(ctx context.Context, bracketID int, groups [][]int) ([]*models.Match, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, nil, bracketID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrBracketNotFound)
	}
	if bracket.Format != models.FormatGroupsKnockout {
		return nil, fmt.Errorf("%w: bracket format is %s", ErrInvalidInput, bracket.Format)
	}
	if bracket.Status != models.BracketStatusDraft {
		return nil, fmt.Errorf("%w: groups can only be reassigned while the bracket is a draft", ErrIllegalTransition)
	}
	cfg, err := bracket.ParseConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	gk := cfg.GroupsKnockout
	if len(groups) != gk.GroupCount {
		return nil, fmt.Errorf("%w: expected %d groups, got %d", ErrInvalidGroupConfig, gk.GroupCount, len(groups))
	}

	teams, err := s.teamRepo.ListByCategory(ctx, bracket.CategoryID)
	if err != nil {
		return nil, err
	}
	known := make(map[int]bool, len(teams))
	for _, t := range teams {
		if !t.Withdrawn {
			known[t.ID] = true
		}
	}

	seen := make(map[int]bool)
	seedGroups := make([][]brackets.Seed, len(groups))
	rank := 1
	for gi, group := range groups {
		if len(group) != gk.TeamsPerGroup {
			return nil, fmt.Errorf("%w: group %d has %d teams, expected %d", ErrInvalidGroupConfig, gi+1, len(group), gk.TeamsPerGroup)
		}
		for _, teamID := range group {
			if !known[teamID] {
				return nil, fmt.Errorf("%w: team %d is not registered in this category", ErrInvalidGroupConfig, teamID)
			}
			if seen[teamID] {
				return nil, fmt.Errorf("%w: team %d assigned twice", ErrInvalidGroupConfig, teamID)
			}
			seen[teamID] = true
			seedGroups[gi] = append(seedGroups[gi], brackets.Seed{TeamID: teamID, Rank: rank})
			rank++
		}
	}
	if len(seen) != len(known) {
		return nil, fmt.Errorf("%w: all %d registered teams must be assigned", ErrInvalidGroupConfig, len(known))
	}

	generated := brackets.GenerateGroupStage(seedGroups)

	var saved []*models.Match
	err = runTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.bracketRepo.AcquireLock(ctx, tx, bracketID); err != nil {
			return err
		}
		if err := s.matchRepo.DeleteByBracket(ctx, tx, bracketID); err != nil {
			return err
		}
		saved, err = s.saveGeneratedMatches(ctx, tx, bracketID, generated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *bracketService) Publish(ctx context.Context, bracketID int) (*models.Bracket, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, nil, bracketID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrBracketNotFound)
	}
	if bracket.Status == models.BracketStatusPublished {
		return nil, ErrBracketAlreadyPublished
	}
	if err := s.bracketRepo.UpdateStatus(ctx, nil, bracketID, models.BracketStatusPublished); err != nil {
		return nil, err
	}
	bracket.Status = models.BracketStatusPublished

	s.hub.BroadcastBracketEvent(realtime.Event{
		Type:      realtime.EventBracketPublished,
		BracketID: bracketID,
	})
	s.notifyPublished(ctx, bracket)

	s.logger.Info("bracket published", slog.Int("bracket_id", bracketID))
	return bracket, nil
}

// notifyPublished emails the organizer. Best effort: failures are logged and
// never fail the publish.
func (s *bracketService) notifyPublished(ctx context.Context, bracket *models.Bracket) {
	tournament, err := s.tournamentRepo.GetByID(ctx, bracket.TournamentID)
	if err != nil {
		s.logger.Warn("publish notification skipped: tournament lookup failed", slog.Int("bracket_id", bracket.ID), slog.Any("error", err))
		return
	}
	category, err := s.categoryRepo.GetByID(ctx, bracket.CategoryID)
	if err != nil {
		s.logger.Warn("publish notification skipped: category lookup failed", slog.Int("bracket_id", bracket.ID), slog.Any("error", err))
		return
	}
	organizer, err := s.userRepo.GetByID(ctx, tournament.OrganizerID)
	if err != nil {
		s.logger.Warn("publish notification skipped: organizer lookup failed", slog.Int("bracket_id", bracket.ID), slog.Any("error", err))
		return
	}
	if err := s.notifier.BracketPublished(ctx, organizer.Email, tournament.Name, category.Name); err != nil {
		s.logger.Warn("publish notification failed", slog.Int("bracket_id", bracket.ID), slog.Any("error", err))
	}
}

func (s *bracketService) GetBracketData(ctx context.Context, bracketID int) (*BracketData, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, nil, bracketID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrBracketNotFound)
	}

	data := &BracketData{Bracket: bracket}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matches, err := s.matchRepo.ListByBracket(gCtx, nil, bracketID, repositories.MatchFilter{})
		if err != nil {
			return fmt.Errorf("failed to load matches for bracket %d: %w", bracketID, err)
		}
		data.Matches = matches
		return nil
	})
	g.Go(func() error {
		teams, err := s.teamRepo.ListByCategory(gCtx, bracket.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to load teams for bracket %d: %w", bracketID, err)
		}
		data.Teams = teams
		return nil
	})
	g.Go(func() error {
		standings, err := s.standingRepo.ListByBracket(gCtx, bracketID, nil)
		if err != nil {
			return fmt.Errorf("failed to load standings for bracket %d: %w", bracketID, err)
		}
		data.Standings = standings
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *bracketService) GenerateKnockoutStage(ctx context.Context, bracketID int) ([]*models.Match, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, nil, bracketID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrBracketNotFound)
	}
	if bracket.Format != models.FormatGroupsKnockout {
		return nil, fmt.Errorf("%w: bracket format is %s", ErrInvalidInput, bracket.Format)
	}
	if bracket.KnockoutGenerated {
		return nil, ErrKnockoutAlreadyGenerated
	}
	cfg, err := bracket.ParseConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	gk := cfg.GroupsKnockout

	matches, err := s.matchRepo.ListByBracket(ctx, nil, bracketID, repositories.MatchFilter{})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: group stage has no matches", ErrIllegalTransition)
	}

	lastMatchNumber, lastRound := 0, 0
	groupMatches := make(map[int][]*models.Match)
	for _, m := range matches {
		if m.MatchNumber > lastMatchNumber {
			lastMatchNumber = m.MatchNumber
		}
		if m.GroupNumber == nil {
			continue
		}
		if !m.IsDecided() {
			return nil, ErrGroupStageNotFinished
		}
		if m.RoundNumber > lastRound {
			lastRound = m.RoundNumber
		}
		groupMatches[*m.GroupNumber] = append(groupMatches[*m.GroupNumber], m)
	}

	pointsCfg := standingsPoints(cfg)

	qualifiers := make([]brackets.GroupQualifier, 0, gk.GroupCount*gk.AdvancingPerGroup)
	for pos := 1; pos <= gk.AdvancingPerGroup; pos++ {
		for group := 1; group <= gk.GroupCount; group++ {
			gm := groupMatches[group]
			standings := brackets.ComputeStandings(gm, teamIDsInMatches(gm), brackets.StandingsOptions{
				PointsPerWin:  pointsCfg.PointsPerWin,
				PointsPerLoss: pointsCfg.PointsPerLoss,
				Group:         &group,
			})
			if pos > len(standings) {
				return nil, fmt.Errorf("%w: group %d has fewer than %d teams", ErrInvalidGroupConfig, group, pos)
			}
			qualifiers = append(qualifiers, brackets.GroupQualifier{
				TeamID:      standings[pos-1].TeamID,
				GroupNumber: group,
				Position:    pos,
			})
		}
	}

	generated, err := brackets.GenerateKnockoutStage(qualifiers, gk, lastMatchNumber+1, lastRound+1)
	if err != nil {
		return nil, mapEngineError(err)
	}

	var saved []*models.Match
	err = runTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.bracketRepo.AcquireLock(ctx, tx, bracketID); err != nil {
			return err
		}
		if saved, err = s.saveGeneratedMatches(ctx, tx, bracketID, generated); err != nil {
			return err
		}
		return s.bracketRepo.SetKnockoutGenerated(ctx, tx, bracketID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("knockout stage generated", slog.Int("bracket_id", bracketID), slog.Int("matches", len(saved)))
	return saved, nil
}

func (s *bracketService) NextMexicanoRound(ctx context.Context, bracketID int) ([]*models.Match, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, nil, bracketID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrBracketNotFound)
	}
	if bracket.Format != models.FormatMexicano {
		return nil, fmt.Errorf("%w: bracket format is %s", ErrInvalidInput, bracket.Format)
	}

	matches, err := s.matchRepo.ListByBracket(ctx, nil, bracketID, repositories.MatchFilter{})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: bracket has no opening round", ErrIllegalTransition)
	}

	lastMatchNumber, lastRound := 0, 0
	for _, m := range matches {
		if !m.IsDecided() {
			return nil, ErrRoundNotFinished
		}
		if m.MatchNumber > lastMatchNumber {
			lastMatchNumber = m.MatchNumber
		}
		if m.RoundNumber > lastRound {
			lastRound = m.RoundNumber
		}
	}

	cfg, err := bracket.ParseConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	pointsCfg := standingsPoints(cfg)
	standings := brackets.ComputeStandings(matches, teamIDsInMatches(matches), brackets.StandingsOptions{
		PointsPerWin:  pointsCfg.PointsPerWin,
		PointsPerLoss: pointsCfg.PointsPerLoss,
	})

	generated, err := brackets.NextMexicanoRound(standings, lastRound+1, lastMatchNumber+1)
	if err != nil {
		return nil, mapEngineError(err)
	}

	var saved []*models.Match
	err = runTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.bracketRepo.AcquireLock(ctx, tx, bracketID); err != nil {
			return err
		}
		saved, err = s.saveGeneratedMatches(ctx, tx, bracketID, generated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// standingsPoints picks the round-robin points settings out of a parsed
// config, falling back to the two-points-per-win default for formats that
// carry no points configuration of their own.
func standingsPoints(cfg *models.BracketConfig) *models.RoundRobinConfig {
	if cfg.RoundRobin != nil {
		return cfg.RoundRobin
	}
	return &models.RoundRobinConfig{PointsPerWin: 2}
}

// teamIDsInMatches collects team ids in first-appearance order, which fixes
// the deterministic tie-break fallback order.
func teamIDsInMatches(matches []*models.Match) []int {
	seen := make(map[int]bool)
	ids := make([]int, 0)
	for _, m := range matches {
		for _, id := range []*int{m.Team1ID, m.Team2ID} {
			if id != nil && !seen[*id] {
				seen[*id] = true
				ids = append(ids, *id)
			}
		}
	}
	return ids
}

// mapRepoNotFound folds repository not-found sentinels into the service's
// ErrNotFound while passing other errors through.
func mapRepoNotFound(err, notFound error) error {
	if errors.Is(err, notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
