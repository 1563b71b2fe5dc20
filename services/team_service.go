package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/padelpoint/padel-system/models"
	"github.com/padelpoint/padel-system/repositories"
)

type RegisterTeamInput struct {
	Name      string  `json:"name"`
	Player1ID int     `json:"player1_id"`
	Player2ID *int    `json:"player2_id,omitempty"`
	Ranking   float64 `json:"ranking_points"`
}

type TeamService interface {
	Register(ctx context.Context, categoryID int, input RegisterTeamInput) (*models.Team, error)
	Get(ctx context.Context, teamID int) (*models.Team, error)
	ListByCategory(ctx context.Context, categoryID int) ([]*models.Team, error)
	Remove(ctx context.Context, teamID int) error
}

type teamService struct {
	teamRepo     repositories.TeamRepository
	categoryRepo repositories.CategoryRepository
	playerRepo   repositories.PlayerRepository
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	categoryRepo repositories.CategoryRepository,
	playerRepo repositories.PlayerRepository,
) TeamService {
	return &teamService{
		teamRepo:     teamRepo,
		categoryRepo: categoryRepo,
		playerRepo:   playerRepo,
	}
}

func (s *teamService) Register(ctx context.Context, categoryID int, input RegisterTeamInput) (*models.Team, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrCategoryNotFound)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if input.Player2ID != nil && *input.Player2ID == input.Player1ID {
		return nil, fmt.Errorf("%w: a team needs two distinct players", ErrInvalidInput)
	}

	ranking := input.Ranking
	if ranking == 0 {
		ranking = s.combinedPlayerRanking(ctx, input)
	}

	team := &models.Team{
		CategoryID:    categoryID,
		Name:          name,
		Player1ID:     input.Player1ID,
		Player2ID:     input.Player2ID,
		RankingPoints: ranking,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		if errors.Is(err, repositories.ErrTeamCategoryInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}
	return team, nil
}

// combinedPlayerRanking sums the pair's individual rankings when the team
// itself has none. Unknown players count as zero.
func (s *teamService) combinedPlayerRanking(ctx context.Context, input RegisterTeamInput) float64 {
	total := 0.0
	ids := []int{input.Player1ID}
	if input.Player2ID != nil {
		ids = append(ids, *input.Player2ID)
	}
	for _, id := range ids {
		player, err := s.playerRepo.GetByID(ctx, id)
		if err != nil {
			continue
		}
		total += player.RankingPoints
	}
	return total
}

func (s *teamService) Get(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTeamNotFound)
	}
	return team, nil
}

func (s *teamService) ListByCategory(ctx context.Context, categoryID int) ([]*models.Team, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrCategoryNotFound)
	}
	return s.teamRepo.ListByCategory(ctx, categoryID)
}

func (s *teamService) Remove(ctx context.Context, teamID int) error {
	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return mapRepoNotFound(err, repositories.ErrTeamNotFound)
	}
	return nil
}
