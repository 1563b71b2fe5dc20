package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/padelpoint/padel-system/models"
	"github.com/padelpoint/padel-system/repositories"
	"github.com/padelpoint/padel-system/storage"
)

type CreateTournamentInput struct {
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ClubName    *string   `json:"club_name,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

type UpdateTournamentInput struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	ClubName    *string    `json:"club_name,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	Get(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error)
	Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
	ChangeStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error

	UploadPoster(ctx context.Context, id int, filename, contentType string, file io.Reader) (*models.Tournament, error)

	AddCategory(ctx context.Context, tournamentID int, name string, scoringJSON *string) (*models.Category, error)
	ListCategories(ctx context.Context, tournamentID int) ([]*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID int) error
}

// tournamentStatusTransitions is the allowed lifecycle graph. Canceled is
// terminal; completed is terminal.
var tournamentStatusTransitions = map[models.TournamentStatus][]models.TournamentStatus{
	models.TournamentStatusDraft:        {models.TournamentStatusRegistration, models.TournamentStatusCanceled},
	models.TournamentStatusRegistration: {models.TournamentStatusActive, models.TournamentStatusCanceled},
	models.TournamentStatusActive:       {models.TournamentStatusCompleted, models.TournamentStatusCanceled},
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	categoryRepo   repositories.CategoryRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	categoryRepo repositories.CategoryRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		categoryRepo:   categoryRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, ErrTournamentInvalidDateRange
	}

	tournament := &models.Tournament{
		Name:        name,
		Description: input.Description,
		ClubName:    input.ClubName,
		OrganizerID: organizerID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      models.TournamentStatusDraft,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) Get(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTournamentNotFound)
	}
	s.fillPosterURL(tournament)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	for _, t := range tournaments {
		s.fillPosterURL(t)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTournamentNotFound)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTournamentNameRequired
		}
		tournament.Name = name
	}
	if input.Description != nil {
		tournament.Description = input.Description
	}
	if input.ClubName != nil {
		tournament.ClubName = input.ClubName
	}
	if input.StartDate != nil {
		tournament.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		tournament.EndDate = *input.EndDate
	}
	if !tournament.EndDate.After(tournament.StartDate) {
		return nil, ErrTournamentInvalidDateRange
	}

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, err
	}
	s.fillPosterURL(tournament)
	return tournament, nil
}

func (s *tournamentService) ChangeStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTournamentNotFound)
	}

	allowed := false
	for _, next := range tournamentStatusTransitions[tournament.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrTournamentInvalidStatusChange, tournament.Status, status)
	}

	tournament.Status = status
	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, err
	}
	s.logger.Info("tournament status changed",
		slog.Int("tournament_id", id),
		slog.String("status", string(status)))
	s.fillPosterURL(tournament)
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return mapRepoNotFound(err, repositories.ErrTournamentNotFound)
	}
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return err
	}
	if tournament.PosterKey != nil && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *tournament.PosterKey); err != nil {
			s.logger.Warn("failed to delete tournament poster",
				slog.Int("tournament_id", id),
				slog.Any("error", err))
		}
	}
	return nil
}

func (s *tournamentService) UploadPoster(ctx context.Context, id int, filename, contentType string, file io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: file storage is not configured", ErrInvalidInput)
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTournamentNotFound)
	}

	key := fmt.Sprintf("tournaments/%d/poster/%s%s", id, uuid.NewString(), path.Ext(filename))
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload poster: %w", err)
	}

	oldKey := tournament.PosterKey
	if err := s.tournamentRepo.UpdatePosterKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}
	tournament.PosterKey = &result.Key
	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous poster",
				slog.Int("tournament_id", id),
				slog.Any("error", err))
		}
	}
	s.fillPosterURL(tournament)
	return tournament, nil
}

func (s *tournamentService) AddCategory(ctx context.Context, tournamentID int, name string, scoringJSON *string) (*models.Category, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTournamentNotFound)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTournamentCategoryNameRequired
	}

	category := &models.Category{
		TournamentID: tournamentID,
		Name:         name,
		ScoringJSON:  scoringJSON,
	}
	// reject a malformed scoring blob before storing it
	if _, err := category.ScoringConfig(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *tournamentService) ListCategories(ctx context.Context, tournamentID int) ([]*models.Category, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrTournamentNotFound)
	}
	return s.categoryRepo.ListByTournament(ctx, tournamentID)
}

func (s *tournamentService) DeleteCategory(ctx context.Context, categoryID int) error {
	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return mapRepoNotFound(err, repositories.ErrCategoryNotFound)
	}
	return nil
}

func (s *tournamentService) fillPosterURL(t *models.Tournament) {
	if t.PosterKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*t.PosterKey)
	t.PosterURL = &url
}
