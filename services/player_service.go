package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/padelpoint/padel-system/models"
	"github.com/padelpoint/padel-system/repositories"
	"github.com/padelpoint/padel-system/storage"
)

type CreatePlayerInput struct {
	UserID    *int    `json:"user_id,omitempty"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Ranking   float64 `json:"ranking_points"`
}

type PlayerService interface {
	Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	Get(ctx context.Context, playerID int) (*models.Player, error)
	UploadPhoto(ctx context.Context, playerID int, filename, contentType string, file io.Reader) (*models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader, logger *slog.Logger) PlayerService {
	return &playerService{playerRepo: playerRepo, uploader: uploader, logger: logger}
}

func (s *playerService) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	if first == "" || last == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	player := &models.Player{
		UserID:        input.UserID,
		FirstName:     first,
		LastName:      last,
		RankingPoints: input.Ranking,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *playerService) Get(ctx context.Context, playerID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrPlayerNotFound)
	}
	s.fillPhotoURL(player)
	return player, nil
}

func (s *playerService) UploadPhoto(ctx context.Context, playerID int, filename, contentType string, file io.Reader) (*models.Player, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: file storage is not configured", ErrInvalidInput)
	}
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrPlayerNotFound)
	}

	key := fmt.Sprintf("players/%d/photo/%s%s", playerID, uuid.NewString(), path.Ext(filename))
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload player photo: %w", err)
	}

	oldKey := player.PhotoKey
	if err := s.playerRepo.UpdatePhotoKey(ctx, playerID, &result.Key); err != nil {
		return nil, err
	}
	player.PhotoKey = &result.Key
	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous player photo",
				slog.Int("player_id", playerID),
				slog.Any("error", err))
		}
	}
	s.fillPhotoURL(player)
	return player, nil
}

func (s *playerService) fillPhotoURL(p *models.Player) {
	if p.PhotoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*p.PhotoKey)
	p.PhotoURL = &url
}
