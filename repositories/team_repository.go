package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/padelpoint/padel-system/models"
)

var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamNameConflict    = errors.New("team name already registered in this category")
	ErrTeamPlayerInvalid   = errors.New("team player conflict or invalid")
	ErrTeamCategoryInvalid = errors.New("team category conflict or invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByCategory(ctx context.Context, categoryID int) ([]*models.Team, error)
	SetWithdrawn(ctx context.Context, exec SQLExecutor, teamID int) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, category_id, name, player1_id, player2_id, ranking_points, withdrawn, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (category_id, name, player1_id, player2_id, ranking_points)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.CategoryID, team.Name, team.Player1ID, team.Player2ID, team.RankingPoints,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return ErrTeamNameConflict
			case "23503":
				if pqErr.Constraint == "teams_category_id_fkey" {
					return ErrTeamCategoryInvalid
				}
				return ErrTeamPlayerInvalid
			}
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	t := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.CategoryID, &t.Name, &t.Player1ID, &t.Player2ID, &t.RankingPoints, &t.Withdrawn, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTeamRepository) ListByCategory(ctx context.Context, categoryID int) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE category_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for category %d: %w", categoryID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t := &models.Team{}
		if err := rows.Scan(
			&t.ID, &t.CategoryID, &t.Name, &t.Player1ID, &t.Player2ID, &t.RankingPoints, &t.Withdrawn, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) SetWithdrawn(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := SQLExecutor(r.db)
	if exec != nil {
		executor = exec
	}
	result, err := executor.ExecContext(ctx, `UPDATE teams SET withdrawn = TRUE WHERE id = $1`, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
