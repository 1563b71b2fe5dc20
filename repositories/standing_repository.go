package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/padelpoint/padel-system/models"
)

var ErrStandingNotFound = errors.New("standing not found")

type StandingRepository interface {
	// ReplaceForScope deletes the scope's previous rows and inserts the new
	// table in one shot; standings are a derived view and never patched.
	ReplaceForScope(ctx context.Context, exec SQLExecutor, bracketID int, group *int, entries []*models.StandingEntry) error
	ListByBracket(ctx context.Context, bracketID int, group *int) ([]*models.StandingEntry, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) exec(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStandingRepository) ReplaceForScope(ctx context.Context, exec SQLExecutor, bracketID int, group *int, entries []*models.StandingEntry) error {
	executor := r.exec(exec)

	if group == nil {
		if _, err := executor.ExecContext(ctx, `DELETE FROM standings WHERE bracket_id = $1 AND group_number IS NULL`, bracketID); err != nil {
			return fmt.Errorf("failed to clear standings for bracket %d: %w", bracketID, err)
		}
	} else {
		if _, err := executor.ExecContext(ctx, `DELETE FROM standings WHERE bracket_id = $1 AND group_number = $2`, bracketID, *group); err != nil {
			return fmt.Errorf("failed to clear standings for bracket %d group %d: %w", bracketID, *group, err)
		}
	}

	query := `
		INSERT INTO standings
			(bracket_id, team_id, group_number, position, total_points, matches_played,
			 matches_won, matches_lost, games_won, games_lost, point_difference, round_reached, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	for _, e := range entries {
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = time.Now()
		}
		err := executor.QueryRowContext(ctx, query,
			bracketID, e.TeamID, e.GroupNumber, e.Position, e.TotalPoints, e.MatchesPlayed,
			e.MatchesWon, e.MatchesLost, e.GamesWon, e.GamesLost, e.PointDifference, e.RoundReached, e.UpdatedAt,
		).Scan(&e.ID)
		if err != nil {
			return fmt.Errorf("failed to insert standing for team %d: %w", e.TeamID, err)
		}
		e.BracketID = bracketID
	}
	return nil
}

func (r *postgresStandingRepository) ListByBracket(ctx context.Context, bracketID int, group *int) ([]*models.StandingEntry, error) {
	var qb strings.Builder
	qb.WriteString(`
		SELECT id, bracket_id, team_id, group_number, position, total_points, matches_played,
		       matches_won, matches_lost, games_won, games_lost, point_difference, round_reached, updated_at
		FROM standings
		WHERE bracket_id = $1`)
	args := []interface{}{bracketID}
	if group != nil {
		qb.WriteString(" AND group_number = $2")
		args = append(args, *group)
	}
	qb.WriteString(" ORDER BY group_number NULLS FIRST, position ASC")

	rows, err := r.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings for bracket %d: %w", bracketID, err)
	}
	defer rows.Close()

	entries := make([]*models.StandingEntry, 0)
	for rows.Next() {
		e := &models.StandingEntry{}
		if err := rows.Scan(
			&e.ID, &e.BracketID, &e.TeamID, &e.GroupNumber, &e.Position, &e.TotalPoints, &e.MatchesPlayed,
			&e.MatchesWon, &e.MatchesLost, &e.GamesWon, &e.GamesLost, &e.PointDifference, &e.RoundReached, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
