package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/padelpoint/padel-system/models"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchBracketInvalid = errors.New("match bracket conflict or invalid")
	ErrMatchTeamInvalid    = errors.New("match team conflict or invalid")
)

// MatchFilter narrows ListByBracket. Nil fields are not applied.
type MatchFilter struct {
	Round  *int
	Group  *int
	Status *models.MatchStatus
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByBracket(ctx context.Context, exec SQLExecutor, bracketID int, filter MatchFilter) ([]*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateTeams(ctx context.Context, exec SQLExecutor, matchID int, team1ID, team2ID *int, status models.MatchStatus) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, matchID int, status models.MatchStatus) error
	UpdateLinks(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID, nextMatchPosition, loserNextMatchID *int) error
	DeleteByBracket(ctx context.Context, exec SQLExecutor, bracketID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) exec(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, bracket_id, uid, round_number, match_number, round_name, team1_id, team2_id,
	sets, winner_team, status, next_match_id, next_match_position, loser_next_match_id,
	group_number, is_bye, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(bracket_id, uid, round_number, match_number, round_name, team1_id, team2_id,
			 sets, winner_team, status, next_match_id, next_match_position, loser_next_match_id,
			 group_number, is_bye)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := r.exec(exec).QueryRowContext(ctx, query,
		match.BracketID,
		match.UID,
		match.RoundNumber,
		match.MatchNumber,
		match.RoundName,
		match.Team1ID,
		match.Team2ID,
		match.Sets,
		match.WinnerTeam,
		match.Status,
		match.NextMatchID,
		match.NextMatchPosition,
		match.LoserNextMatchID,
		match.GroupNumber,
		match.IsBye,
	).Scan(&match.ID, &match.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			if strings.Contains(pqErr.Constraint, "bracket") {
				return ErrMatchBracketInvalid
			}
			return ErrMatchTeamInvalid
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func scanMatch(scanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := scanner.Scan(
		&m.ID, &m.BracketID, &m.UID, &m.RoundNumber, &m.MatchNumber, &m.RoundName,
		&m.Team1ID, &m.Team2ID, &m.Sets, &m.WinnerTeam, &m.Status,
		&m.NextMatchID, &m.NextMatchPosition, &m.LoserNextMatchID,
		&m.GroupNumber, &m.IsBye, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatch(r.exec(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByBracket(ctx context.Context, exec SQLExecutor, bracketID int, filter MatchFilter) ([]*models.Match, error) {
	var qb strings.Builder
	qb.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE bracket_id = $1`)
	args := []interface{}{bracketID}

	appendFilter := func(column string, value interface{}) {
		args = append(args, value)
		qb.WriteString(" AND " + column + " = $" + strconv.Itoa(len(args)))
	}
	if filter.Round != nil {
		appendFilter("round_number", *filter.Round)
	}
	if filter.Group != nil {
		appendFilter("group_number", *filter.Group)
	}
	if filter.Status != nil {
		appendFilter("status", *filter.Status)
	}
	qb.WriteString(" ORDER BY match_number ASC")

	rows, err := r.exec(exec).QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for bracket %d: %w", bracketID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET sets = $1, winner_team = $2, status = $3
		WHERE id = $4`
	result, err := r.exec(exec).ExecContext(ctx, query, match.Sets, match.WinnerTeam, match.Status, match.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateTeams(ctx context.Context, exec SQLExecutor, matchID int, team1ID, team2ID *int, status models.MatchStatus) error {
	query := `UPDATE matches SET team1_id = $1, team2_id = $2, status = $3 WHERE id = $4`
	result, err := r.exec(exec).ExecContext(ctx, query, team1ID, team2ID, status, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, matchID int, status models.MatchStatus) error {
	result, err := r.exec(exec).ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateLinks(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID, nextMatchPosition, loserNextMatchID *int) error {
	query := `UPDATE matches SET next_match_id = $1, next_match_position = $2, loser_next_match_id = $3 WHERE id = $4`
	result, err := r.exec(exec).ExecContext(ctx, query, nextMatchID, nextMatchPosition, loserNextMatchID, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByBracket(ctx context.Context, exec SQLExecutor, bracketID int) error {
	_, err := r.exec(exec).ExecContext(ctx, `DELETE FROM matches WHERE bracket_id = $1`, bracketID)
	return err
}
