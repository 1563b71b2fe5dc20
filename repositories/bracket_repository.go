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
	ErrBracketNotFound        = errors.New("bracket not found")
	ErrBracketCategoryInvalid = errors.New("bracket category conflict or invalid")
)

type BracketRepository interface {
	Create(ctx context.Context, exec SQLExecutor, bracket *models.Bracket) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Bracket, error)
	ListByCategory(ctx context.Context, categoryID int) ([]*models.Bracket, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.BracketStatus) error
	SetKnockoutGenerated(ctx context.Context, exec SQLExecutor, id int) error
	Delete(ctx context.Context, id int) error
	// AcquireLock takes the per-bracket transaction advisory lock, giving
	// at-most-one-writer semantics for read-validate-write sequences. The
	// lock is released when the transaction ends.
	AcquireLock(ctx context.Context, tx *sql.Tx, bracketID int) error
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

func (r *postgresBracketRepository) exec(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const bracketColumns = `id, tournament_id, category_id, format, status, seeding_method, config_json, knockout_generated, created_at`

func (r *postgresBracketRepository) Create(ctx context.Context, exec SQLExecutor, bracket *models.Bracket) error {
	query := `
		INSERT INTO brackets (tournament_id, category_id, format, status, seeding_method, config_json, knockout_generated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.exec(exec).QueryRowContext(ctx, query,
		bracket.TournamentID,
		bracket.CategoryID,
		bracket.Format,
		bracket.Status,
		bracket.SeedingMethod,
		bracket.ConfigJSON,
		bracket.KnockoutGenerated,
	).Scan(&bracket.ID, &bracket.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrBracketCategoryInvalid
		}
		return fmt.Errorf("failed to create bracket: %w", err)
	}
	return nil
}

func (r *postgresBracketRepository) scan(row *sql.Row) (*models.Bracket, error) {
	b := &models.Bracket{}
	err := row.Scan(
		&b.ID, &b.TournamentID, &b.CategoryID, &b.Format, &b.Status,
		&b.SeedingMethod, &b.ConfigJSON, &b.KnockoutGenerated, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *postgresBracketRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Bracket, error) {
	query := `SELECT ` + bracketColumns + ` FROM brackets WHERE id = $1`
	return r.scan(r.exec(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresBracketRepository) ListByCategory(ctx context.Context, categoryID int) ([]*models.Bracket, error) {
	query := `SELECT ` + bracketColumns + ` FROM brackets WHERE category_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list brackets for category %d: %w", categoryID, err)
	}
	defer rows.Close()

	brackets := make([]*models.Bracket, 0)
	for rows.Next() {
		b := &models.Bracket{}
		if err := rows.Scan(
			&b.ID, &b.TournamentID, &b.CategoryID, &b.Format, &b.Status,
			&b.SeedingMethod, &b.ConfigJSON, &b.KnockoutGenerated, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bracket row: %w", err)
		}
		brackets = append(brackets, b)
	}
	return brackets, rows.Err()
}

func (r *postgresBracketRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.BracketStatus) error {
	result, err := r.exec(exec).ExecContext(ctx, `UPDATE brackets SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func (r *postgresBracketRepository) SetKnockoutGenerated(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.exec(exec).ExecContext(ctx, `UPDATE brackets SET knockout_generated = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func (r *postgresBracketRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM brackets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func (r *postgresBracketRepository) AcquireLock(ctx context.Context, tx *sql.Tx, bracketID int) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, bracketID); err != nil {
		return fmt.Errorf("failed to acquire bracket %d lock: %w", bracketID, err)
	}
	return nil
}
