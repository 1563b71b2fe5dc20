package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/padelpoint/padel-system/brackets"
	"github.com/padelpoint/padel-system/models"
	"github.com/padelpoint/padel-system/scoring"
)

// runTx runs fn inside a transaction, committing on nil and rolling back on
// error or panic.
func runTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// mapEngineError translates bracket engine errors into the service error
// vocabulary so handlers map them to the right status codes.
func mapEngineError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, brackets.ErrInvalidTeamList):
		return fmt.Errorf("%w: %v", ErrTeamListInvalid, err)
	case errors.Is(err, brackets.ErrInsufficientTeams):
		return ErrInsufficientTeams
	case errors.Is(err, brackets.ErrInvalidGroupConfig):
		return fmt.Errorf("%w: %v", ErrInvalidGroupConfig, err)
	case errors.Is(err, brackets.ErrUnsupportedFormat):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return err
}

// toScoringSets converts stored set scores into the validator's input type.
func toScoringSets(sets models.SetScores) []scoring.Set {
	out := make([]scoring.Set, len(sets))
	for i, s := range sets {
		out[i] = scoring.Set{
			Team1:         s.Team1,
			Team2:         s.Team2,
			TiebreakTeam1: s.TiebreakTeam1,
			TiebreakTeam2: s.TiebreakTeam2,
		}
	}
	return out
}

// setsEqual reports whether two submitted score lines are identical,
// including tiebreak sub-scores. Used for idempotent resubmission checks.
func setsEqual(a, b models.SetScores) bool {
	if len(a) != len(b) {
		return false
	}
	intPtrEq := func(x, y *int) bool {
		if x == nil || y == nil {
			return x == y
		}
		return *x == *y
	}
	for i := range a {
		if a[i].Team1 != b[i].Team1 || a[i].Team2 != b[i].Team2 {
			return false
		}
		if !intPtrEq(a[i].TiebreakTeam1, b[i].TiebreakTeam1) || !intPtrEq(a[i].TiebreakTeam2, b[i].TiebreakTeam2) {
			return false
		}
	}
	return true
}
