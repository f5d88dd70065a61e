package repo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/domain"
)

// Postgres SQLSTATE codes this package translates into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// isPgCode reports whether err is a Postgres error with the given SQLSTATE.
func isPgCode(err error, code string) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr, true
	}
	return nil, false
}

// conflictOr converts a unique violation into domain.ErrConflict and leaves
// every other error untouched.
func conflictOr(err error) error {
	if pgErr, ok := isPgCode(err, pgUniqueViolation); ok {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}
	return err
}
