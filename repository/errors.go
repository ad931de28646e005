package repository

import (
	"errors"
	"fmt"

	"ecochampions/service"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// mapPgError translates lock and constraint failures into service errors.
// Other errors are returned unchanged.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, service.ErrConflict)
	case pgSerializationFailure, pgDeadlockDetected:
		return fmt.Errorf("%s: %w", pgErr.Message, service.ErrConflict)
	}
	return err
}
