// internal/adapters/db/errors.go
package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
)

// wrapIntegrity classifies Postgres class-23 errors into the domain's
// integrity taxonomy so the replay engine can tell unique-key races apart
// from other constraint failures. Non-constraint errors pass through.
func wrapIntegrity(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return &domain.IntegrityViolationError{
			Constraint:      pgErr.ConstraintName,
			UniqueViolation: pgErr.Code == "23505",
			Err:             err,
		}
	}
	return err
}
