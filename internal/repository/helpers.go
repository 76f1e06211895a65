package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

func recipeIDsToUUIDs(ids []kernel.RecipeID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		out[i] = id.UUID()
	}
	return out
}

// translateError maps a pgx/Postgres failure onto this package's sentinel
// errors so callers never need to import pgx just to check for a missing
// row or a unique-constraint violation.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" { // unique_violation
			return ErrConflict
		}
	}

	return err
}
