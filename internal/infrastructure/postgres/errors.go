package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/classical-review/pkg/apperror"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	// malformed input for a typed column, e.g. "c1" for a UUID id
	invalidTextRepresentation = "22P02"
)

// translate maps driver errors onto the apperror taxonomy so nothing
// pgx-specific escapes this package.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperror.Conflict(conflictMessage(pgErr.ConstraintName))
		case foreignKeyViolation, invalidTextRepresentation:
			// the referenced row does not exist or cannot exist
			return apperror.ErrNotFound
		}
	}
	return apperror.Storage("Database error encountered.", fmt.Errorf("%s: %w", op, err), map[string]any{"operation": op})
}

func conflictMessage(constraint string) string {
	switch constraint {
	case "users_username_key":
		return "Username is already taken."
	case "users_email_key":
		return "Email is already registered."
	case "reviews_user_id_composition_id_key":
		return "User has already reviewed this composition."
	case "liked_reviews_pkey":
		return "Review is already liked."
	default:
		return "Resource already exists."
	}
}

// existsResult reports ids that cannot match any row as absent.
func existsResult(op string, ok bool, err error) (bool, error) {
	if err == nil {
		return ok, nil
	}
	err = translate(op, err)
	if errors.Is(err, apperror.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// affectedOne turns a zero-row command into ErrNotFound.
func affectedOne(op string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return translate(op, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 50 {
		return 20
	}
	return limit
}
