package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports a unique index rejection, e.g. a second active
// appointment on the same slot.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

func IsExclusionConflict(err error) bool {
	return pgCode(err) == pgExclusionViolation
}
