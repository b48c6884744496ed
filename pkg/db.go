package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const pgCodeForeignKeyViolation = "23503"

// PgErrorCode returns the SQLSTATE of a postgres error anywhere in the
// chain, or "" when err did not come from the server.
func PgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsForeignKeyViolationError is true when a write referenced a missing
// row, e.g. a run for a deleted athlete.
func IsForeignKeyViolationError(err error) bool {
	return PgErrorCode(err) == pgCodeForeignKeyViolation
}
