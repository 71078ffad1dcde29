package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories react to
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsDuplicateConstraintError checks if the error is a unique violation on constraintName.
// An empty constraintName matches any unique violation.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == CodeUniqueViolation &&
		(constraintName == "" || pgErr.ConstraintName == constraintName)
}

// IsForeignKeyViolation reports a missing referenced row
func IsForeignKeyViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == CodeForeignKeyViolation
}

// IsCheckViolation reports a failed CHECK constraint
func IsCheckViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == CodeCheckViolation
}
