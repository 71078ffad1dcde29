package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "students_email_key"})

	assert.True(t, IsDuplicateConstraintError(err, "students_email_key"))
	assert.True(t, IsDuplicateConstraintError(err, ""))
	assert.False(t, IsDuplicateConstraintError(err, "students_student_id_key"))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom"), ""))
}

func TestForeignKeyAndCheckViolations(t *testing.T) {
	fk := &pgconn.PgError{Code: CodeForeignKeyViolation}
	check := &pgconn.PgError{Code: CodeCheckViolation, ConstraintName: "hostels_available_rooms_check"}

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(check))
	assert.True(t, IsCheckViolation(check))
	assert.False(t, IsCheckViolation(nil))
}
