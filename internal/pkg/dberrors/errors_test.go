package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	dup := &pgconn.PgError{Code: UniqueViolation, ConstraintName: "users_username_key"}
	check := fmt.Errorf("insert student: %w", &pgconn.PgError{Code: CheckViolation, ConstraintName: "students_sex_check"})
	serial := &pgconn.PgError{Code: SerializationFail}
	plain := errors.New("boom")

	assert.True(t, IsDuplicateConstraintError(dup, "users_username_key"))
	assert.False(t, IsDuplicateConstraintError(dup, "other_key"))
	assert.True(t, IsUniqueViolation(dup))
	assert.False(t, IsUniqueViolation(check))

	assert.True(t, IsConstraintViolation(check))
	assert.False(t, IsConstraintViolation(serial))
	assert.False(t, IsConstraintViolation(plain))

	assert.Equal(t, "students_sex_check", ConstraintName(check))
	assert.Empty(t, ConstraintName(plain))
}
