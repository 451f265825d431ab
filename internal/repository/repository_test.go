package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/stemsi/school-records/internal/model"
)

func TestLookup(t *testing.T) {
	got, ok := Found(model.Course{ID: "CS101"}).Get()
	assert.True(t, ok)
	assert.Equal(t, "CS101", got.ID)

	empty, ok := NotFound[model.Course]().Get()
	assert.False(t, ok)
	assert.Zero(t, empty)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

func TestLockClause(t *testing.T) {
	assert.Empty(t, (&Postgres{}).lockClause())
	assert.Equal(t, " FOR UPDATE", (&Postgres{inTx: true}).lockClause())
}
