package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportNilError(t *testing.T) {
	r := Report(nil)
	assert.Empty(t, r.TopMessage)
	assert.Nil(t, r.Postgres)
}

func TestReportCapturesCodeAndChain(t *testing.T) {
	err := fmt.Errorf("saving ticket: %w", New(CodeStateConflict, "transition already applied"))

	r := Report(err)
	assert.Equal(t, CodeStateConflict, r.Code)
	require.Len(t, r.Chain, 2)
	assert.Nil(t, r.Postgres)
}

func TestReportSurfacesPgxDetails(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "tickets_pkey",
		TableName:      "tickets",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeInternal, fmt.Errorf("inserting ticket: %w", pgErr), "insert failed")

	r := Report(err)
	require.NotNil(t, r.Postgres)
	assert.Equal(t, "23505", r.Postgres.Code)
	assert.Equal(t, "tickets_pkey", r.Postgres.Constraint)
	assert.Equal(t, "tickets", r.Postgres.Table)
}
