package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cep-backoffice/internal/domain"
	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
)

func TestBuildList_DayRange(t *testing.T) {
	q := repository.Query{}.
		Where("createdAt", repository.OpGte, "2026-10-15T05:00:00.000000000Z").
		Where("createdAt", repository.OpLt, "2026-10-16T05:00:00.000000000Z")

	sql, args, err := buildList("stock_products", q)
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT id, fields FROM documents WHERE collection = $1")
	assert.Contains(t, sql, "fields->>($2::text) >= $3")
	assert.Contains(t, sql, "fields->>($4::text) < $5")
	assert.Contains(t, sql, "ORDER BY id")
	assert.Equal(t, []any{
		"stock_products",
		"createdAt", "2026-10-15T05:00:00.000000000Z",
		"createdAt", "2026-10-16T05:00:00.000000000Z",
	}, args)
}

func TestBuildList_UnknownOperator(t *testing.T) {
	q := repository.Query{Conditions: []repository.Condition{{Field: "name", Op: "like", Value: "x"}}}
	_, _, err := buildList("stock_products", q)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildUpdate_WithExpectation(t *testing.T) {
	sql, args, err := buildUpdate("counters", "receipt",
		map[string]any{"currentId": "1000"},
		map[string]any{"currentId": "1001"})
	require.NoError(t, err)

	assert.Contains(t, sql, "UPDATE documents SET fields = fields || $1::jsonb, updated_at = now()")
	assert.Contains(t, sql, "fields->>($4::text) = $5")
	assert.Contains(t, sql, "RETURNING fields")
	require.Len(t, args, 5)
	assert.JSONEq(t, `{"currentId":"1001"}`, args[0].(string))
	assert.Equal(t, "currentId", args[3])
	assert.Equal(t, "1000", args[4])
}

func TestBuildUpdate_ExpectationOrderIsStable(t *testing.T) {
	expect := map[string]any{"revision": int64(3), "lastUpdated": "t"}
	first, _, err := buildUpdate("stock_products", "p", expect, map[string]any{"revision": 4})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, _, err := buildUpdate("stock_products", "p", expect, map[string]any{"revision": 4})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTextValue(t *testing.T) {
	assert.Equal(t, "abc", textValue("abc"))
	assert.Equal(t, "7", textValue(float64(7)))
	assert.Equal(t, "7", textValue(int64(7)))
	assert.Equal(t, "1.5", textValue(1.5))
}

func TestWrapErr(t *testing.T) {
	err := wrapErr("get", errors.New("dial tcp: connection refused"))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	err = wrapErr("get", &pgconn.PgError{Code: "42P01"})
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)

	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(errors.New("otro")))
}
