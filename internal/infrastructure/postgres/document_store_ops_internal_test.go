package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cep-backoffice/internal/domain"
	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
)

var errDial = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

func TestDocumentStore_Get(t *testing.T) {
	q := &scriptedQuerier{rows: []scriptedRow{
		{values: []any{map[string]any{"currentId": "1000"}}},
		{err: pgx.ErrNoRows},
		{err: errDial},
	}}
	s := NewDocumentStore(q)
	ctx := context.Background()

	doc, err := s.GetDocument(ctx, "counters", "receipt")
	require.NoError(t, err)
	assert.Equal(t, "receipt", doc.ID)
	assert.Equal(t, "1000", doc.Fields["currentId"])

	_, err = s.GetDocument(ctx, "counters", "receipt")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.GetDocument(ctx, "counters", "receipt")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestDocumentStore_CreateDuplicate(t *testing.T) {
	q := &scriptedQuerier{rows: []scriptedRow{
		{values: []any{map[string]any{"name": "Silla"}}},
		{err: &pgconn.PgError{Code: "23505"}},
	}}
	s := NewDocumentStore(q)
	ctx := context.Background()

	doc, err := s.CreateDocument(ctx, "stock_products", "p1", map[string]any{"name": "Silla"})
	require.NoError(t, err)
	assert.Equal(t, "Silla", doc.Fields["name"])

	_, err = s.CreateDocument(ctx, "stock_products", "p1", map[string]any{"name": "Silla"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestDocumentStore_UpdateMissing(t *testing.T) {
	q := &scriptedQuerier{rows: []scriptedRow{{err: pgx.ErrNoRows}}}
	_, err := NewDocumentStore(q).UpdateDocument(context.Background(), "counters", "receipt", map[string]any{"currentId": "1001"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_UpdateDocumentIf(t *testing.T) {
	ctx := context.Background()
	expect := map[string]any{"currentId": "1000"}
	fields := map[string]any{"currentId": "1001"}

	t.Run("aplica", func(t *testing.T) {
		q := &scriptedQuerier{rows: []scriptedRow{{values: []any{map[string]any{"currentId": "1001"}}}}}
		doc, err := NewDocumentStore(q).UpdateDocumentIf(ctx, "counters", "receipt", expect, fields)
		require.NoError(t, err)
		assert.Equal(t, "1001", doc.Fields["currentId"])
		assert.Contains(t, q.sql[0], "fields->>($4::text) = $5")
	})

	t.Run("otro escritor se adelantó", func(t *testing.T) {
		q := &scriptedQuerier{rows: []scriptedRow{
			{err: pgx.ErrNoRows},
			{values: []any{map[string]any{"currentId": "1002"}}},
		}}
		_, err := NewDocumentStore(q).UpdateDocumentIf(ctx, "counters", "receipt", expect, fields)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("documento inexistente", func(t *testing.T) {
		q := &scriptedQuerier{rows: []scriptedRow{{err: pgx.ErrNoRows}, {err: pgx.ErrNoRows}}}
		_, err := NewDocumentStore(q).UpdateDocumentIf(ctx, "counters", "receipt", expect, fields)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("sin conexión", func(t *testing.T) {
		q := &scriptedQuerier{rows: []scriptedRow{{err: errDial}}}
		_, err := NewDocumentStore(q).UpdateDocumentIf(ctx, "counters", "receipt", expect, fields)
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}

func TestDocumentStore_Delete(t *testing.T) {
	q := &scriptedQuerier{execs: []execResult{
		{tag: pgconn.NewCommandTag("DELETE 1")},
		{tag: pgconn.NewCommandTag("DELETE 0")},
	}}
	s := NewDocumentStore(q)

	require.NoError(t, s.DeleteDocument(context.Background(), "stock_products", "p1"))
	assert.ErrorIs(t, s.DeleteDocument(context.Background(), "stock_products", "p1"), domain.ErrNotFound)
}

func TestDocumentStore_List(t *testing.T) {
	q := &scriptedQuerier{lists: []*scriptedRows{{data: [][]any{
		{"a", map[string]any{"name": "Silla"}},
		{"b", map[string]any{"name": "Mesa"}},
	}}}}

	docs, err := NewDocumentStore(q).ListDocuments(context.Background(), "stock_products", repository.Query{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "Mesa", docs[1].Fields["name"])
}

func TestDocumentStore_ListUnavailable(t *testing.T) {
	q := &scriptedQuerier{lists: []*scriptedRows{{queryErr: errDial}}}
	_, err := NewDocumentStore(q).ListDocuments(context.Background(), "stock_products", repository.Query{})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
