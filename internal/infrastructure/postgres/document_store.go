package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/cep-backoffice/internal/domain"
	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
)

// Querier abstrae *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ repository.ConditionalStore = (*DocumentStore)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DocumentStore implementa el almacén de documentos sobre una tabla JSONB.
type DocumentStore struct {
	q Querier
}

// NewDocumentStore construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentStore(q Querier) *DocumentStore {
	return &DocumentStore{q: q}
}

func (s *DocumentStore) GetDocument(ctx context.Context, collection, id string) (*repository.Document, error) {
	query, args, err := psql.Select("fields").From(documentsTable).
		Where(sq.Eq{"collection": collection, "id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get: %w", err)
	}
	var fields map[string]any
	if err := s.q.QueryRow(ctx, query, args...).Scan(&fields); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("get document", err)
	}
	return &repository.Document{ID: id, Fields: fields}, nil
}

func (s *DocumentStore) CreateDocument(ctx context.Context, collection, id string, fields map[string]any) (*repository.Document, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("serializar campos: %w", err)
	}
	query, args, err := psql.Insert(documentsTable).
		Columns("collection", "id", "fields").
		Values(collection, id, sq.Expr("?::jsonb", string(raw))).
		Suffix("RETURNING fields").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create: %w", err)
	}
	var stored map[string]any
	if err := s.q.QueryRow(ctx, query, args...).Scan(&stored); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, wrapErr("create document", err)
	}
	return &repository.Document{ID: id, Fields: stored}, nil
}

func (s *DocumentStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) (*repository.Document, error) {
	query, args, err := buildUpdate(collection, id, nil, fields)
	if err != nil {
		return nil, err
	}
	var stored map[string]any
	if err := s.q.QueryRow(ctx, query, args...).Scan(&stored); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("update document", err)
	}
	return &repository.Document{ID: id, Fields: stored}, nil
}

// UpdateDocumentIf aplica el UPDATE solo si los campos esperados coinciden (una sola sentencia).
// Sin filas afectadas se distingue entre documento inexistente y conflicto.
func (s *DocumentStore) UpdateDocumentIf(ctx context.Context, collection, id string, expect, fields map[string]any) (*repository.Document, error) {
	query, args, err := buildUpdate(collection, id, expect, fields)
	if err != nil {
		return nil, err
	}
	var stored map[string]any
	err = s.q.QueryRow(ctx, query, args...).Scan(&stored)
	if err == nil {
		return &repository.Document{ID: id, Fields: stored}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, wrapErr("conditional update", err)
	}
	if _, getErr := s.GetDocument(ctx, collection, id); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrConflict
}

func (s *DocumentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	query, args, err := psql.Delete(documentsTable).
		Where(sq.Eq{"collection": collection, "id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("delete document", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) ListDocuments(ctx context.Context, collection string, q repository.Query) ([]*repository.Document, error) {
	query, args, err := buildList(collection, q)
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list documents", err)
	}
	defer rows.Close()
	var list []*repository.Document
	for rows.Next() {
		var d repository.Document
		if err := rows.Scan(&d.ID, &d.Fields); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list documents", err)
	}
	return list, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// buildList traduce la query a SQL. Los campos se comparan como texto (fields->>k);
// las fechas se guardan con ancho fijo, por lo que >= y < funcionan lexicográficamente.
func buildList(collection string, q repository.Query) (string, []any, error) {
	sb := psql.Select("id", "fields").From(documentsTable).
		Where(sq.Eq{"collection": collection})
	for _, c := range q.Conditions {
		var op string
		switch c.Op {
		case repository.OpEq:
			op = "="
		case repository.OpGte:
			op = ">="
		case repository.OpLt:
			op = "<"
		default:
			return "", nil, fmt.Errorf("%w: operador %q", domain.ErrInvalidInput, c.Op)
		}
		sb = sb.Where("fields->>(?::text) "+op+" ?", c.Field, textValue(c.Value))
	}
	query, args, err := sb.OrderBy("id").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build list: %w", err)
	}
	return query, args, nil
}

func buildUpdate(collection, id string, expect, fields map[string]any) (string, []any, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", nil, fmt.Errorf("serializar campos: %w", err)
	}
	ub := psql.Update(documentsTable).
		Set("fields", sq.Expr("fields || ?::jsonb", string(raw))).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"collection": collection, "id": id})

	keys := make([]string, 0, len(expect))
	for k := range expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ub = ub.Where("fields->>(?::text) = ?", k, textValue(expect[k]))
	}

	query, args, err := ub.Suffix("RETURNING fields").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build update: %w", err)
	}
	return query, args, nil
}

// textValue representa el valor como lo devuelve el operador ->> de JSONB.
func textValue(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
	}
	return fmt.Sprint(v)
}
