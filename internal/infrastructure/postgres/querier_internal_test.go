package postgres

import (
	"context"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// scriptedQuerier devuelve respuestas en orden y guarda el SQL recibido.
type scriptedQuerier struct {
	rows  []scriptedRow
	execs []execResult
	lists []*scriptedRows
	sql   []string
}

type execResult struct {
	tag pgconn.CommandTag
	err error
}

func (q *scriptedQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.sql = append(q.sql, sql)
	next := q.execs[0]
	q.execs = q.execs[1:]
	return next.tag, next.err
}

func (q *scriptedQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.sql = append(q.sql, sql)
	next := q.lists[0]
	q.lists = q.lists[1:]
	if next.queryErr != nil {
		return nil, next.queryErr
	}
	return next, nil
}

func (q *scriptedQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.sql = append(q.sql, sql)
	next := q.rows[0]
	q.rows = q.rows[1:]
	return next
}

// scriptedRow copia values en los destinos de Scan.
type scriptedRow struct {
	values []any
	err    error
}

func (r scriptedRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.values)
}

type scriptedRows struct {
	data     [][]any
	pos      int
	queryErr error
}

func (r *scriptedRows) Close()                                       {}
func (r *scriptedRows) Err() error                                   { return nil }
func (r *scriptedRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *scriptedRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *scriptedRows) Values() ([]any, error)                       { return r.data[r.pos-1], nil }
func (r *scriptedRows) RawValues() [][]byte                          { return nil }
func (r *scriptedRows) Conn() *pgx.Conn                              { return nil }

func (r *scriptedRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *scriptedRows) Scan(dest ...any) error {
	return assign(dest, r.data[r.pos-1])
}

func assign(dest, values []any) error {
	for i := range dest {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(values[i]))
	}
	return nil
}
