package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
)

const issuedReceiptsTable = "issued_receipts"

var _ repository.ReceiptLog = (*ReceiptLog)(nil)

// ReceiptLog registro de recibos emitidos en una tabla propia; el total es NUMERIC
// y se lee como decimal.Decimal con el codec registrado en el pool.
type ReceiptLog struct {
	q Querier
}

// NewReceiptLog construye el repositorio.
func NewReceiptLog(q Querier) *ReceiptLog {
	return &ReceiptLog{q: q}
}

func (l *ReceiptLog) Record(ctx context.Context, r entity.IssuedReceipt) (entity.IssuedReceipt, error) {
	query, args, err := buildInsertReceipt(r)
	if err != nil {
		return entity.IssuedReceipt{}, err
	}
	stored := r
	if err := l.q.QueryRow(ctx, query, args...).Scan(&stored.Total, &stored.IssuedAt); err != nil {
		return entity.IssuedReceipt{}, wrapErr("record receipt", err)
	}
	return stored, nil
}

func (l *ReceiptLog) Recent(ctx context.Context, limit int) ([]entity.IssuedReceipt, error) {
	query, args, err := buildRecentReceipts(limit)
	if err != nil {
		return nil, err
	}
	rows, err := l.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("recent receipts", err)
	}
	defer rows.Close()
	list := make([]entity.IssuedReceipt, 0, limit)
	for rows.Next() {
		var r entity.IssuedReceipt
		if err := rows.Scan(&r.Number, &r.Provisional, &r.CustomerName, &r.Total, &r.IssuedAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("recent receipts", err)
	}
	return list, nil
}

func buildInsertReceipt(r entity.IssuedReceipt) (string, []any, error) {
	query, args, err := psql.Insert(issuedReceiptsTable).
		Columns("number", "provisional", "customer_name", "total", "issued_at").
		Values(r.Number, r.Provisional, r.CustomerName, r.Total, r.IssuedAt.UTC()).
		Suffix("RETURNING total, issued_at").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build insert receipt: %w", err)
	}
	return query, args, nil
}

func buildRecentReceipts(limit int) (string, []any, error) {
	query, args, err := psql.Select("number", "provisional", "customer_name", "total", "issued_at").
		From(issuedReceiptsTable).
		OrderBy("issued_at DESC", "id DESC").
		Limit(uint64(limit)).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build recent receipts: %w", err)
	}
	return query, args, nil
}
