package docstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cep-backoffice/internal/domain"
	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
)

const receiptTimeLayout = "2006-01-02T15:04:05.000000000Z"

var _ repository.ReceiptLog = (*DocumentReceiptLog)(nil)

// DocumentReceiptLog registro de recibos sobre el almacén de documentos (memoria, Mongo, Redis).
// El total se guarda como string para no perder precisión en backends con números float64.
type DocumentReceiptLog struct {
	store repository.DocumentStore
}

// NewDocumentReceiptLog construye el registro.
func NewDocumentReceiptLog(store repository.DocumentStore) *DocumentReceiptLog {
	return &DocumentReceiptLog{store: store}
}

func (l *DocumentReceiptLog) Record(ctx context.Context, r entity.IssuedReceipt) (entity.IssuedReceipt, error) {
	r.IssuedAt = r.IssuedAt.UTC()
	fields := map[string]any{
		"number":       r.Number,
		"provisional":  r.Provisional,
		"customerName": r.CustomerName,
		"total":        r.Total.String(),
		"issuedAt":     r.IssuedAt.Format(receiptTimeLayout),
	}
	if _, err := l.store.CreateDocument(ctx, repository.CollectionIssuedReceipts, uuid.NewString(), fields); err != nil {
		return entity.IssuedReceipt{}, fmt.Errorf("registrar recibo %s: %w", r.Number, err)
	}
	return r, nil
}

func (l *DocumentReceiptLog) Recent(ctx context.Context, limit int) ([]entity.IssuedReceipt, error) {
	docs, err := l.store.ListDocuments(ctx, repository.CollectionIssuedReceipts, repository.Query{})
	if err != nil {
		return nil, fmt.Errorf("listar recibos: %w", err)
	}
	list := make([]entity.IssuedReceipt, 0, len(docs))
	for _, doc := range docs {
		r, err := decodeIssued(doc)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].IssuedAt.After(list[j].IssuedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func decodeIssued(doc *repository.Document) (entity.IssuedReceipt, error) {
	total, err := decimal.NewFromString(doc.FieldString("total"))
	if err != nil {
		return entity.IssuedReceipt{}, fmt.Errorf("%w: recibo %s, total: %v", domain.ErrCorruptRecord, doc.ID, err)
	}
	issuedAt, err := time.Parse(receiptTimeLayout, doc.FieldString("issuedAt"))
	if err != nil {
		return entity.IssuedReceipt{}, fmt.Errorf("%w: recibo %s, issuedAt: %v", domain.ErrCorruptRecord, doc.ID, err)
	}
	provisional, _ := doc.Fields["provisional"].(bool)
	return entity.IssuedReceipt{
		Number:       doc.FieldString("number"),
		Provisional:  provisional,
		CustomerName: doc.FieldString("customerName"),
		Total:        total,
		IssuedAt:     issuedAt,
	}, nil
}
