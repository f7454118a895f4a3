package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
)

// CounterResponse estado del contador.
type CounterResponse struct {
	CurrentID int64  `json:"current_id"`
	Formatted string `json:"formatted"` // "CEP1000"
}

// SetCounterRequest cuerpo de PUT /api/receipts/counter.
type SetCounterRequest struct {
	Value int64 `json:"value"`
}

// ReceiptLineRequest línea del recibo.
type ReceiptLineRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// IssueReceiptRequest cuerpo de POST /api/receipts.
type IssueReceiptRequest struct {
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	Lines         []ReceiptLineRequest `json:"lines"`
	Notes         string               `json:"notes"`
}

// IssuedReceiptListResponse recibos emitidos, más recientes primero.
type IssuedReceiptListResponse struct {
	Total    int                    `json:"total"`
	Receipts []entity.IssuedReceipt `json:"receipts"`
}
