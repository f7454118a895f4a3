package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptLine línea de un recibo de venta.
type ReceiptLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Subtotal cantidad * precio unitario.
func (l ReceiptLine) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Receipt recibo emitido. Provisional=true cuando el número proviene del reloj
// porque el contador no estaba disponible.
type Receipt struct {
	Number        string
	Provisional   bool
	Date          time.Time
	CustomerName  string
	CustomerPhone string
	Lines         []ReceiptLine
	Notes         string
}

// Total suma de subtotales.
func (r *Receipt) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// IssuedReceipt registro de un recibo emitido, sin el detalle de líneas.
type IssuedReceipt struct {
	Number       string          `json:"number"`
	Provisional  bool            `json:"provisional"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	IssuedAt     time.Time       `json:"issued_at"`
}

// Issued resume el recibo para el registro de emitidos.
func (r *Receipt) Issued() IssuedReceipt {
	return IssuedReceipt{
		Number:       r.Number,
		Provisional:  r.Provisional,
		CustomerName: r.CustomerName,
		Total:        r.Total(),
		IssuedAt:     r.Date,
	}
}
