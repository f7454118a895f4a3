package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
	"github.com/jhoicas/cep-backoffice/internal/infrastructure/pdf"
)

func newGenerator() *pdf.Generator {
	return pdf.NewGenerator(pdf.Business{Name: "CEP Equipos de Belleza", Phone: "300 000 0000"})
}

func TestGenerateReceipt(t *testing.T) {
	for _, provisional := range []bool{false, true} {
		r := &entity.Receipt{
			Number:       "CEP1001",
			Provisional:  provisional,
			Date:         time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
			CustomerName: "Salón Aurora",
			Lines: []entity.ReceiptLine{
				{Description: "Secador", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("150000")},
			},
			Notes: "Garantía 6 meses",
		}
		out, err := newGenerator().GenerateReceipt(r)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	}
}

func TestGenerateStockCard(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	p := &entity.StockProduct{
		ID:   "p1",
		Name: "Hair Dryer",
		Movements: []entity.StockMovement{
			{Date: now, StockedIn: 8, TotalStock: 8, Balance: 8, Remarks: "Stock inicial"},
			{Date: now, StockedOut: 2, TotalStock: 8, Balance: 6, Remarks: "sold", Sign: "Ana"},
		},
		CreatedAt:   now,
		LastUpdated: now,
	}
	out, err := newGenerator().GenerateStockCard(p)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
