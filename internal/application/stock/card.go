package stock

import (
	"context"
	"fmt"

	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
)

// CardPDFGenerator genera la tarjeta de kardex imprimible.
type CardPDFGenerator interface {
	GenerateStockCard(p *entity.StockProduct) ([]byte, error)
}

// CardUseCase tarjeta de kardex en PDF.
type CardUseCase struct {
	ledger    *LedgerUseCase
	generator CardPDFGenerator
}

// NewCardUseCase construye el caso de uso.
func NewCardUseCase(ledger *LedgerUseCase, generator CardPDFGenerator) *CardUseCase {
	return &CardUseCase{ledger: ledger, generator: generator}
}

// StockCardPDF devuelve el PDF y un nombre de archivo sugerido.
func (uc *CardUseCase) StockCardPDF(ctx context.Context, productID string) ([]byte, string, error) {
	p, err := uc.ledger.GetProduct(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateStockCard(p)
	if err != nil {
		return nil, "", fmt.Errorf("generar kardex de %s: %w", productID, err)
	}
	return pdf, fmt.Sprintf("kardex-%s.pdf", p.ID), nil
}
