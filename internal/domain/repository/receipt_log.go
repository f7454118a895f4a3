package repository

import (
	"context"

	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
)

// ReceiptLog registro de recibos emitidos.
type ReceiptLog interface {
	// Record guarda el recibo y lo devuelve tal como quedó almacenado.
	Record(ctx context.Context, r entity.IssuedReceipt) (entity.IssuedReceipt, error)
	// Recent devuelve hasta limit recibos, los más recientes primero.
	Recent(ctx context.Context, limit int) ([]entity.IssuedReceipt, error)
}

// CollectionIssuedReceipts colección del registro cuando se guarda como documentos.
const CollectionIssuedReceipts = "issued_receipts"
