package receipt

import "github.com/jhoicas/cep-backoffice/internal/domain/entity"

// PDFGenerator genera la representación imprimible de un recibo.
type PDFGenerator interface {
	GenerateReceipt(r *entity.Receipt) ([]byte, error)
}
