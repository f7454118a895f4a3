package dto

import (
	"time"

	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
)

// CreateStockProductRequest cuerpo de POST /api/stock/products.
type CreateStockProductRequest struct {
	Name            string `json:"name"`
	InitialQuantity int64  `json:"initial_quantity"`
	Remarks         string `json:"remarks"`
	Sign            string `json:"sign"`
}

// AppendMovementRequest cuerpo de POST /api/stock/products/:id/movements.
// Date vacío = fecha del servidor.
type AppendMovementRequest struct {
	Date       *time.Time `json:"date"`
	StockedIn  int64      `json:"stocked_in"`
	StockedOut int64      `json:"stocked_out"`
	Remarks    string     `json:"remarks"`
	Sign       string     `json:"sign"`
}

// StockProductListResponse listado resumido.
type StockProductListResponse struct {
	Total    int                          `json:"total"`
	Products []entity.StockProductSummary `json:"products"`
}
