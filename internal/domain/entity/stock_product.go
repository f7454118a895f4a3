package entity

import "time"

// StockMovement un registro del libro de stock. Inmutable una vez agregado.
// TotalStock y Balance son derivados al momento de agregar el movimiento.
type StockMovement struct {
	Date       time.Time `json:"date"`
	StockedIn  int64     `json:"stocked_in"`
	StockedOut int64     `json:"stocked_out"`
	Remarks    string    `json:"remarks"`
	TotalStock int64     `json:"total_stock"`
	Balance    int64     `json:"balance"`
	Sign       string    `json:"sign,omitempty"` // quién registró el movimiento
}

// StockProduct producto con su historial completo de movimientos en orden de registro.
type StockProduct struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Movements   []StockMovement `json:"movements"`
	LastUpdated time.Time       `json:"last_updated"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Last devuelve el último movimiento registrado (ok=false si no hay).
func (p *StockProduct) Last() (StockMovement, bool) {
	if len(p.Movements) == 0 {
		return StockMovement{}, false
	}
	return p.Movements[len(p.Movements)-1], true
}

// StockProductSummary fila de listado, sin el detalle de movimientos.
type StockProductSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	MovementCount int       `json:"movement_count"`
	TotalStock    int64     `json:"total_stock"`
	Balance       int64     `json:"balance"`
	LastUpdated   time.Time `json:"last_updated"`
	CreatedAt     time.Time `json:"created_at"`
}

// Summary resume el producto usando su último movimiento.
func (p *StockProduct) Summary() StockProductSummary {
	s := StockProductSummary{
		ID:            p.ID,
		Name:          p.Name,
		MovementCount: len(p.Movements),
		LastUpdated:   p.LastUpdated,
		CreatedAt:     p.CreatedAt,
	}
	if last, ok := p.Last(); ok {
		s.TotalStock = last.TotalStock
		s.Balance = last.Balance
	}
	return s
}
