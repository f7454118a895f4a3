package stock

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/cep-backoffice/internal/domain"
	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
)

// Campos del documento de producto.
const (
	fieldName        = "name"
	fieldMovements   = "movements"
	fieldLastUpdated = "lastUpdated"
	fieldCreatedAt   = "createdAt"
	fieldRevision    = "revision"
)

// timeLayout ancho fijo en UTC: el orden lexicográfico coincide con el cronológico.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// movementRecord forma persistida de un movimiento (un string JSON por elemento de la lista).
type movementRecord struct {
	Date       time.Time `json:"date"`
	StockedIn  int64     `json:"stockedIn"`
	StockedOut int64     `json:"stockedOut"`
	Remarks    string    `json:"remarks"`
	TotalStock int64     `json:"totalStock"`
	Balance    int64     `json:"balance"`
	Sign       string    `json:"sign,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Registros antiguos con RFC3339 sin relleno.
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}

func encodeMovement(m entity.StockMovement) (string, error) {
	b, err := json.Marshal(movementRecord{
		Date:       m.Date.UTC(),
		StockedIn:  m.StockedIn,
		StockedOut: m.StockedOut,
		Remarks:    m.Remarks,
		TotalStock: m.TotalStock,
		Balance:    m.Balance,
		Sign:       m.Sign,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeMovement(s string) (entity.StockMovement, error) {
	var r movementRecord
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return entity.StockMovement{}, err
	}
	return entity.StockMovement{
		Date:       r.Date,
		StockedIn:  r.StockedIn,
		StockedOut: r.StockedOut,
		Remarks:    r.Remarks,
		TotalStock: r.TotalStock,
		Balance:    r.Balance,
		Sign:       r.Sign,
	}, nil
}

func encodeMovements(list []entity.StockMovement) ([]string, error) {
	out := make([]string, 0, len(list))
	for i, m := range list {
		s, err := encodeMovement(m)
		if err != nil {
			return nil, fmt.Errorf("serializar movimiento %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// productFields documento completo para crear el producto.
func productFields(p *entity.StockProduct, revision int64) (map[string]any, error) {
	movs, err := encodeMovements(p.Movements)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		fieldName:        p.Name,
		fieldMovements:   movs,
		fieldLastUpdated: formatTime(p.LastUpdated),
		fieldCreatedAt:   formatTime(p.CreatedAt),
		fieldRevision:    revision,
	}, nil
}

// decodeProduct reconstruye el producto. revision=0 si el documento no lo tiene
// (productos creados antes de que existiera el campo).
func decodeProduct(doc *repository.Document) (*entity.StockProduct, int64, error) {
	raw, err := doc.FieldStrings(fieldMovements)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: producto %s: %v", domain.ErrCorruptRecord, doc.ID, err)
	}
	p := &entity.StockProduct{
		ID:        doc.ID,
		Name:      doc.FieldString(fieldName),
		Movements: make([]entity.StockMovement, 0, len(raw)),
	}
	for i, s := range raw {
		m, err := decodeMovement(s)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: producto %s, movimiento %d: %v", domain.ErrCorruptRecord, doc.ID, i, err)
		}
		p.Movements = append(p.Movements, m)
	}
	if p.LastUpdated, err = parseTime(doc.FieldString(fieldLastUpdated)); err != nil {
		return nil, 0, fmt.Errorf("%w: producto %s, lastUpdated: %v", domain.ErrCorruptRecord, doc.ID, err)
	}
	if p.CreatedAt, err = parseTime(doc.FieldString(fieldCreatedAt)); err != nil {
		return nil, 0, fmt.Errorf("%w: producto %s, createdAt: %v", domain.ErrCorruptRecord, doc.ID, err)
	}

	var revision int64
	if _, ok := doc.Fields[fieldRevision]; ok {
		if revision, err = doc.FieldInt(fieldRevision); err != nil {
			return nil, 0, fmt.Errorf("%w: producto %s, revision: %v", domain.ErrCorruptRecord, doc.ID, err)
		}
	}
	return p, revision, nil
}
