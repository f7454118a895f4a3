// Package stock contiene el kardex por producto: historial de movimientos de solo
// agregado con totales derivados.
package stock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cep-backoffice/internal/domain"
	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
)

const (
	defaultInitialRemarks = "Stock inicial"
	defaultMaxRetries     = 5
)

// CreateProductInput alta de producto con su movimiento inicial.
type CreateProductInput struct {
	Name            string
	InitialQuantity int64
	Remarks         string
	Sign            string
}

// MovementInput movimiento a registrar. Date vacío = ahora.
type MovementInput struct {
	Date       time.Time
	StockedIn  int64
	StockedOut int64
	Remarks    string
	Sign       string
}

// ListFilter filtros del listado; los campos vacíos no filtran.
type ListFilter struct {
	NameContains string
	CreatedOn    time.Time // solo cuenta el día calendario en la zona del ledger
}

// LedgerUseCase kardex sobre el almacén de documentos.
//
// Con repository.ConditionalStore, AppendMovement condiciona la escritura a la
// revisión leída y reintenta si otro escritor se adelantó. Sin él, dos altas
// concurrentes pueden calcular totales sobre la misma base.
type LedgerUseCase struct {
	store      repository.DocumentStore
	cas        repository.ConditionalStore
	policy     BalancePolicy
	loc        *time.Location
	maxRetries int
	now        func() time.Time
	log        zerolog.Logger
}

// Option configura el ledger.
type Option func(*LedgerUseCase)

// WithBalancePolicy política de saldo (BalanceLegacy por defecto).
func WithBalancePolicy(p BalancePolicy) Option {
	return func(uc *LedgerUseCase) { uc.policy = p }
}

// WithLocation zona para el filtro por día de creación (UTC por defecto).
func WithLocation(loc *time.Location) Option {
	return func(uc *LedgerUseCase) {
		if loc != nil {
			uc.loc = loc
		}
	}
}

// WithMaxRetries intentos de escritura condicional antes de domain.ErrConflict.
func WithMaxRetries(n int) Option {
	return func(uc *LedgerUseCase) {
		if n > 0 {
			uc.maxRetries = n
		}
	}
}

// WithClock reemplaza el reloj.
func WithClock(now func() time.Time) Option {
	return func(uc *LedgerUseCase) { uc.now = now }
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(store repository.DocumentStore, log zerolog.Logger, opts ...Option) *LedgerUseCase {
	uc := &LedgerUseCase{
		store:      store,
		policy:     BalanceLegacy,
		loc:        time.UTC,
		maxRetries: defaultMaxRetries,
		now:        time.Now,
		log:        log,
	}
	if cas, ok := store.(repository.ConditionalStore); ok {
		uc.cas = cas
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.cas == nil {
		uc.log.Warn().Msg("almacén sin escrituras condicionales: altas concurrentes pueden calcular totales desactualizados")
	}
	return uc
}

// CreateProduct crea el producto con un único movimiento inicial (entrada = cantidad inicial).
func (uc *LedgerUseCase) CreateProduct(ctx context.Context, in CreateProductInput) (*entity.StockProduct, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if in.InitialQuantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad inicial no puede ser negativa", domain.ErrInvalidInput)
	}
	remarks := strings.TrimSpace(in.Remarks)
	if remarks == "" {
		remarks = defaultInitialRemarks
	}

	now := uc.now()
	first := uc.policy.nextMovement(nil, entity.StockMovement{
		Date:      now,
		StockedIn: in.InitialQuantity,
		Remarks:   remarks,
		Sign:      strings.TrimSpace(in.Sign),
	})
	p := &entity.StockProduct{
		ID:          uuid.NewString(),
		Name:        name,
		Movements:   []entity.StockMovement{first},
		LastUpdated: now,
		CreatedAt:   now,
	}

	fields, err := productFields(p, 1)
	if err != nil {
		return nil, err
	}
	if _, err := uc.store.CreateDocument(ctx, repository.CollectionStockProducts, p.ID, fields); err != nil {
		return nil, fmt.Errorf("crear producto: %w", err)
	}
	return normalizeTimes(p), nil
}

// AppendMovement agrega un movimiento calculando TotalStock y Balance desde el último.
// Si falla no queda ningún movimiento parcial escrito.
func (uc *LedgerUseCase) AppendMovement(ctx context.Context, productID string, in MovementInput) (entity.StockMovement, error) {
	if in.StockedIn < 0 || in.StockedOut < 0 {
		return entity.StockMovement{}, fmt.Errorf("%w: las cantidades no pueden ser negativas", domain.ErrInvalidInput)
	}
	if in.Date.IsZero() {
		in.Date = uc.now()
	}
	input := entity.StockMovement{
		Date:       in.Date,
		StockedIn:  in.StockedIn,
		StockedOut: in.StockedOut,
		Remarks:    strings.TrimSpace(in.Remarks),
		Sign:       strings.TrimSpace(in.Sign),
	}

	attempts := 1
	if uc.cas != nil {
		attempts = uc.maxRetries
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		doc, err := uc.store.GetDocument(ctx, repository.CollectionStockProducts, productID)
		if err != nil {
			return entity.StockMovement{}, fmt.Errorf("leer producto %s: %w", productID, err)
		}
		p, revision, err := decodeProduct(doc)
		if err != nil {
			return entity.StockMovement{}, err
		}

		var last *entity.StockMovement
		if m, ok := p.Last(); ok {
			last = &m
		}
		mv := uc.policy.nextMovement(last, input)
		movements, err := encodeMovements(append(p.Movements, mv))
		if err != nil {
			return entity.StockMovement{}, err
		}
		fields := map[string]any{
			fieldMovements:   movements,
			fieldLastUpdated: formatTime(uc.now()),
			fieldRevision:    revision + 1,
		}

		if uc.cas == nil {
			_, err = uc.store.UpdateDocument(ctx, repository.CollectionStockProducts, productID, fields)
		} else {
			_, err = uc.cas.UpdateDocumentIf(ctx, repository.CollectionStockProducts, productID, expectation(doc, revision), fields)
		}
		if err == nil {
			mv.Date = mv.Date.UTC()
			return mv, nil
		}
		if !errors.Is(err, domain.ErrConflict) || uc.cas == nil {
			return entity.StockMovement{}, fmt.Errorf("guardar movimiento en %s: %w", productID, err)
		}
		uc.log.Warn().
			Str("product_id", productID).
			Int("attempt", attempt).
			Int64("revision", revision).
			Msg("producto modificado por otro escritor, reintentando")
	}
	return entity.StockMovement{}, fmt.Errorf("guardar movimiento en %s tras %d intentos: %w", productID, attempts, domain.ErrConflict)
}

// GetProduct devuelve el producto con todo su historial en orden de registro.
func (uc *LedgerUseCase) GetProduct(ctx context.Context, productID string) (*entity.StockProduct, error) {
	doc, err := uc.store.GetDocument(ctx, repository.CollectionStockProducts, productID)
	if err != nil {
		return nil, fmt.Errorf("leer producto %s: %w", productID, err)
	}
	p, _, err := decodeProduct(doc)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct elimina el producto y su historial. Un id inexistente devuelve domain.ErrNotFound.
func (uc *LedgerUseCase) DeleteProduct(ctx context.Context, productID string) error {
	if err := uc.store.DeleteDocument(ctx, repository.CollectionStockProducts, productID); err != nil {
		return fmt.Errorf("eliminar producto %s: %w", productID, err)
	}
	uc.log.Info().Str("product_id", productID).Msg("producto eliminado")
	return nil
}

// ListProducts listado resumido, más recientes primero.
// CreatedOn se resuelve en el almacén como rango [inicio del día, inicio del día siguiente);
// NameContains se evalúa aquí, sin tildes ni mayúsculas.
func (uc *LedgerUseCase) ListProducts(ctx context.Context, f ListFilter) ([]entity.StockProductSummary, error) {
	q := repository.Query{}
	if !f.CreatedOn.IsZero() {
		y, m, d := f.CreatedOn.Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, uc.loc)
		q = q.Where(fieldCreatedAt, repository.OpGte, formatTime(start)).
			Where(fieldCreatedAt, repository.OpLt, formatTime(start.AddDate(0, 0, 1)))
	}

	docs, err := uc.store.ListDocuments(ctx, repository.CollectionStockProducts, q)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}

	out := make([]entity.StockProductSummary, 0, len(docs))
	for _, doc := range docs {
		if !nameContains(doc.FieldString(fieldName), f.NameContains) {
			continue
		}
		p, _, err := decodeProduct(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Summary())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// expectation condición del CAS: la revisión leída, o lastUpdated en documentos sin revisión.
// Un documento sin ninguno de los dos se escribe sin condición; la escritura le asigna revisión
// y las siguientes ya quedan protegidas.
func expectation(doc *repository.Document, revision int64) map[string]any {
	if _, ok := doc.Fields[fieldRevision]; ok {
		return map[string]any{fieldRevision: revision}
	}
	if _, ok := doc.Fields[fieldLastUpdated]; ok {
		return map[string]any{fieldLastUpdated: doc.FieldString(fieldLastUpdated)}
	}
	return map[string]any{}
}

// normalizeTimes deja las fechas como quedan al releer del almacén (UTC).
func normalizeTimes(p *entity.StockProduct) *entity.StockProduct {
	p.CreatedAt = p.CreatedAt.UTC()
	p.LastUpdated = p.LastUpdated.UTC()
	for i := range p.Movements {
		p.Movements[i].Date = p.Movements[i].Date.UTC()
	}
	return p
}
