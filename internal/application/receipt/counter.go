// Package receipt contiene los casos de uso del contador de recibos y la emisión de recibos.
package receipt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/cep-backoffice/internal/domain"
	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
)

const (
	counterDocID   = "receipt"
	fieldCurrentID = "currentId"

	defaultMaxRetries = 5
)

// Number número reservado para un recibo.
type Number struct {
	ID          int64  // 0 cuando es provisional
	Display     string // "CEP1001"
	Provisional bool   // derivado del reloj: el almacén no respondió
}

// CounterUseCase contador de recibos sobre un único documento.
//
// Si el almacén implementa repository.ConditionalStore, Advance es un bucle
// compare-and-swap con reintentos acotados y no entrega números duplicados.
// Si no, Advance lee y escribe en dos pasos: dos llamadas concurrentes pueden
// obtener el mismo número.
type CounterUseCase struct {
	store      repository.DocumentStore
	cas        repository.ConditionalStore // nil si el almacén no soporta escrituras condicionales
	maxRetries int
	now        func() time.Time
	log        zerolog.Logger
}

// CounterOption configura el caso de uso.
type CounterOption func(*CounterUseCase)

// WithMaxRetries intentos de CAS antes de devolver domain.ErrConflict.
func WithMaxRetries(n int) CounterOption {
	return func(uc *CounterUseCase) {
		if n > 0 {
			uc.maxRetries = n
		}
	}
}

// WithClock reemplaza el reloj usado por el número provisional.
func WithClock(now func() time.Time) CounterOption {
	return func(uc *CounterUseCase) { uc.now = now }
}

// NewCounterUseCase construye el caso de uso.
func NewCounterUseCase(store repository.DocumentStore, log zerolog.Logger, opts ...CounterOption) *CounterUseCase {
	uc := &CounterUseCase{
		store:      store,
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
		uc.log.Warn().Msg("almacén sin escrituras condicionales: Advance puede repetir números bajo concurrencia")
	}
	return uc
}

// Peek devuelve el valor actual. Si el documento no existe lo crea con 1000.
func (uc *CounterUseCase) Peek(ctx context.Context) (int64, error) {
	doc, err := uc.store.GetDocument(ctx, repository.CollectionCounters, counterDocID)
	if errors.Is(err, domain.ErrNotFound) {
		return uc.initialize(ctx)
	}
	if err != nil {
		return 0, fmt.Errorf("leer contador: %w", err)
	}
	return parseCurrentID(doc)
}

// Advance incrementa el contador en uno y devuelve el nuevo valor.
func (uc *CounterUseCase) Advance(ctx context.Context) (int64, error) {
	if uc.cas == nil {
		current, err := uc.Peek(ctx)
		if err != nil {
			return 0, err
		}
		next := current + 1
		if _, err := uc.store.UpdateDocument(ctx, repository.CollectionCounters, counterDocID, counterFields(next)); err != nil {
			return 0, fmt.Errorf("escribir contador: %w", err)
		}
		return next, nil
	}

	for attempt := 1; attempt <= uc.maxRetries; attempt++ {
		current, err := uc.Peek(ctx)
		if err != nil {
			return 0, err
		}
		next := current + 1
		_, err = uc.cas.UpdateDocumentIf(ctx, repository.CollectionCounters, counterDocID,
			counterFields(current), counterFields(next))
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return 0, fmt.Errorf("escribir contador: %w", err)
		}
		uc.log.Warn().
			Int("attempt", attempt).
			Int64("current_id", current).
			Msg("contador modificado por otro escritor, reintentando")
	}
	return 0, fmt.Errorf("avanzar contador tras %d intentos: %w", uc.maxRetries, domain.ErrConflict)
}

// SetTo fija el contador a n (n >= 1000). Sobrescribe sin condición.
func (uc *CounterUseCase) SetTo(ctx context.Context, n int64) (int64, error) {
	if n < entity.ReceiptCounterFloor {
		return 0, fmt.Errorf("%w: el contador no puede ser menor que %d", domain.ErrInvalidInput, entity.ReceiptCounterFloor)
	}
	fields := counterFields(n)
	_, err := uc.store.UpdateDocument(ctx, repository.CollectionCounters, counterDocID, fields)
	if errors.Is(err, domain.ErrNotFound) {
		_, err = uc.store.CreateDocument(ctx, repository.CollectionCounters, counterDocID, fields)
		if errors.Is(err, domain.ErrDuplicate) {
			_, err = uc.store.UpdateDocument(ctx, repository.CollectionCounters, counterDocID, fields)
		}
	}
	if err != nil {
		return 0, fmt.Errorf("fijar contador: %w", err)
	}
	uc.log.Info().Int64("current_id", n).Msg("contador fijado manualmente")
	return n, nil
}

// Format representación visible del número: "CEP" + id.
func (uc *CounterUseCase) Format(id int64) string {
	return entity.FormatReceiptNumber(id)
}

// Next avanza el contador. Si el almacén no está disponible devuelve un número
// provisional derivado del reloj; ese número no garantiza unicidad.
func (uc *CounterUseCase) Next(ctx context.Context) (Number, error) {
	id, err := uc.Advance(ctx)
	if err == nil {
		return Number{ID: id, Display: entity.FormatReceiptNumber(id)}, nil
	}
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		return Number{}, err
	}
	display := entity.FallbackReceiptNumber(uc.now())
	uc.log.Warn().Err(err).Str("receipt_number", display).Msg("contador no disponible, usando número provisional")
	return Number{Display: display, Provisional: true}, nil
}

func (uc *CounterUseCase) initialize(ctx context.Context) (int64, error) {
	_, err := uc.store.CreateDocument(ctx, repository.CollectionCounters, counterDocID, counterFields(entity.ReceiptCounterFloor))
	if err == nil {
		return entity.ReceiptCounterFloor, nil
	}
	if !errors.Is(err, domain.ErrDuplicate) {
		return 0, fmt.Errorf("crear contador: %w", err)
	}
	// Otro proceso lo creó entre la lectura y la creación.
	doc, err := uc.store.GetDocument(ctx, repository.CollectionCounters, counterDocID)
	if err != nil {
		return 0, fmt.Errorf("leer contador: %w", err)
	}
	return parseCurrentID(doc)
}

func counterFields(id int64) map[string]any {
	return map[string]any{fieldCurrentID: strconv.FormatInt(id, 10)}
}

func parseCurrentID(doc *repository.Document) (int64, error) {
	id, err := doc.FieldInt(fieldCurrentID)
	if err != nil {
		return 0, fmt.Errorf("%w: contador: %v", domain.ErrCorruptRecord, err)
	}
	return id, nil
}
