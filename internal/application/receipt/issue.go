package receipt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cep-backoffice/internal/domain"
	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

// LineInput línea solicitada.
type LineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// IssueInput datos para emitir un recibo.
type IssueInput struct {
	CustomerName  string
	CustomerPhone string
	Lines         []LineInput
	Notes         string
}

// IssueUseCase emite recibos: reserva número, genera el PDF y lo anota en el registro.
type IssueUseCase struct {
	counter   *CounterUseCase
	generator PDFGenerator
	issued    repository.ReceiptLog // nil = sin registro
	now       func() time.Time
	log       zerolog.Logger
}

// IssueOption configura la emisión.
type IssueOption func(*IssueUseCase)

// WithReceiptLog anota cada recibo emitido. Un fallo al anotar se registra en log
// pero no invalida el recibo: el número ya fue consumido.
func WithReceiptLog(issued repository.ReceiptLog, log zerolog.Logger) IssueOption {
	return func(uc *IssueUseCase) {
		uc.issued = issued
		uc.log = log
	}
}

// WithIssueClock reemplaza el reloj de la fecha del recibo.
func WithIssueClock(now func() time.Time) IssueOption {
	return func(uc *IssueUseCase) { uc.now = now }
}

// NewIssueUseCase construye el caso de uso.
func NewIssueUseCase(counter *CounterUseCase, generator PDFGenerator, opts ...IssueOption) *IssueUseCase {
	uc := &IssueUseCase{counter: counter, generator: generator, now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Issue valida, reserva el siguiente número y genera el PDF.
//
// Retorna:
//   - domain.ErrInvalidInput si no hay cliente, no hay líneas o alguna cantidad/precio es inválido.
//   - domain.ErrConflict     si el contador no pudo avanzar tras los reintentos.
//
// Con el almacén caído el recibo sale con número provisional (Receipt.Provisional).
func (uc *IssueUseCase) Issue(ctx context.Context, in IssueInput) (*entity.Receipt, []byte, error) {
	if err := validateIssue(in); err != nil {
		return nil, nil, err
	}

	// El número se reserva después de validar: una solicitud inválida no consume número.
	num, err := uc.counter.Next(ctx)
	if err != nil {
		return nil, nil, err
	}

	r := &entity.Receipt{
		Number:        num.Display,
		Provisional:   num.Provisional,
		Date:          uc.now(),
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		Notes:         in.Notes,
	}
	for _, l := range in.Lines {
		r.Lines = append(r.Lines, entity.ReceiptLine{
			Description: strings.TrimSpace(l.Description),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}

	pdf, err := uc.generator.GenerateReceipt(r)
	if err != nil {
		return nil, nil, fmt.Errorf("generar PDF del recibo %s: %w", r.Number, err)
	}

	if uc.issued != nil {
		if _, err := uc.issued.Record(ctx, r.Issued()); err != nil {
			uc.log.Error().Err(err).Str("receipt_number", r.Number).Msg("no se pudo anotar el recibo emitido")
		}
	}
	return r, pdf, nil
}

// Recent últimos recibos emitidos, más recientes primero. limit<=0 usa 20; el máximo es 200.
// Sin registro configurado devuelve una lista vacía.
func (uc *IssueUseCase) Recent(ctx context.Context, limit int) ([]entity.IssuedReceipt, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}
	if uc.issued == nil {
		return []entity.IssuedReceipt{}, nil
	}
	list, err := uc.issued.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listar recibos emitidos: %w", err)
	}
	return list, nil
}

func validateIssue(in IssueInput) error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return fmt.Errorf("%w: cliente requerido", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: el recibo necesita al menos una línea", domain.ErrInvalidInput)
	}
	for i, l := range in.Lines {
		if strings.TrimSpace(l.Description) == "" {
			return fmt.Errorf("%w: línea %d sin descripción", domain.ErrInvalidInput, i+1)
		}
		if !l.Quantity.IsPositive() {
			return fmt.Errorf("%w: línea %d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		if l.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: línea %d con precio negativo", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}
