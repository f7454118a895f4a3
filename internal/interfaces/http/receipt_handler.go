package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cep-backoffice/internal/application/dto"
	"github.com/jhoicas/cep-backoffice/internal/application/receipt"
)

// ReceiptHandler contador de recibos y emisión de recibos en PDF.
type ReceiptHandler struct {
	counter *receipt.CounterUseCase
	issue   *receipt.IssueUseCase
	log     zerolog.Logger
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(counter *receipt.CounterUseCase, issue *receipt.IssueUseCase, log zerolog.Logger) *ReceiptHandler {
	return &ReceiptHandler{counter: counter, issue: issue, log: log}
}

// Peek godoc
// @Summary      Consultar el contador de recibos
// @Description  Si el contador no existe se crea con 1000.
// @Tags         receipts
// @Produce      json
// @Success      200  {object}  dto.CounterResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/receipts/counter [get]
func (h *ReceiptHandler) Peek(c *fiber.Ctx) error {
	id, err := h.counter.Peek(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.counterResponse(id))
}

// Advance godoc
// @Summary      Avanzar el contador de recibos
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CounterResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/receipts/counter/advance [post]
func (h *ReceiptHandler) Advance(c *fiber.Ctx) error {
	id, err := h.counter.Advance(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.counterResponse(id))
}

// SetTo godoc
// @Summary      Fijar el contador de recibos
// @Description  Sobrescribe el valor; debe ser >= 1000.
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetCounterRequest  true  "nuevo valor"
// @Success      200   {object}  dto.CounterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/receipts/counter [put]
func (h *ReceiptHandler) SetTo(c *fiber.Ctx) error {
	var in dto.SetCounterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, err := h.counter.SetTo(c.UserContext(), in.Value)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Info().Str("by", GetSubject(c)).Int64("current_id", id).Msg("contador fijado vía API")
	return c.JSON(h.counterResponse(id))
}

// Issue godoc
// @Summary      Emitir recibo en PDF
// @Description  Reserva el siguiente número y devuelve el PDF. Con el almacén caído el número es
// @Description  provisional (cabecera X-Receipt-Provisional: true).
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.IssueReceiptRequest  true  "cliente y líneas"
// @Success      201   {file}    binary
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
func (h *ReceiptHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	input := receipt.IssueInput{
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Notes:         in.Notes,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, receipt.LineInput{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}

	r, pdf, err := h.issue.Issue(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.pdf"`, r.Number))
	c.Set("X-Receipt-Number", r.Number)
	if r.Provisional {
		c.Set("X-Receipt-Provisional", "true")
	}
	return c.Status(fiber.StatusCreated).Send(pdf)
}

// Recent godoc
// @Summary      Últimos recibos emitidos
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo de recibos (20 por defecto, hasta 200)"
// @Success      200    {object}  dto.IssuedReceiptListResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      401    {object}  dto.ErrorResponse
// @Failure      503    {object}  dto.ErrorResponse
// @Router       /api/receipts [get]
func (h *ReceiptHandler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit no puede ser negativo"})
	}
	list, err := h.issue.Recent(c.UserContext(), limit)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.IssuedReceiptListResponse{Total: len(list), Receipts: list})
}

func (h *ReceiptHandler) counterResponse(id int64) dto.CounterResponse {
	return dto.CounterResponse{CurrentID: id, Formatted: h.counter.Format(id)}
}
