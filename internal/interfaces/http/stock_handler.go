package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cep-backoffice/internal/application/dto"
	"github.com/jhoicas/cep-backoffice/internal/application/stock"
)

// StockHandler kardex por producto.
type StockHandler struct {
	ledger *stock.LedgerUseCase
	card   *stock.CardUseCase
	log    zerolog.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.LedgerUseCase, card *stock.CardUseCase, log zerolog.Logger) *StockHandler {
	return &StockHandler{ledger: ledger, card: card, log: log}
}

// Create godoc
// @Summary      Crear producto en el kardex
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockProductRequest  true  "nombre y cantidad inicial"
// @Success      201   {object}  entity.StockProduct
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/products [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	p, err := h.ledger.CreateProduct(c.UserContext(), stock.CreateProductInput{
		Name:            in.Name,
		InitialQuantity: in.InitialQuantity,
		Remarks:         in.Remarks,
		Sign:            in.Sign,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// List godoc
// @Summary      Listar productos del kardex
// @Tags         stock
// @Produce      json
// @Param        name        query  string  false  "contiene (sin tildes ni mayúsculas)"
// @Param        created_on  query  string  false  "día de creación YYYY-MM-DD"
// @Success      200  {object}  dto.StockProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/products [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	f := stock.ListFilter{NameContains: c.Query("name")}
	if s := c.Query("created_on"); s != "" {
		day, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "created_on debe tener formato YYYY-MM-DD"})
		}
		f.CreatedOn = day
	}
	list, err := h.ledger.ListProducts(c.UserContext(), f)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.StockProductListResponse{Total: len(list), Products: list})
}

// Get godoc
// @Summary      Obtener producto con su historial
// @Tags         stock
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  entity.StockProduct
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	p, err := h.ledger.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(p)
}

// Delete godoc
// @Summary      Eliminar producto y su historial
// @Tags         stock
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	if err := h.ledger.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AppendMovement godoc
// @Summary      Registrar movimiento
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del producto"
// @Param        body  body  dto.AppendMovementRequest  true  "entradas, salidas y observaciones"
// @Success      201   {object}  entity.StockMovement
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id}/movements [post]
func (h *StockHandler) AppendMovement(c *fiber.Ctx) error {
	var in dto.AppendMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	mv := stock.MovementInput{
		StockedIn:  in.StockedIn,
		StockedOut: in.StockedOut,
		Remarks:    in.Remarks,
		Sign:       in.Sign,
	}
	if in.Date != nil {
		mv.Date = *in.Date
	}
	out, err := h.ledger.AppendMovement(c.UserContext(), c.Params("id"), mv)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Card godoc
// @Summary      Tarjeta de kardex en PDF
// @Tags         stock
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id}/card.pdf [get]
func (h *StockHandler) Card(c *fiber.Ctx) error {
	pdf, filename, err := h.card.StockCardPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(pdf)
}
