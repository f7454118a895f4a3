package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"

	"github.com/jhoicas/cep-backoffice/internal/application/auth"
	"github.com/jhoicas/cep-backoffice/internal/application/receipt"
	"github.com/jhoicas/cep-backoffice/internal/application/stock"
	"github.com/jhoicas/cep-backoffice/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AdminAuthUseCase
	CounterUC *receipt.CounterUseCase
	IssueUC   *receipt.IssueUseCase
	LedgerUC  *stock.LedgerUseCase
	CardUC    *stock.CardUseCase
	Limiter   *limiter.Limiter // nil = sin límite
	JWTSecret string
	Log       zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	admin := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(jwt.RoleAdmin)
	limited := func(c *fiber.Ctx) error { return c.Next() }
	if deps.Limiter != nil {
		limited = RateLimit(deps.Limiter, deps.Log)
	}

	// Auth (público, limitado contra fuerza bruta)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	api.Post("/auth/admin", limited, authHandler.AdminLogin)

	// Recibos
	receipts := api.Group("/receipts")
	receiptHandler := NewReceiptHandler(deps.CounterUC, deps.IssueUC, deps.Log)
	receipts.Get("/counter", receiptHandler.Peek)
	receipts.Post("/counter/advance", admin, adminOnly, limited, receiptHandler.Advance)
	receipts.Put("/counter", admin, adminOnly, receiptHandler.SetTo)
	receipts.Post("/", admin, adminOnly, limited, receiptHandler.Issue)
	receipts.Get("/", admin, adminOnly, receiptHandler.Recent)

	// Kardex
	products := api.Group("/stock/products")
	stockHandler := NewStockHandler(deps.LedgerUC, deps.CardUC, deps.Log)
	products.Get("/", stockHandler.List)
	products.Post("/", admin, adminOnly, stockHandler.Create)
	products.Get("/:id", stockHandler.Get)
	products.Delete("/:id", admin, adminOnly, stockHandler.Delete)
	products.Post("/:id/movements", admin, adminOnly, stockHandler.AppendMovement)
	products.Get("/:id/card.pdf", stockHandler.Card)
}
