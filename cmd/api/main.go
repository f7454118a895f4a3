package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/cep-backoffice/internal/bootstrap"
	httpRouter "github.com/jhoicas/cep-backoffice/internal/interfaces/http"
	"github.com/jhoicas/cep-backoffice/pkg/config"
	"github.com/jhoicas/cep-backoffice/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run devuelve error en lugar de terminar el proceso para que los defer (cierre del
// almacén) se ejecuten en todos los caminos.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	svc, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("inicializar servicios: %w", err)
	}
	defer svc.Close()

	if err := svc.Backend.Migrate(ctx); err != nil {
		return fmt.Errorf("preparar esquema del almacén: %w", err)
	}

	limiter, err := httpRouter.NewRateLimiter(cfg.RateLimit.Rate)
	if err != nil {
		return fmt.Errorf("RATE_LIMIT inválido %q: %w", cfg.RateLimit.Rate, err)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CEP Back-office API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": svc.Backend.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    svc.Auth,
		CounterUC: svc.Counter,
		IssueUC:   svc.Issue,
		LedgerUC:  svc.Ledger,
		CardUC:    svc.Card,
		Limiter:   limiter,
		JWTSecret: cfg.JWT.Secret,
		Log:       log.WithComponent("http"),
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.HTTP.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-listenErr:
		return fmt.Errorf("servidor HTTP: %w", err)
	case <-quit:
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
	return nil
}
