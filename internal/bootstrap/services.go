// Package bootstrap arma los casos de uso a partir de la configuración.
// Lo comparten el servidor HTTP y la CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/cep-backoffice/internal/application/auth"
	"github.com/jhoicas/cep-backoffice/internal/application/receipt"
	"github.com/jhoicas/cep-backoffice/internal/application/stock"
	"github.com/jhoicas/cep-backoffice/internal/infrastructure/docstore"
	"github.com/jhoicas/cep-backoffice/internal/infrastructure/pdf"
	"github.com/jhoicas/cep-backoffice/pkg/config"
	"github.com/jhoicas/cep-backoffice/pkg/logger"
)

// Services casos de uso listos para usar. Close libera el almacén.
type Services struct {
	Backend *docstore.Backend
	Auth    *auth.AdminAuthUseCase
	Counter *receipt.CounterUseCase
	Issue   *receipt.IssueUseCase
	Ledger  *stock.LedgerUseCase
	Card    *stock.CardUseCase
}

// New abre el almacén configurado y construye los casos de uso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Services, error) {
	policy, err := stock.ParseBalancePolicy(cfg.Stock.BalancePolicy)
	if err != nil {
		return nil, err
	}

	backend, err := docstore.Open(ctx, cfg, log.WithComponent("docstore"))
	if err != nil {
		return nil, fmt.Errorf("abrir almacén: %w", err)
	}

	loc := cfg.App.Location()
	generator := pdf.NewGenerator(pdf.Business{
		Name:     cfg.Receipt.BusinessName,
		Phone:    cfg.Receipt.BusinessPhone,
		Location: loc,
	})

	counter := receipt.NewCounterUseCase(backend.Store, log.WithComponent("receipt"),
		receipt.WithMaxRetries(cfg.Receipt.MaxRetries))
	ledger := stock.NewLedgerUseCase(backend.Store, log.WithComponent("stock"),
		stock.WithBalancePolicy(policy),
		stock.WithLocation(loc),
		stock.WithMaxRetries(cfg.Stock.MaxRetries))

	issue := receipt.NewIssueUseCase(counter, generator,
		receipt.WithReceiptLog(backend.Receipts, log.WithComponent("receipt")))

	return &Services{
		Backend: backend,
		Auth: auth.NewAdminAuthUseCase(cfg.Admin.KeyHash, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}, log.WithComponent("auth")),
		Counter: counter,
		Issue:   issue,
		Ledger:  ledger,
		Card:    stock.NewCardUseCase(ledger, generator),
	}, nil
}

// Close libera el almacén.
func (s *Services) Close() {
	s.Backend.Close()
}
