package bootstrap_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cep-backoffice/internal/application/receipt"
	"github.com/jhoicas/cep-backoffice/internal/application/stock"
	"github.com/jhoicas/cep-backoffice/internal/bootstrap"
	"github.com/jhoicas/cep-backoffice/pkg/config"
	"github.com/jhoicas/cep-backoffice/pkg/logger"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Timezone: "UTC"},
		Store:   config.StoreConfig{Driver: config.DriverMemory},
		Receipt: config.ReceiptConfig{MaxRetries: 3, BusinessName: "CEP"},
		Stock:   config.StockConfig{BalancePolicy: config.BalanceRunning},
	}
}

func TestNew_WiresUseCases(t *testing.T) {
	svc, err := bootstrap.New(context.Background(), memoryConfig(), logger.Nop())
	require.NoError(t, err)
	defer svc.Close()

	ctx := context.Background()
	id, err := svc.Counter.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), id)

	p, err := svc.Ledger.CreateProduct(ctx, stock.CreateProductInput{Name: "Chair", InitialQuantity: 10})
	require.NoError(t, err)
	_, err = svc.Ledger.AppendMovement(ctx, p.ID, stock.MovementInput{StockedOut: 3})
	require.NoError(t, err)
	mv, err := svc.Ledger.AppendMovement(ctx, p.ID, stock.MovementInput{StockedOut: 2})
	require.NoError(t, err)
	// Política running configurada: 10 - 3 - 2.
	assert.Equal(t, int64(5), mv.Balance)
}

func TestNew_IssuedReceiptsAreRecorded(t *testing.T) {
	svc, err := bootstrap.New(context.Background(), memoryConfig(), logger.Nop())
	require.NoError(t, err)
	defer svc.Close()

	ctx := context.Background()
	r, _, err := svc.Issue.Issue(ctx, receipt.IssueInput{
		CustomerName: "Ana",
		Lines:        []receipt.LineInput{{Description: "Secador", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(8000)}},
	})
	require.NoError(t, err)

	list, err := svc.Issue.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r.Number, list[0].Number)
}

func TestNew_RejectsUnknownPolicy(t *testing.T) {
	cfg := memoryConfig()
	cfg.Stock.BalancePolicy = "fifo"

	_, err := bootstrap.New(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
