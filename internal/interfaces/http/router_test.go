package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cep-backoffice/internal/application/auth"
	"github.com/jhoicas/cep-backoffice/internal/application/dto"
	"github.com/jhoicas/cep-backoffice/internal/application/receipt"
	"github.com/jhoicas/cep-backoffice/internal/application/stock"
	"github.com/jhoicas/cep-backoffice/internal/domain"
	"github.com/jhoicas/cep-backoffice/internal/domain/entity"
	"github.com/jhoicas/cep-backoffice/internal/domain/repository"
	"github.com/jhoicas/cep-backoffice/internal/infrastructure/docstore"
	"github.com/jhoicas/cep-backoffice/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/cep-backoffice/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/cep-backoffice/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const testAdminKey = "clave-de-prueba"

type stubPDF struct{}

func (stubPDF) GenerateReceipt(*entity.Receipt) ([]byte, error)        { return []byte("%PDF-recibo"), nil }
func (stubPDF) GenerateStockCard(*entity.StockProduct) ([]byte, error) { return []byte("%PDF-kardex"), nil }

type downStore struct {
	repository.DocumentStore
}

func (downStore) GetDocument(context.Context, string, string) (*repository.Document, error) {
	return nil, domain.ErrStoreUnavailable
}

type appOptions struct {
	store repository.DocumentStore
	rate  string
}

func newTestApp(t *testing.T, opts appOptions) *fiber.App {
	t.Helper()
	if opts.store == nil {
		opts.store = memory.NewStore()
	}
	log := zerolog.Nop()

	hash, err := auth.HashKey(testAdminKey)
	require.NoError(t, err)

	counter := receipt.NewCounterUseCase(opts.store, log)
	ledger := stock.NewLedgerUseCase(opts.store, log)
	deps := apphttp.RouterDeps{
		AuthUC:    auth.NewAdminAuthUseCase(hash, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log),
		CounterUC: counter,
		IssueUC:   receipt.NewIssueUseCase(counter, stubPDF{}, receipt.WithReceiptLog(docstore.NewDocumentReceiptLog(opts.store), log)),
		LedgerUC:  ledger,
		CardUC:    stock.NewCardUseCase(ledger, stubPDF{}),
		JWTSecret: testJWTSecret,
		Log:       log,
	}
	if opts.rate != "" {
		deps.Limiter, err = apphttp.NewRateLimiter(opts.rate)
		require.NoError(t, err)
	}

	app := fiber.New()
	apphttp.Router(app, deps)
	return app
}

// call lanza la petición; body se serializa a JSON si no es nil.
func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAdminLogin(t *testing.T) {
	app := newTestApp(t, appOptions{})

	resp := call(t, app, http.MethodPost, "/api/auth/admin", "", dto.AdminLoginRequest{Key: testAdminKey})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok := decode[dto.TokenResponse](t, resp)

	_, role, err := pkgjwt.Parse(testJWTSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.RoleAdmin, role)

	resp = call(t, app, http.MethodPost, "/api/auth/admin", "", dto.AdminLoginRequest{Key: "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Contador de recibos
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiptCounter_Flow(t *testing.T) {
	app := newTestApp(t, appOptions{})
	admin := tokenForRole(t, pkgjwt.RoleAdmin)

	resp := call(t, app, http.MethodGet, "/api/receipts/counter", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dto.CounterResponse{CurrentID: 1000, Formatted: "CEP1000"}, decode[dto.CounterResponse](t, resp))

	resp = call(t, app, http.MethodPost, "/api/receipts/counter/advance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/receipts/counter/advance", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1001), decode[dto.CounterResponse](t, resp).CurrentID)

	resp = call(t, app, http.MethodPut, "/api/receipts/counter", admin, dto.SetCounterRequest{Value: 999})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPut, "/api/receipts/counter", admin, dto.SetCounterRequest{Value: 1500})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "CEP1500", decode[dto.CounterResponse](t, resp).Formatted)

	resp = call(t, app, http.MethodGet, "/api/receipts/counter", "", nil)
	assert.Equal(t, int64(1500), decode[dto.CounterResponse](t, resp).CurrentID)
}

func TestReceiptCounter_StoreUnavailable(t *testing.T) {
	app := newTestApp(t, appOptions{store: downStore{}})

	resp := call(t, app, http.MethodGet, "/api/receipts/counter", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "STORE_UNAVAILABLE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestReceiptCounter_RateLimited(t *testing.T) {
	app := newTestApp(t, appOptions{rate: "2-M"})
	admin := tokenForRole(t, pkgjwt.RoleAdmin)

	for i := 0; i < 2; i++ {
		resp := call(t, app, http.MethodPost, "/api/receipts/counter/advance", admin, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := call(t, app, http.MethodPost, "/api/receipts/counter/advance", admin, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
}

func TestIssueReceipt(t *testing.T) {
	app := newTestApp(t, appOptions{})
	admin := tokenForRole(t, pkgjwt.RoleAdmin)

	body := map[string]any{
		"customer_name": "Salón Aurora",
		"lines": []map[string]any{
			{"description": "Secador", "quantity": "1", "unit_price": "150000"},
		},
	}
	resp := call(t, app, http.MethodPost, "/api/receipts", admin, body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, "CEP1001", resp.Header.Get("X-Receipt-Number"))
	assert.Empty(t, resp.Header.Get("X-Receipt-Provisional"))

	resp = call(t, app, http.MethodPost, "/api/receipts", admin, map[string]any{"customer_name": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecentReceipts(t *testing.T) {
	app := newTestApp(t, appOptions{})
	admin := tokenForRole(t, pkgjwt.RoleAdmin)

	for _, customer := range []string{"Ana", "Luis"} {
		body := map[string]any{
			"customer_name": customer,
			"lines": []map[string]any{
				{"description": "Secador", "quantity": "2", "unit_price": "75000.25"},
			},
		}
		resp := call(t, app, http.MethodPost, "/api/receipts", admin, body)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := call(t, app, http.MethodGet, "/api/receipts?limit=1", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.IssuedReceiptListResponse](t, resp)
	require.Equal(t, 1, out.Total)
	assert.Regexp(t, `^CEP100[12]$`, out.Receipts[0].Number)
	assert.Equal(t, "150000.50", out.Receipts[0].Total.StringFixed(2))

	resp = call(t, app, http.MethodGet, "/api/receipts", admin, nil)
	out = decode[dto.IssuedReceiptListResponse](t, resp)
	assert.Equal(t, 2, out.Total)

	resp = call(t, app, http.MethodGet, "/api/receipts?limit=-1", admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/receipts", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Kardex
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_HairDryerScenario(t *testing.T) {
	app := newTestApp(t, appOptions{})
	admin := tokenForRole(t, pkgjwt.RoleAdmin)

	resp := call(t, app, http.MethodPost, "/api/stock/products", "", dto.CreateStockProductRequest{Name: "Hair Dryer", InitialQuantity: 8})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/stock/products", admin, dto.CreateStockProductRequest{Name: "Hair Dryer", InitialQuantity: 8})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	p := decode[entity.StockProduct](t, resp)

	resp = call(t, app, http.MethodPost, "/api/stock/products/"+p.ID+"/movements", admin,
		dto.AppendMovementRequest{StockedOut: 2, Remarks: "sold"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mv := decode[entity.StockMovement](t, resp)
	assert.Equal(t, int64(8), mv.TotalStock)
	assert.Equal(t, int64(6), mv.Balance)

	resp = call(t, app, http.MethodGet, "/api/stock/products/"+p.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[entity.StockProduct](t, resp)
	require.Len(t, got.Movements, 2)
	assert.Equal(t, int64(8), got.Movements[0].Balance)
	assert.Equal(t, "sold", got.Movements[1].Remarks)

	resp = call(t, app, http.MethodGet, "/api/stock/products?name=dryer", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.StockProductListResponse](t, resp)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, 2, list.Products[0].MovementCount)

	resp = call(t, app, http.MethodGet, "/api/stock/products/"+p.ID+"/card.pdf", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp = call(t, app, http.MethodDelete, "/api/stock/products/"+p.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/stock/products/"+p.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStock_Errors(t *testing.T) {
	app := newTestApp(t, appOptions{})
	admin := tokenForRole(t, pkgjwt.RoleAdmin)

	resp := call(t, app, http.MethodPost, "/api/stock/products/missing-id/movements", admin, dto.AppendMovementRequest{StockedIn: 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/stock/products", admin, dto.CreateStockProductRequest{Name: "Chair", InitialQuantity: -1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/stock/products", admin, dto.CreateStockProductRequest{Name: "Chair", InitialQuantity: 1})
	p := decode[entity.StockProduct](t, resp)
	resp = call(t, app, http.MethodPost, "/api/stock/products/"+p.ID+"/movements", admin, dto.AppendMovementRequest{StockedIn: -1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/stock/products?created_on=04-03-2026", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodDelete, "/api/stock/products/missing-id", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
