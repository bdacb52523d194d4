package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/app"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pos-api/internal/interfaces/http"
)

const testSecret = "e2e-secret"

type harness struct {
	fiber *fiber.App
	seed  *app.SeedResult
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := app.FromMemory(memory.NewStore().Repositories())
	svc := app.NewServices(backend, app.Options{
		JWT: auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"},
		Log: zerolog.Nop(),
	})
	res, err := svc.Seed(context.Background(), backend)
	require.NoError(t, err)

	f := fiber.New()
	apphttp.Router(f, svc.RouterDeps(testSecret, nil))
	return &harness{fiber: f, seed: res}
}

func (h *harness) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.fiber.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (h *harness) login(t *testing.T, role string) string {
	t.Helper()
	status, body := h.do(t, "POST", "/api/auth/login", "", dto.LoginRequest{Email: h.seed.Users[role], Password: app.DemoPassword})
	require.Equal(t, fiber.StatusOK, status, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Code
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	backend := app.FromMemory(memory.NewStore().Repositories())
	svc := app.NewServices(backend, app.Options{Log: zerolog.Nop()})

	first, err := svc.Seed(ctx, backend)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Len(t, first.StoreIDs, 2)
	assert.Len(t, first.Users, 5)

	second, err := svc.Seed(ctx, backend)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.CompanyID, second.CompanyID)
	assert.Equal(t, first.StoreIDs, second.StoreIDs)

	page, err := svc.Products.List(ctx, first.CompanyID, dto.ProductListRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Items, first.Products)
}

func TestHTTP_SaleLifecycle(t *testing.T) {
	h := newHarness(t)
	cashier := h.login(t, entity.RoleCajero)
	store := h.seed.StoreIDs["CENTRO"]

	status, body := h.do(t, "GET", "/api/products/code/7702004003508", cashier, nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	var product dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &product))

	cart := dto.CartRequest{
		StoreID: store,
		Lines:   []dto.CartLineRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(2)}},
	}
	cash := []dto.PaymentRequest{{Method: entity.PaymentCash, Amount: decimal.NewFromInt(10000)}}

	status, body = h.do(t, "POST", "/api/pos/checkout", cashier, dto.CheckoutRequest{Cart: cart, Payments: cash})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "NO_OPEN_SESSION", errorCode(t, body))

	status, body = h.do(t, "POST", "/api/cash-sessions", cashier, dto.OpenCashSessionRequest{StoreID: store, OpeningFloat: decimal.NewFromInt(100000)})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	status, body = h.do(t, "POST", "/api/pos/quote", cashier, cart)
	require.Equal(t, fiber.StatusOK, status, string(body))
	var quote dto.QuoteResponse
	require.NoError(t, json.Unmarshal(body, &quote))
	assert.True(t, quote.Total.IsPositive())

	card := []dto.PaymentRequest{{Method: entity.PaymentCard, Amount: quote.Total}}
	status, body = h.do(t, "POST", "/api/pos/checkout", cashier, dto.CheckoutRequest{Cart: cart, Payments: card})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "DEVICE_UNAVAILABLE", errorCode(t, body))

	status, body = h.do(t, "POST", "/api/pos/checkout", cashier, dto.CheckoutRequest{Cart: cart, Payments: cash})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var sale dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &sale))
	assert.Equal(t, entity.SaleStatusCompleted, sale.Status)
	assert.True(t, sale.Total.Equal(quote.Total))
	assert.True(t, sale.ChangeDue.Equal(decimal.NewFromInt(10000).Sub(quote.Total)))

	voidPath := "/api/pos/sales/" + sale.ID + "/void"
	status, body = h.do(t, "POST", voidPath, cashier, dto.ReasonRequest{Reason: "error de digitación"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	manager := h.login(t, entity.RoleGerente)
	status, body = h.do(t, "POST", voidPath, manager, dto.ReasonRequest{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	status, body = h.do(t, "POST", voidPath, manager, dto.ReasonRequest{Reason: "error de digitación"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &sale))
	assert.Equal(t, entity.SaleStatusVoided, sale.Status)

	status, body = h.do(t, "POST", voidPath, manager, dto.ReasonRequest{Reason: "otra vez"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, body))
}

func TestHTTP_AccessControl(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, "GET", "/api/pos/sales", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, body))

	status, _ = h.do(t, "POST", "/api/auth/login", "", dto.LoginRequest{Email: h.seed.Users[entity.RoleCajero], Password: "incorrecta"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	clerk := h.login(t, entity.RoleBodeguero)
	status, body = h.do(t, "GET", "/api/invoices", clerk, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	status, body = h.do(t, "GET", "/api/inventory/stock", clerk, nil)
	assert.Equal(t, fiber.StatusOK, status, string(body))

	status, body = h.do(t, "GET", "/api/permissions/bodeguero", clerk, nil)
	require.Equal(t, fiber.StatusOK, status)
	var perms []dto.RolePermissionsResponse
	require.NoError(t, json.Unmarshal(body, &perms))
	require.Len(t, perms, 1)
	assert.Contains(t, perms[0].Permissions, "inventory.adjust")

	status, _ = h.do(t, "GET", "/api/permissions/pirata", clerk, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHTTP_HardwareScan(t *testing.T) {
	h := newHarness(t)
	cashier := h.login(t, entity.RoleCajero)

	status, body := h.do(t, "POST", "/api/hardware/scan", cashier, dto.ScanRequest{Code: "7702004003508"})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "DEVICE_UNAVAILABLE", errorCode(t, body))

	status, body = h.do(t, "POST", "/api/hardware/scanner/connect", cashier, nil)
	require.Equal(t, fiber.StatusOK, status, string(body))

	status, body = h.do(t, "POST", "/api/hardware/scan", cashier, dto.ScanRequest{Code: "7702004003508"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.Contains(t, string(body), "Coca-Cola")
}
