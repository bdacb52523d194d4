package employee

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

const company = "company-1"

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type fixture struct {
	repos   memory.Repositories
	uc      *CashSessionUseCase
	store   *entity.Store
	cajero  dto.Actor
	otro    dto.Actor
	gerente dto.Actor
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	r := memory.NewStore().Repositories()
	store := &entity.Store{CompanyID: company, Code: "CENTRO", Name: "Centro", IsActive: true}
	require.NoError(t, r.Stores.Create(context.Background(), store))
	return fixture{
		repos:   r,
		uc:      NewCashSessionUseCase(r.Tx, r.CashSessions, r.Sales, r.Stores, zerolog.Nop()),
		store:   store,
		cajero:  dto.Actor{CompanyID: company, UserID: "cajero-1", StoreID: store.ID, Role: entity.RoleCajero},
		otro:    dto.Actor{CompanyID: company, UserID: "cajero-2", StoreID: store.ID, Role: entity.RoleCajero},
		gerente: dto.Actor{CompanyID: company, UserID: "gerente-1", StoreID: store.ID, Role: entity.RoleGerente},
	}
}

// addSale registra una venta del turno con los pagos indicados.
func (f fixture) addSale(t *testing.T, sessionID, status string, change int64, payments ...entity.SalePayment) {
	t.Helper()
	now := time.Now()
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	sale := &entity.Sale{
		CompanyID: company, StoreID: f.store.ID, CashierID: f.cajero.UserID,
		CashSessionID: sessionID, Status: status,
		Items:    []entity.SaleItem{{ProductID: "p1", SKU: "P1", Quantity: dec(1), Subtotal: total.Sub(dec(change))}},
		Payments: payments, ChangeDue: dec(change), Total: total.Sub(dec(change)),
		CreatedAt: now, CompletedAt: &now,
	}
	require.NoError(t, f.repos.Sales.Create(context.Background(), sale))
}

func TestCashSession_OpenCloseReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Open(ctx, f.cajero, dto.OpenCashSessionRequest{OpeningFloat: dec(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cs, err := f.uc.Open(ctx, f.cajero, dto.OpenCashSessionRequest{OpeningFloat: dec(100000)})
	require.NoError(t, err)
	assert.Equal(t, entity.CashSessionOpen, cs.Status)
	assert.Equal(t, f.store.ID, cs.StoreID)

	_, err = f.uc.Open(ctx, f.cajero, dto.OpenCashSessionRequest{OpeningFloat: dec(0)})
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyOpen)

	f.addSale(t, cs.ID, entity.SaleStatusCompleted, 1000, entity.SalePayment{Method: entity.PaymentCash, Amount: dec(20000)})
	f.addSale(t, cs.ID, entity.SaleStatusCompleted, 0,
		entity.SalePayment{Method: entity.PaymentCard, Amount: dec(8000)},
		entity.SalePayment{Method: entity.PaymentCash, Amount: dec(2000)})
	f.addSale(t, cs.ID, entity.SaleStatusVoided, 0, entity.SalePayment{Method: entity.PaymentCash, Amount: dec(50000)})

	current, err := f.uc.Current(ctx, f.cajero)
	require.NoError(t, err)
	assert.True(t, dec(121000).Equal(current.ExpectedCash), current.ExpectedCash.String())

	_, err = f.uc.Review(ctx, f.gerente, cs.ID, dto.ReviewCashSessionRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.Close(ctx, f.otro, cs.ID, dto.CloseCashSessionRequest{CountedCash: dec(120500)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	closed, err := f.uc.Close(ctx, f.cajero, cs.ID, dto.CloseCashSessionRequest{CountedCash: dec(120500), Notes: "faltan monedas"})
	require.NoError(t, err)
	assert.Equal(t, entity.CashSessionClosed, closed.Status)
	assert.True(t, dec(121000).Equal(closed.ExpectedCash))
	assert.True(t, dec(-500).Equal(closed.Difference), closed.Difference.String())
	assert.NotNil(t, closed.ClosedAt)

	_, err = f.uc.Close(ctx, f.cajero, cs.ID, dto.CloseCashSessionRequest{CountedCash: dec(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.Current(ctx, f.cajero)
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)

	reviewed, err := f.uc.Review(ctx, f.gerente, cs.ID, dto.ReviewCashSessionRequest{Notes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, entity.CashSessionReviewed, reviewed.Status)
	assert.Equal(t, f.gerente.UserID, reviewed.ReviewedBy)

	// Tras el cierre puede abrir un turno nuevo.
	_, err = f.uc.Open(ctx, f.cajero, dto.OpenCashSessionRequest{OpeningFloat: dec(50000)})
	require.NoError(t, err)

	list, err := f.uc.List(ctx, company, "", entity.CashSessionReviewed, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestCashSession_ManagerCanCloseAndTenantIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cs, err := f.uc.Open(ctx, f.cajero, dto.OpenCashSessionRequest{OpeningFloat: dec(10000)})
	require.NoError(t, err)

	other := dto.Actor{CompanyID: "otra", UserID: "x", Role: entity.RoleAdmin}
	_, err = f.uc.Close(ctx, other, cs.ID, dto.CloseCashSessionRequest{CountedCash: dec(10000)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	closed, err := f.uc.Close(ctx, f.gerente, cs.ID, dto.CloseCashSessionRequest{CountedCash: dec(10000)})
	require.NoError(t, err)
	assert.True(t, closed.Difference.IsZero())

	_, err = f.uc.Open(ctx, f.cajero, dto.OpenCashSessionRequest{StoreID: "no-existe", OpeningFloat: dec(0)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPerformance_Report(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.repos.Users.Create(ctx, &entity.User{ID: f.cajero.UserID, CompanyID: company, Email: "c@demo.co", Name: "Carla"}))

	cs, err := f.uc.Open(ctx, f.cajero, dto.OpenCashSessionRequest{OpeningFloat: dec(0)})
	require.NoError(t, err)
	f.addSale(t, cs.ID, entity.SaleStatusCompleted, 0, entity.SalePayment{Method: entity.PaymentCash, Amount: dec(10000)})
	f.addSale(t, cs.ID, entity.SaleStatusCompleted, 0, entity.SalePayment{Method: entity.PaymentCash, Amount: dec(20000)})
	f.addSale(t, cs.ID, entity.SaleStatusVoided, 0, entity.SalePayment{Method: entity.PaymentCash, Amount: dec(5000)})
	_, err = f.uc.Close(ctx, f.cajero, cs.ID, dto.CloseCashSessionRequest{CountedCash: dec(29000)})
	require.NoError(t, err)

	rep, err := NewPerformanceUseCase(f.repos.Analytics).Report(ctx, company, "", "")
	require.NoError(t, err)
	require.Len(t, rep.Cashiers, 1)
	c := rep.Cashiers[0]
	assert.Equal(t, "Carla", c.UserName)
	assert.Equal(t, 2, c.SalesCount)
	assert.Equal(t, 1, c.VoidCount)
	assert.True(t, dec(30000).Equal(c.Revenue))
	assert.True(t, dec(15000).Equal(c.AverageTicket))
	assert.True(t, dec(2).Equal(c.ItemsSold))
	assert.True(t, dec(-1000).Equal(c.CashDifference))

	_, err = NewPerformanceUseCase(f.repos.Analytics).Report(ctx, company, "2026-13-01", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
