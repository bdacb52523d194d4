package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

const company = "company-1"

type fixedSettings struct{}

func (fixedSettings) Effective(_ context.Context, companyID string) (entity.Settings, error) {
	s := entity.DefaultSettings(companyID)
	return s, nil
}

var fixedNow = time.Date(2026, time.March, 15, 16, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// seedSale crea una venta con una sola línea de qty unidades a price (costo cost).
func seedSale(t *testing.T, r memory.Repositories, status, method string, at time.Time, sku string, qty, price, cost int64) {
	t.Helper()
	subtotal := dec(qty * price)
	tax := subtotal.Mul(decimal.NewFromFloat(0.19)).Round(2)
	total := subtotal.Add(tax)
	completed := at
	sale := &entity.Sale{
		CompanyID: company, StoreID: "store-1", CashierID: "cajero-1", Status: status,
		Items: []entity.SaleItem{{
			ProductID: "p-" + sku, SKU: sku, Name: sku,
			Quantity: dec(qty), UnitPrice: dec(price), UnitCost: dec(cost),
			TaxRate: dec(19), TaxAmount: tax, Subtotal: subtotal, Total: total,
		}},
		Payments:  []entity.SalePayment{{Method: method, Amount: total}},
		Subtotal:  subtotal,
		TaxTotal:  tax,
		Total:     total,
		CreatedAt: at, UpdatedAt: at, CompletedAt: &completed,
	}
	require.NoError(t, r.Sales.Create(context.Background(), sale))
}

func TestDashboard_GetSummary(t *testing.T) {
	ctx := context.Background()
	r := memory.NewStore().Repositories()

	seedSale(t, r, entity.SaleStatusCompleted, entity.PaymentCash, fixedNow.Add(-2*time.Hour), "CAFE", 2, 10000, 6000)
	seedSale(t, r, entity.SaleStatusCompleted, entity.PaymentCard, fixedNow.AddDate(0, 0, -10), "PAN", 10, 1000, 400)
	seedSale(t, r, entity.SaleStatusVoided, entity.PaymentCash, fixedNow.Add(-time.Hour), "CAFE", 5, 10000, 6000)
	seedSale(t, r, entity.SaleStatusPendingApproval, entity.PaymentCash, fixedNow.Add(-time.Hour), "PAN", 1, 1000, 400)
	seedSale(t, r, entity.SaleStatusCompleted, entity.PaymentCash, fixedNow.AddDate(0, -1, 0), "CAFE", 1, 10000, 6000)

	uc := NewDashboardUseCase(r.Analytics, fixedSettings{})
	uc.now = func() time.Time { return fixedNow }

	sum, err := uc.GetSummary(ctx, company)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.TodayCount)
	assert.True(t, dec(20000).Equal(sum.TodaySales), sum.TodaySales.String())
	assert.True(t, dec(8000).Equal(sum.TodayMargin), sum.TodayMargin.String())
	assert.True(t, dec(30000).Equal(sum.MonthlySales), sum.MonthlySales.String())
	assert.True(t, dec(14000).Equal(sum.MonthlyMargin), sum.MonthlyMargin.String())
	assert.Equal(t, 1, sum.PendingBaskets)
	assert.Equal(t, "Marzo 2026", sum.DateLabel)

	require.Len(t, sum.TopSKUs, 2)
	assert.Equal(t, "CAFE", sum.TopSKUs[0].SKU)
	assert.True(t, dec(40).Equal(sum.TopSKUs[0].MarginPercentage), sum.TopSKUs[0].MarginPercentage.String())
	assert.Equal(t, "PAN", sum.TopSKUs[1].SKU)
	assert.True(t, dec(60).Equal(sum.TopSKUs[1].MarginPercentage))
}

func TestDashboard_EmptyCompany(t *testing.T) {
	uc := NewDashboardUseCase(memory.NewStore().Repositories().Analytics, fixedSettings{})
	uc.now = func() time.Time { return fixedNow }

	sum, err := uc.GetSummary(context.Background(), company)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.TodayCount)
	assert.True(t, sum.MonthlySales.IsZero())
	assert.Empty(t, sum.TopSKUs)
}

func TestFinancialReport_Generate(t *testing.T) {
	ctx := context.Background()
	r := memory.NewStore().Repositories()
	seedSale(t, r, entity.SaleStatusCompleted, entity.PaymentCash, fixedNow.Add(-2*time.Hour), "CAFE", 2, 10000, 6000)
	seedSale(t, r, entity.SaleStatusCompleted, entity.PaymentCard, fixedNow.AddDate(0, 0, -10), "PAN", 10, 1000, 400)
	seedSale(t, r, entity.SaleStatusVoided, entity.PaymentCash, fixedNow.Add(-time.Hour), "CAFE", 5, 10000, 6000)

	uc := NewFinancialReportUseCase(r.Analytics)
	uc.now = func() time.Time { return fixedNow }

	rep, err := uc.Generate(ctx, company, dto.FinancialReportRequest{})
	require.NoError(t, err)

	assert.Equal(t, 2, rep.SalesCount)
	assert.True(t, dec(30000).Equal(rep.Revenue))
	assert.True(t, dec(16000).Equal(rep.CostOfGoods))
	assert.True(t, dec(14000).Equal(rep.GrossProfit))
	assert.True(t, decimal.RequireFromString("46.67").Equal(rep.MarginPct), rep.MarginPct.String())
	assert.True(t, dec(5700).Equal(rep.TaxCollected), rep.TaxCollected.String())
	assert.True(t, dec(12).Equal(rep.UnitsSold))
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), rep.Period.From)

	require.Len(t, rep.ByPayment, 2)
	assert.Equal(t, entity.PaymentCard, rep.ByPayment[0].Method)
	assert.Equal(t, entity.PaymentCash, rep.ByPayment[1].Method)

	require.Len(t, rep.ByDay, 2)
	assert.Equal(t, "2026-03-05", rep.ByDay[0].Day)
	assert.Equal(t, "2026-03-15", rep.ByDay[1].Day)
	assert.True(t, dec(8000).Equal(rep.ByDay[1].Profit))
}

func TestFinancialReport_ExplicitRange(t *testing.T) {
	ctx := context.Background()
	r := memory.NewStore().Repositories()
	seedSale(t, r, entity.SaleStatusCompleted, entity.PaymentCash, fixedNow.AddDate(0, 0, -10), "PAN", 10, 1000, 400)
	seedSale(t, r, entity.SaleStatusCompleted, entity.PaymentCash, fixedNow, "CAFE", 1, 10000, 6000)

	uc := NewFinancialReportUseCase(r.Analytics)
	uc.now = func() time.Time { return fixedNow }

	rep, err := uc.Generate(ctx, company, dto.FinancialReportRequest{From: "2026-03-01", To: "2026-03-05"})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.SalesCount)
	require.Len(t, rep.TopProducts, 1)
	assert.Equal(t, "PAN", rep.TopProducts[0].SKU)

	_, err = uc.Generate(ctx, company, dto.FinancialReportRequest{From: "01/03/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Generate(ctx, company, dto.FinancialReportRequest{From: "2026-03-10", To: "2026-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Enero 2025", monthLabel(time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Diciembre 2026", monthLabel(time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)))
}
