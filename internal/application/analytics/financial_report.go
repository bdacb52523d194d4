package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

const reportTopProducts = 10

// FinancialReportUseCase estado de resultados simplificado de un período (FinancialReports).
// Las ventas anuladas no cuentan.
type FinancialReportUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewFinancialReportUseCase construye el caso de uso.
func NewFinancialReportUseCase(analyticsRepo repository.AnalyticsRepository) *FinancialReportUseCase {
	return &FinancialReportUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// Generate calcula ingresos, costo de ventas, utilidad bruta, impuestos y descuentos,
// con el desglose por medio de pago, por día y los productos más vendidos.
func (uc *FinancialReportUseCase) Generate(ctx context.Context, companyID string, in dto.FinancialReportRequest) (*dto.FinancialReportDTO, error) {
	from, to, err := dto.ParsePeriod(in.From, in.To, uc.now())
	if err != nil {
		return nil, err
	}

	var (
		metrics  repository.SalesMetrics
		payments []repository.PaymentMethodTotal
		daily    []repository.DailySalesResult
		top      []repository.ProductSalesResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		metrics, err = uc.analyticsRepo.GetSalesMetrics(gctx, companyID, in.StoreID, from, to)
		return err
	})
	g.Go(func() (err error) {
		payments, err = uc.analyticsRepo.GetPaymentBreakdown(gctx, companyID, in.StoreID, from, to)
		return err
	})
	g.Go(func() (err error) {
		daily, err = uc.analyticsRepo.GetDailySales(gctx, companyID, in.StoreID, from, to)
		return err
	})
	g.Go(func() (err error) {
		top, err = uc.analyticsRepo.GetTopProducts(gctx, companyID, from, to, reportTopProducts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reporte financiero: %w", err)
	}

	profit := metrics.Revenue.Sub(metrics.Cost)
	report := &dto.FinancialReportDTO{
		Period:       dto.PeriodDTO{From: from, To: to},
		StoreID:      in.StoreID,
		SalesCount:   metrics.SalesCount,
		Revenue:      metrics.Revenue.Round(2),
		CostOfGoods:  metrics.Cost.Round(2),
		GrossProfit:  profit.Round(2),
		MarginPct:    marginPct(metrics.Revenue, metrics.Cost),
		TaxCollected: metrics.Tax.Round(2),
		Discounts:    metrics.Discounts.Round(2),
		UnitsSold:    metrics.UnitsSold,
		ByPayment:    make([]dto.PaymentMethodDTO, 0, len(payments)),
		ByDay:        make([]dto.DailySalesDTO, 0, len(daily)),
		TopProducts:  toTopSKUs(top),
	}
	for _, p := range payments {
		report.ByPayment = append(report.ByPayment, dto.PaymentMethodDTO{Method: p.Method, Count: p.Count, Amount: p.Amount.Round(2)})
	}
	for _, d := range daily {
		report.ByDay = append(report.ByDay, dto.DailySalesDTO{
			Day:        d.Day.Format(dto.DateLayout),
			SalesCount: d.SalesCount,
			Revenue:    d.Revenue.Round(2),
			Profit:     d.Revenue.Sub(d.Cost).Round(2),
		})
	}
	return report, nil
}
