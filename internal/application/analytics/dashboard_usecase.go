// Package analytics contiene los casos de uso para reportes de negocio: el
// dashboard operativo y el reporte financiero.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

const dashboardTopSKUs = 5 // número de SKUs en el widget del dashboard

var hundred = decimal.NewFromInt(100)

// SettingsReader configuración efectiva de la empresa (umbral de stock bajo).
type SettingsReader interface {
	Effective(ctx context.Context, companyID string) (entity.Settings, error)
}

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	settings      SettingsReader
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, settings SettingsReader) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, settings: settings, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO para la empresa indicada.
//
// Cuatro llamadas en paralelo:
//  1. GetSalesMetrics(hoy)        → TodaySales + TodayMargin + TodayCount
//  2. GetSalesMetrics(mes)        → MonthlySales + MonthlyMargin
//  3. GetTopProducts(mes, top 5)  → TopSKUs
//  4. GetOperationalCounters      → stock bajo, canastas, traslados, facturas vencidas
func (uc *DashboardUseCase) GetSummary(ctx context.Context, companyID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	settings, err := uc.settings.Effective(ctx, companyID)
	if err != nil {
		return nil, err
	}

	// Hoy: 00:00:00 – 23:59:59.999; mes en curso: día 1 a las 00:00 – fin de hoy.
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type metricsResult struct {
		m   repository.SalesMetrics
		err error
	}
	type topResult struct {
		top []repository.ProductSalesResult
		err error
	}
	type countersResult struct {
		c   repository.OperationalCounters
		err error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)
	countersCh := make(chan countersResult, 1)

	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, companyID, "", todayStart, todayEnd)
		todayCh <- metricsResult{m, err}
	}()
	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, companyID, "", monthStart, todayEnd)
		monthCh <- metricsResult{m, err}
	}()
	go func() {
		top, err := uc.analyticsRepo.GetTopProducts(ctx, companyID, monthStart, todayEnd, dashboardTopSKUs)
		topCh <- topResult{top, err}
	}()
	go func() {
		c, err := uc.analyticsRepo.GetOperationalCounters(ctx, companyID, settings.LowStockThreshold, now)
		countersCh <- countersResult{c, err}
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh
	counters := <-countersCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top SKUs: %w", top.err)
	}
	if counters.err != nil {
		return nil, fmt.Errorf("dashboard: contadores: %w", counters.err)
	}

	return &dto.DashboardSummaryDTO{
		TodaySales:         today.m.Revenue.Round(2),
		TodayMargin:        today.m.Revenue.Sub(today.m.Cost).Round(2),
		TodayCount:         today.m.SalesCount,
		MonthlySales:       month.m.Revenue.Round(2),
		MonthlyMargin:      month.m.Revenue.Sub(month.m.Cost).Round(2),
		TopSKUs:            toTopSKUs(top.top),
		LowStockProducts:   counters.c.LowStockProducts,
		PendingBaskets:     counters.c.PendingBaskets,
		TransfersInTransit: counters.c.TransfersInTransit,
		OverdueInvoices:    counters.c.OverdueInvoices,
		DateLabel:          monthLabel(now),
	}, nil
}

func toTopSKUs(rows []repository.ProductSalesResult) []dto.TopSKUDTO {
	out := make([]dto.TopSKUDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopSKUDTO{
			ProductID:        r.ProductID,
			SKU:              r.SKU,
			ProductName:      r.ProductName,
			QuantitySold:     r.UnitsSold,
			TotalRevenue:     r.Revenue.Round(2),
			MarginPercentage: marginPct(r.Revenue, r.Cost),
		})
	}
	return out
}

// marginPct (revenue - cost) / revenue * 100, 0 si no hubo ventas.
func marginPct(revenue, cost decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return revenue.Sub(cost).Div(revenue).Mul(hundred).Round(2)
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
