package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics agregados de ventas completadas en un período (anuladas excluidas).
// Revenue es neto de descuentos y sin IVA; Cost usa el costo congelado en cada línea.
type SalesMetrics struct {
	SalesCount int
	Revenue    decimal.Decimal
	Cost       decimal.Decimal
	Tax        decimal.Decimal
	Discounts  decimal.Decimal
	UnitsSold  decimal.Decimal
}

// ProductSalesResult ventas agregadas de un producto.
type ProductSalesResult struct {
	ProductID   string
	SKU         string
	ProductName string
	UnitsSold   decimal.Decimal
	Revenue     decimal.Decimal
	Cost        decimal.Decimal
}

// PaymentMethodTotal total cobrado por medio de pago (efectivo neto de vueltas).
type PaymentMethodTotal struct {
	Method string
	Count  int
	Amount decimal.Decimal
}

// DailySalesResult ventas de un día.
type DailySalesResult struct {
	Day        time.Time
	SalesCount int
	Revenue    decimal.Decimal
	Cost       decimal.Decimal
}

// CashierStatsResult desempeño de un cajero en el período.
type CashierStatsResult struct {
	UserID         string
	UserName       string
	SalesCount     int
	VoidCount      int
	Revenue        decimal.Decimal
	UnitsSold      decimal.Decimal
	CashDifference decimal.Decimal // suma de diferencias de sesiones cerradas
}

// OperationalCounters contadores del dashboard.
type OperationalCounters struct {
	LowStockProducts   int
	PendingBaskets     int
	TransfersInTransit int
	OverdueInvoices    int
}

// AnalyticsRepository consultas de solo lectura para reportes y dashboard.
// storeID vacío = todas las tiendas de la empresa.
type AnalyticsRepository interface {
	GetSalesMetrics(ctx context.Context, companyID, storeID string, from, to time.Time) (SalesMetrics, error)
	GetTopProducts(ctx context.Context, companyID string, from, to time.Time, limit int) ([]ProductSalesResult, error)
	GetPaymentBreakdown(ctx context.Context, companyID, storeID string, from, to time.Time) ([]PaymentMethodTotal, error)
	GetDailySales(ctx context.Context, companyID, storeID string, from, to time.Time) ([]DailySalesResult, error)
	GetCashierStats(ctx context.Context, companyID string, from, to time.Time) ([]CashierStatsResult, error)
	// GetProductSales ventas por producto (para priorizar la reposición).
	GetProductSales(ctx context.Context, companyID string, from, to time.Time) ([]ProductSalesResult, error)
	GetOperationalCounters(ctx context.Context, companyID string, lowStockThreshold decimal.Decimal, now time.Time) (OperationalCounters, error)
}
