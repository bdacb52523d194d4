package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Contiene los KPIs del día y del mes en curso, el Top-5 SKUs del mes y contadores operativos.
type DashboardSummaryDTO struct {
	TodaySales  decimal.Decimal `json:"today_sales"`
	TodayMargin decimal.Decimal `json:"today_margin"`
	TodayCount  int             `json:"today_count"`

	MonthlySales  decimal.Decimal `json:"monthly_sales"`
	MonthlyMargin decimal.Decimal `json:"monthly_margin"`

	TopSKUs []TopSKUDTO `json:"top_skus"`

	LowStockProducts   int `json:"low_stock_products"`
	PendingBaskets     int `json:"pending_baskets"`
	TransfersInTransit int `json:"transfers_in_transit"`
	OverdueInvoices    int `json:"overdue_invoices"`

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}

// TopSKUDTO resumen de un SKU para el widget del dashboard.
type TopSKUDTO struct {
	ProductID        string          `json:"product_id"`
	SKU              string          `json:"sku"`
	ProductName      string          `json:"product_name"`
	QuantitySold     decimal.Decimal `json:"quantity_sold"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"` // (revenue - cogs) / revenue * 100
}

// FinancialReportRequest query de GET /api/reports/financial.
type FinancialReportRequest struct {
	From    string `query:"from"` // YYYY-MM-DD; por defecto primer día del mes
	To      string `query:"to"`   // YYYY-MM-DD; por defecto hoy
	StoreID string `query:"store_id"`
}

// PaymentMethodDTO total cobrado por medio de pago.
type PaymentMethodDTO struct {
	Method string          `json:"method"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// DailySalesDTO ventas de un día.
type DailySalesDTO struct {
	Day        string          `json:"day"` // YYYY-MM-DD
	SalesCount int             `json:"sales_count"`
	Revenue    decimal.Decimal `json:"revenue"`
	Profit     decimal.Decimal `json:"profit"`
}

// FinancialReportDTO estado de resultados simplificado del período.
type FinancialReportDTO struct {
	Period       PeriodDTO          `json:"period"`
	StoreID      string             `json:"store_id,omitempty"`
	SalesCount   int                `json:"sales_count"`
	Revenue      decimal.Decimal    `json:"revenue"`
	CostOfGoods  decimal.Decimal    `json:"cost_of_goods"`
	GrossProfit  decimal.Decimal    `json:"gross_profit"`
	MarginPct    decimal.Decimal    `json:"margin_pct"`
	TaxCollected decimal.Decimal    `json:"tax_collected"`
	Discounts    decimal.Decimal    `json:"discounts"`
	UnitsSold    decimal.Decimal    `json:"units_sold"`
	ByPayment    []PaymentMethodDTO `json:"by_payment"`
	ByDay        []DailySalesDTO    `json:"by_day"`
	TopProducts  []TopSKUDTO        `json:"top_products"`
}
