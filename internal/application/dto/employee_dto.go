package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenCashSessionRequest apertura de caja.
type OpenCashSessionRequest struct {
	StoreID      string          `json:"store_id"`
	OpeningFloat decimal.Decimal `json:"opening_float"`
}

// CloseCashSessionRequest cierre de caja con el efectivo contado.
type CloseCashSessionRequest struct {
	CountedCash decimal.Decimal `json:"counted_cash"`
	Notes       string          `json:"notes"`
}

// ReviewCashSessionRequest revisión del cierre por un gerente.
type ReviewCashSessionRequest struct {
	Notes string `json:"notes"`
}

// CashSessionResponse salida de una sesión de caja.
type CashSessionResponse struct {
	ID           string          `json:"id"`
	StoreID      string          `json:"store_id"`
	UserID       string          `json:"user_id"`
	Status       string          `json:"status"`
	OpeningFloat decimal.Decimal `json:"opening_float"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	CountedCash  decimal.Decimal `json:"counted_cash"`
	Difference   decimal.Decimal `json:"difference"`
	Notes        string          `json:"notes"`
	ReviewedBy   string          `json:"reviewed_by,omitempty"`
	ReviewNotes  string          `json:"review_notes,omitempty"`
	OpenedAt     time.Time       `json:"opened_at"`
	ClosedAt     *time.Time      `json:"closed_at,omitempty"`
	ReviewedAt   *time.Time      `json:"reviewed_at,omitempty"`
}

// CashSessionListResponse lista paginada de sesiones.
type CashSessionListResponse struct {
	Items []CashSessionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// CashierPerformanceDTO desempeño de un cajero (EmployeeMonitoring).
type CashierPerformanceDTO struct {
	UserID         string          `json:"user_id"`
	UserName       string          `json:"user_name"`
	SalesCount     int             `json:"sales_count"`
	Revenue        decimal.Decimal `json:"revenue"`
	AverageTicket  decimal.Decimal `json:"average_ticket"`
	ItemsSold      decimal.Decimal `json:"items_sold"`
	VoidCount      int             `json:"void_count"`
	CashDifference decimal.Decimal `json:"cash_difference"`
}

// PerformanceReportDTO desempeño de todos los cajeros en un período.
type PerformanceReportDTO struct {
	Period   PeriodDTO               `json:"period"`
	Cashiers []CashierPerformanceDTO `json:"cashiers"`
}
