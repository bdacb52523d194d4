package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest cambios parciales de la configuración.
type UpdateSettingsRequest struct {
	CurrencyCode          *string          `json:"currency_code"`
	Locale                *string          `json:"locale"`
	DefaultTaxRate        *decimal.Decimal `json:"default_tax_rate"`
	PointsPerUnit         *decimal.Decimal `json:"points_per_unit"`
	PointValue            *decimal.Decimal `json:"point_value"`
	MaxCashierDiscountPct *decimal.Decimal `json:"max_cashier_discount_pct"`
	ReceiptHeader         *string          `json:"receipt_header"`
	ReceiptFooter         *string          `json:"receipt_footer"`
	AutoReorderEnabled    *bool            `json:"auto_reorder_enabled"`
	LowStockThreshold     *decimal.Decimal `json:"low_stock_threshold"`
}

// SettingsResponse configuración efectiva de la empresa.
type SettingsResponse struct {
	CurrencyCode          string          `json:"currency_code"`
	Locale                string          `json:"locale"`
	DefaultTaxRate        decimal.Decimal `json:"default_tax_rate"`
	PointsPerUnit         decimal.Decimal `json:"points_per_unit"`
	PointValue            decimal.Decimal `json:"point_value"`
	MaxCashierDiscountPct decimal.Decimal `json:"max_cashier_discount_pct"`
	ReceiptHeader         string          `json:"receipt_header"`
	ReceiptFooter         string          `json:"receipt_footer"`
	AutoReorderEnabled    bool            `json:"auto_reorder_enabled"`
	LowStockThreshold     decimal.Decimal `json:"low_stock_threshold"`
	UpdatedAt             *time.Time      `json:"updated_at,omitempty"`
}

// DeviceStatusResponse estado de un periférico.
type DeviceStatusResponse struct {
	Device    string    `json:"device"`
	Status    string    `json:"status"`
	LastError string    `json:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScanRequest código leído por un lector tipo wedge.
type ScanRequest struct {
	Code string `json:"code" validate:"required"`
}
