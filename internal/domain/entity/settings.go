package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings parámetros de operación de la empresa (pantalla de configuración).
type Settings struct {
	CompanyID             string
	CurrencyCode          string          // ISO 4217, ej: COP
	Locale                string          // BCP 47, ej: es-CO
	DefaultTaxRate        decimal.Decimal // porcentaje
	PointsPerUnit         decimal.Decimal // monto pagado por cada punto ECP ganado
	PointValue            decimal.Decimal // valor en moneda de un punto redimido
	MaxCashierDiscountPct decimal.Decimal // sobre este % se requiere aprobación
	ReceiptHeader         string
	ReceiptFooter         string
	AutoReorderEnabled    bool
	LowStockThreshold     decimal.Decimal
	UpdatedAt             time.Time
}

// DefaultSettings valores iniciales cuando la empresa nunca ha guardado configuración.
func DefaultSettings(companyID string) Settings {
	return Settings{
		CompanyID:             companyID,
		CurrencyCode:          "COP",
		Locale:                "es-CO",
		DefaultTaxRate:        decimal.NewFromInt(19),
		PointsPerUnit:         decimal.NewFromInt(1000),
		PointValue:            decimal.NewFromInt(10),
		MaxCashierDiscountPct: decimal.NewFromInt(10),
		ReceiptHeader:         "",
		ReceiptFooter:         "¡Gracias por su compra!",
		AutoReorderEnabled:    false,
		LowStockThreshold:     decimal.NewFromInt(5),
	}
}
