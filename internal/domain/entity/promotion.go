package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de promoción.
const (
	PromotionPercentage = "percentage"
	PromotionFixed      = "fixed"
)

// Promotion representa un código de descuento aplicable al total del carrito.
type Promotion struct {
	ID          string
	CompanyID   string
	Code        string
	Name        string
	Type        string          // percentage, fixed
	Value       decimal.Decimal // % (0-100] o monto fijo
	MinPurchase decimal.Decimal
	StartsAt    time.Time
	EndsAt      *time.Time // nil = sin vencimiento
	UsageLimit  int        // 0 = ilimitado
	UsedCount   int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
