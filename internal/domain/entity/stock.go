package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa el stock actual de un producto en una tienda (tabla materializada).
type Stock struct {
	ProductID string
	StoreID   string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}

// IsLowStock informa si una cantidad está baja: bajo el punto de reorden cuando
// está definido, o en/bajo el umbral general cuando no.
func IsLowStock(qty, reorderPoint, threshold decimal.Decimal) bool {
	if reorderPoint.IsPositive() {
		return qty.LessThan(reorderPoint)
	}
	return qty.LessThanOrEqual(threshold)
}
