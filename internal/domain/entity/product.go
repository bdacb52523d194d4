package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-tienda).
// Cost es promedio ponderado calculado desde movimientos; el stock se maneja por tienda en Stock.
type Product struct {
	ID           string
	CompanyID    string
	CategoryID   string // vacío = sin categoría
	SupplierID   string // proveedor preferido para reorden automático
	SKU          string // único por empresa
	Barcode      string // EAN/UPC, único por empresa si se define
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta sin IVA
	Cost         decimal.Decimal // costo promedio ponderado (inicia en 0)
	TaxRate      decimal.Decimal // IVA: 0, 5, 19 (porcentaje)
	UnitMeasure  string
	ReorderPoint decimal.Decimal // 0 = sin reorden
	ReorderQty   decimal.Decimal // cantidad sugerida de pedido; 0 = usar regla 1.5x
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
