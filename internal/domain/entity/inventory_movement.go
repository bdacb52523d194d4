package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste
	MovementTypeTRANSFER   = "TRANSFER"   // traslado entre tiendas
	MovementTypeSALE       = "SALE"       // salida por venta POS
	MovementTypeRETURN     = "RETURN"     // reingreso por anulación de venta
	MovementTypeRECEIPT    = "RECEIPT"    // entrada por recepción de orden de compra
)

// InventoryMovement representa un movimiento de inventario.
// TransactionID agrupa los movimientos de una misma operación (venta, traslado, orden de compra).
type InventoryMovement struct {
	ID            string
	TransactionID string
	ProductID     string
	StoreID       string
	Type          string
	Quantity      decimal.Decimal // positivo entrada, negativo salida
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
