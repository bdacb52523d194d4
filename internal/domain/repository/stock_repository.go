package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// StockLevel nivel de stock con datos del producto para listados.
type StockLevel struct {
	ProductID    string
	SKU          string
	ProductName  string
	StoreID      string
	Quantity     decimal.Decimal
	ReorderPoint decimal.Decimal
}

// StockFilter filtros del listado de niveles de stock.
// StoreID vacío agrega el stock de todas las tiendas por producto.
type StockFilter struct {
	StoreID      string
	LowOnly      bool
	LowThreshold decimal.Decimal // umbral para productos sin punto de reorden
	Limit        int
	Offset       int
}

// ReplenishmentItem resultado crudo del repositorio para un producto bajo reorden.
type ReplenishmentItem struct {
	ProductID    string
	SKU          string
	ProductName  string
	SupplierID   string
	CurrentStock decimal.Decimal
	ReorderPoint decimal.Decimal
	ReorderQty   decimal.Decimal
	UnitCost     decimal.Decimal
	Price        decimal.Decimal
}

// StockRepository define el puerto para consultar/actualizar stock por tienda+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(ctx context.Context, productID, storeID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Devuelve cantidad 0 si no existe.
	GetForUpdate(ctx context.Context, productID, storeID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	List(ctx context.Context, companyID string, f StockFilter) ([]StockLevel, error)

	// BelowReorderPoint devuelve los productos cuyo stock (en la tienda indicada, o global si
	// storeID es vacío) es inferior a su punto de reorden, ordenados por mayor déficit.
	BelowReorderPoint(ctx context.Context, companyID, storeID string) ([]ReplenishmentItem, error)
}
