package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/inventory"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// StockChange describe una entrada o salida de stock dentro de una transacción.
// Quantity siempre es positiva; el sentido lo da la función que se llame.
type StockChange struct {
	ProductID     string
	StoreID       string
	Type          string // IN, OUT, SALE, RETURN, RECEIPT, TRANSFER, ADJUSTMENT
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal // solo entradas; 0 en salidas (se usa el costo promedio)
	TransactionID string
	UserID        string
	At            time.Time
}

// StockIn bloquea la fila (GetForUpdate), recalcula el costo promedio ponderado,
// suma el stock y guarda el movimiento. Si keepCost es true el costo del producto no cambia
// (reingresos por anulación o traslado, que no son compras).
func StockIn(ctx context.Context, r repository.TxRepos, c StockChange, keepCost bool) error {
	if !c.Quantity.IsPositive() || c.UnitCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	stock, err := r.Stock.GetForUpdate(ctx, c.ProductID, c.StoreID)
	if err != nil {
		return err
	}
	if !keepCost {
		product, err := r.Products.GetByID(ctx, c.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		newCost := inventory.WeightedAverageCost(stock.Quantity, product.Cost, c.Quantity, c.UnitCost)
		if err := r.Products.UpdateCost(ctx, c.ProductID, newCost); err != nil {
			return err
		}
	}
	stock.Quantity = stock.Quantity.Add(c.Quantity)
	stock.UpdatedAt = c.At
	if err := r.Stock.Upsert(ctx, stock); err != nil {
		return err
	}
	return r.Movements.Create(ctx, &entity.InventoryMovement{
		TransactionID: c.TransactionID,
		ProductID:     c.ProductID,
		StoreID:       c.StoreID,
		Type:          c.Type,
		Quantity:      c.Quantity,
		UnitCost:      c.UnitCost,
		TotalCost:     c.Quantity.Mul(c.UnitCost),
		Date:          c.At,
		CreatedAt:     c.At,
		CreatedBy:     c.UserID,
	})
}

// StockOut bloquea la fila, verifica StockActual >= CantidadSolicitada, resta y guarda
// el movimiento al costo promedio actual. Devuelve el costo unitario aplicado.
func StockOut(ctx context.Context, r repository.TxRepos, c StockChange) (decimal.Decimal, error) {
	if !c.Quantity.IsPositive() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	product, err := r.Products.GetByID(ctx, c.ProductID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	stock, err := r.Stock.GetForUpdate(ctx, c.ProductID, c.StoreID)
	if err != nil {
		return decimal.Zero, err
	}
	if stock.Quantity.LessThan(c.Quantity) {
		return decimal.Zero, domain.ErrInsufficientStock
	}
	stock.Quantity = stock.Quantity.Sub(c.Quantity)
	stock.UpdatedAt = c.At
	if err := r.Stock.Upsert(ctx, stock); err != nil {
		return decimal.Zero, err
	}
	unitCost := product.Cost
	err = r.Movements.Create(ctx, &entity.InventoryMovement{
		TransactionID: c.TransactionID,
		ProductID:     c.ProductID,
		StoreID:       c.StoreID,
		Type:          c.Type,
		Quantity:      c.Quantity.Neg(),
		UnitCost:      unitCost,
		TotalCost:     c.Quantity.Neg().Mul(unitCost),
		Date:          c.At,
		CreatedAt:     c.At,
		CreatedBy:     c.UserID,
	})
	return unitCost, err
}
