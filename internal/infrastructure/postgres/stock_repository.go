package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx.
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock de un producto en una tienda (nil si no hay fila).
func (r *StockRepo) Get(ctx context.Context, productID, storeID string) (*entity.Stock, error) {
	query := `SELECT product_id, store_id, quantity, updated_at FROM stock WHERE product_id = $1 AND store_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID, storeID).Scan(&s.ProductID, &s.StoreID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el stock con bloqueo de fila (SELECT FOR UPDATE). Debe usarse dentro de una tx.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, storeID string) (*entity.Stock, error) {
	query := `SELECT product_id, store_id, quantity, updated_at FROM stock WHERE product_id = $1 AND store_id = $2 FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID, storeID).Scan(&s.ProductID, &s.StoreID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return &entity.Stock{ProductID: productID, StoreID: storeID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza el stock de (producto, tienda).
func (r *StockRepo) Upsert(ctx context.Context, s *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, store_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, store_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, s.ProductID, s.StoreID, s.Quantity, s.UpdatedAt); err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// List niveles de stock de los productos activos. Sin tienda suma todas las tiendas.
// LowOnly aplica el mismo criterio que entity.IsLowStock.
func (r *StockRepo) List(ctx context.Context, companyID string, f repository.StockFilter) ([]repository.StockLevel, error) {
	query := `
		SELECT p.id, p.sku, p.name, COALESCE(SUM(s.quantity), 0) AS qty, p.reorder_point
		FROM products p
		LEFT JOIN stock s ON s.product_id = p.id AND ($2 = '' OR s.store_id::text = $2)
		WHERE p.company_id = $1 AND p.is_active
		GROUP BY p.id
		HAVING NOT $3 OR CASE
			WHEN p.reorder_point > 0 THEN COALESCE(SUM(s.quantity), 0) < p.reorder_point
			ELSE COALESCE(SUM(s.quantity), 0) <= $4
		END
		ORDER BY lower(p.name)
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, companyID, f.StoreID, f.LowOnly, f.LowThreshold, pageLimit(f.Limit), pageOffset(f.Offset))
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.StockLevel, error) {
		l := repository.StockLevel{StoreID: f.StoreID}
		err := row.Scan(&l.ProductID, &l.SKU, &l.ProductName, &l.Quantity, &l.ReorderPoint)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan stock: %w", err)
	}
	return list, nil
}

// BelowReorderPoint productos activos con punto de reorden cuyo stock quedó por debajo,
// ordenados por mayor déficit y luego SKU.
func (r *StockRepo) BelowReorderPoint(ctx context.Context, companyID, storeID string) ([]repository.ReplenishmentItem, error) {
	query := `
		SELECT p.id, p.sku, p.name, COALESCE(p.supplier_id::text, ''), COALESCE(SUM(s.quantity), 0) AS qty,
			p.reorder_point, p.reorder_qty, p.cost, p.price
		FROM products p
		LEFT JOIN stock s ON s.product_id = p.id AND ($2 = '' OR s.store_id::text = $2)
		WHERE p.company_id = $1 AND p.is_active AND p.reorder_point > 0
		GROUP BY p.id
		HAVING COALESCE(SUM(s.quantity), 0) < p.reorder_point
		ORDER BY p.reorder_point - COALESCE(SUM(s.quantity), 0) DESC, p.sku`
	rows, err := r.q.Query(ctx, query, companyID, storeID)
	if err != nil {
		return nil, fmt.Errorf("below reorder point: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.ReplenishmentItem, error) {
		var it repository.ReplenishmentItem
		err := row.Scan(&it.ProductID, &it.SKU, &it.ProductName, &it.SupplierID, &it.CurrentStock,
			&it.ReorderPoint, &it.ReorderQty, &it.UnitCost, &it.Price)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan reorder items: %w", err)
	}
	return list, nil
}
