package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación del kardex sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx.
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	ensureID(&m.ID)
	query := `
		INSERT INTO inventory_movements (id, transaction_id, product_id, store_id, type, quantity, unit_cost, total_cost, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, nullIfEmpty(m.TransactionID), m.ProductID, m.StoreID, m.Type,
		m.Quantity, m.UnitCost, m.TotalCost, m.Date, m.CreatedAt, nullIfEmpty(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert inventory movement: %w", err)
	}
	return nil
}

// ListByProduct movimientos del producto, más recientes primero.
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, transaction_id, product_id, store_id, type, quantity, unit_cost, total_cost, date, created_at, created_by
		FROM inventory_movements
		WHERE product_id = $1
		ORDER BY created_at DESC, date DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, productID, pageLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.InventoryMovement, error) {
		var m entity.InventoryMovement
		var txID, createdBy *string
		err := row.Scan(&m.ID, &txID, &m.ProductID, &m.StoreID, &m.Type, &m.Quantity, &m.UnitCost, &m.TotalCost,
			&m.Date, &m.CreatedAt, &createdBy)
		m.TransactionID = derefString(txID)
		m.CreatedBy = derefString(createdBy)
		return &m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan movements: %w", err)
	}
	return list, nil
}
