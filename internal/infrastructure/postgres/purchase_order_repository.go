package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra; las líneas viven en la columna JSONB items.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

type purchaseOrderItemRow struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

func purchaseOrderItemsToRows(items []entity.PurchaseOrderItem) []purchaseOrderItemRow {
	rows := make([]purchaseOrderItemRow, len(items))
	for i, it := range items {
		rows[i] = purchaseOrderItemRow{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost}
	}
	return rows
}

const purchaseOrderColumns = `id, company_id, store_id, supplier_id, number, status, auto, items, total, notes,
	expected_at, received_at, invoice_id, created_by, created_at, updated_at`

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var items []purchaseOrderItemRow
	var invoiceID, createdBy *string
	err := row.Scan(&po.ID, &po.CompanyID, &po.StoreID, &po.SupplierID, &po.Number, &po.Status, &po.Auto, &items,
		&po.Total, &po.Notes, &po.ExpectedAt, &po.ReceivedAt, &invoiceID, &createdBy, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return nil, err
	}
	po.InvoiceID = derefString(invoiceID)
	po.CreatedBy = derefString(createdBy)
	po.Items = make([]entity.PurchaseOrderItem, len(items))
	for i, it := range items {
		po.Items[i] = entity.PurchaseOrderItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost}
	}
	return &po, nil
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	ensureID(&po.ID)
	query := `INSERT INTO purchase_orders (` + purchaseOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query, po.ID, po.CompanyID, po.StoreID, po.SupplierID, po.Number, po.Status, po.Auto,
		purchaseOrderItemsToRows(po.Items), po.Total, po.Notes, po.ExpectedAt, po.ReceivedAt, nullIfEmpty(po.InvoiceID),
		nullIfEmpty(po.CreatedBy), po.CreatedAt, po.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getByID(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la orden durante la recepción o la anulación.
func (r *PurchaseOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getByID(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) getByID(ctx context.Context, query, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return po, nil
}

func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders SET supplier_id = $2, status = $3, items = $4, total = $5, notes = $6, expected_at = $7,
			received_at = $8, invoice_id = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, po.ID, po.SupplierID, po.Status, purchaseOrderItemsToRows(po.Items), po.Total,
		po.Notes, po.ExpectedAt, po.ReceivedAt, nullIfEmpty(po.InvoiceID), po.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseOrderRepo) ListByCompany(ctx context.Context, companyID, status, supplierID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT ` + purchaseOrderColumns + `
		FROM purchase_orders
		WHERE company_id = $1 AND ($2 = '' OR status = $2) AND ($3 = '' OR supplier_id::text = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, companyID, status, supplierID, pageLimit(limit), pageOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.PurchaseOrder, error) { return scanPurchaseOrder(row) })
	if err != nil {
		return nil, fmt.Errorf("scan purchase orders: %w", err)
	}
	return list, nil
}

// OpenQuantity suma lo pedido del producto en órdenes draft o sent de la tienda.
func (r *PurchaseOrderRepo) OpenQuantity(ctx context.Context, productID, storeID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM((item->>'quantity')::numeric), 0)
		FROM purchase_orders po, jsonb_array_elements(po.items) AS item
		WHERE po.store_id = $2 AND po.status IN ('draft', 'sent') AND item->>'product_id' = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID, storeID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("open quantity: %w", err)
	}
	return total, nil
}

func (r *PurchaseOrderRepo) CountOpenBySupplier(ctx context.Context, supplierID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders WHERE supplier_id = $1 AND status IN ('draft', 'sent')`, supplierID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open purchase orders: %w", err)
	}
	return n, nil
}
