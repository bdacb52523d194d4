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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados entre tiendas; las líneas se guardan en la columna JSONB items.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx.
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

type transferItemRow struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func transferItemsToRows(items []entity.TransferItem) []transferItemRow {
	rows := make([]transferItemRow, len(items))
	for i, it := range items {
		rows[i] = transferItemRow{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return rows
}

const transferColumns = `id, company_id, number, from_store_id, to_store_id, status, items, notes, reason, requested_by,
	approved_by, received_by, created_at, updated_at, approved_at, received_at`

func scanTransfer(row pgx.Row) (*entity.InventoryTransfer, error) {
	var t entity.InventoryTransfer
	var items []transferItemRow
	var requestedBy, approvedBy, receivedBy *string
	err := row.Scan(&t.ID, &t.CompanyID, &t.Number, &t.FromStoreID, &t.ToStoreID, &t.Status, &items, &t.Notes, &t.Reason,
		&requestedBy, &approvedBy, &receivedBy, &t.CreatedAt, &t.UpdatedAt, &t.ApprovedAt, &t.ReceivedAt)
	if err != nil {
		return nil, err
	}
	t.RequestedBy = derefString(requestedBy)
	t.ApprovedBy = derefString(approvedBy)
	t.ReceivedBy = derefString(receivedBy)
	t.Items = make([]entity.TransferItem, len(items))
	for i, it := range items {
		t.Items[i] = entity.TransferItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return &t, nil
}

func (r *TransferRepo) Create(ctx context.Context, t *entity.InventoryTransfer) error {
	ensureID(&t.ID)
	query := `INSERT INTO inventory_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query, t.ID, t.CompanyID, t.Number, t.FromStoreID, t.ToStoreID, t.Status,
		transferItemsToRows(t.Items), t.Notes, t.Reason, nullIfEmpty(t.RequestedBy), nullIfEmpty(t.ApprovedBy),
		nullIfEmpty(t.ReceivedBy), t.CreatedAt, t.UpdatedAt, t.ApprovedAt, t.ReceivedAt)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.InventoryTransfer, error) {
	return r.getByID(ctx, `SELECT `+transferColumns+` FROM inventory_transfers WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea el traslado mientras cambia de estado y mueve stock.
func (r *TransferRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryTransfer, error) {
	return r.getByID(ctx, `SELECT `+transferColumns+` FROM inventory_transfers WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransferRepo) getByID(ctx context.Context, query, id string) (*entity.InventoryTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

func (r *TransferRepo) Update(ctx context.Context, t *entity.InventoryTransfer) error {
	query := `
		UPDATE inventory_transfers SET status = $2, items = $3, notes = $4, reason = $5, approved_by = $6, received_by = $7,
			updated_at = $8, approved_at = $9, received_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, t.ID, t.Status, transferItemsToRows(t.Items), t.Notes, t.Reason,
		nullIfEmpty(t.ApprovedBy), nullIfEmpty(t.ReceivedBy), t.UpdatedAt, t.ApprovedAt, t.ReceivedAt)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TransferRepo) ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.InventoryTransfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM inventory_transfers
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, status, pageLimit(limit), pageOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.InventoryTransfer, error) { return scanTransfer(row) })
	if err != nil {
		return nil, fmt.Errorf("scan transfers: %w", err)
	}
	return list, nil
}
