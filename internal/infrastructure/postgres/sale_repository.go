package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y canastas con sus líneas y pagos (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, company_id, store_id, number, cashier_id, customer_id, cash_session_id, status, promotion_id,
	promotion_code, subtotal, discount_total, tax_total, total, change_due, points_earned, points_redeemed, notes,
	approved_by, void_reason, created_at, updated_at, completed_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customerID, sessionID, promotionID, approvedBy *string
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.StoreID, &s.Number, &s.CashierID, &customerID, &sessionID, &s.Status, &promotionID,
		&s.PromotionCode, &s.Subtotal, &s.DiscountTotal, &s.TaxTotal, &s.Total, &s.ChangeDue, &s.PointsEarned,
		&s.PointsRedeemed, &s.Notes, &approvedBy, &s.VoidReason, &s.CreatedAt, &s.UpdatedAt, &s.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	s.CustomerID = derefString(customerID)
	s.CashSessionID = derefString(sessionID)
	s.PromotionID = derefString(promotionID)
	s.ApprovedBy = derefString(approvedBy)
	return &s, nil
}

func queueSaleItems(b *pgx.Batch, sale *entity.Sale) {
	for i := range sale.Items {
		it := &sale.Items[i]
		ensureID(&it.ID)
		it.SaleID = sale.ID
		b.Queue(`
			INSERT INTO sale_items (id, sale_id, position, product_id, sku, name, quantity, unit_price, unit_cost,
				discount_pct, discount, tax_rate, tax_amount, subtotal, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			it.ID, it.SaleID, i, it.ProductID, it.SKU, it.Name, it.Quantity, it.UnitPrice, it.UnitCost,
			it.DiscountPct, it.Discount, it.TaxRate, it.TaxAmount, it.Subtotal, it.Total)
	}
}

func queueSalePayments(b *pgx.Batch, sale *entity.Sale) {
	for i := range sale.Payments {
		p := &sale.Payments[i]
		ensureID(&p.ID)
		p.SaleID = sale.ID
		b.Queue(`
			INSERT INTO sale_payments (id, sale_id, position, method, amount, reference, card_last4, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.ID, p.SaleID, i, p.Method, p.Amount, p.Reference, p.CardLast4, p.CreatedAt)
	}
}

// Create persiste cabecera, líneas y pagos en una sola transacción (savepoint si q ya es una tx).
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	ensureID(&s.ID)
	err := pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		b := &pgx.Batch{}
		b.Queue(`INSERT INTO sales (`+saleColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
			s.ID, s.CompanyID, s.StoreID, s.Number, s.CashierID, nullIfEmpty(s.CustomerID), nullIfEmpty(s.CashSessionID),
			s.Status, nullIfEmpty(s.PromotionID), s.PromotionCode, s.Subtotal, s.DiscountTotal, s.TaxTotal, s.Total,
			s.ChangeDue, s.PointsEarned, s.PointsRedeemed, s.Notes, nullIfEmpty(s.ApprovedBy), s.VoidReason,
			s.CreatedAt, s.UpdatedAt, s.CompletedAt)
		queueSaleItems(b, s)
		queueSalePayments(b, s)
		return tx.SendBatch(ctx, b).Close()
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene la venta con líneas y pagos.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getByID(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la fila de la venta hasta el fin de la transacción.
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getByID(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) getByID(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadDetails(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// Update actualiza la cabecera y reemplaza líneas y pagos. Las líneas solo cambian mientras la venta es canasta.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	err := pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE sales SET cashier_id = $2, customer_id = $3, cash_session_id = $4, status = $5, promotion_id = $6,
				promotion_code = $7, subtotal = $8, discount_total = $9, tax_total = $10, total = $11, change_due = $12,
				points_earned = $13, points_redeemed = $14, notes = $15, approved_by = $16, void_reason = $17,
				updated_at = $18, completed_at = $19
			WHERE id = $1`,
			s.ID, s.CashierID, nullIfEmpty(s.CustomerID), nullIfEmpty(s.CashSessionID), s.Status, nullIfEmpty(s.PromotionID),
			s.PromotionCode, s.Subtotal, s.DiscountTotal, s.TaxTotal, s.Total, s.ChangeDue, s.PointsEarned,
			s.PointsRedeemed, s.Notes, nullIfEmpty(s.ApprovedBy), s.VoidReason, s.UpdatedAt, s.CompletedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		b := &pgx.Batch{}
		b.Queue(`DELETE FROM sale_items WHERE sale_id = $1`, s.ID)
		b.Queue(`DELETE FROM sale_payments WHERE sale_id = $1`, s.ID)
		queueSaleItems(b, s)
		queueSalePayments(b, s)
		return tx.SendBatch(ctx, b).Close()
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// List ventas de la empresa, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, companyID string, f repository.SaleFilter) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE company_id = $1
		  AND ($2 = '' OR store_id::text = $2)
		  AND ($3 = '' OR status = $3)
		  AND ($4 = '' OR cashier_id = $4)
		  AND ($5::timestamptz IS NULL OR created_at >= $5)
		  AND ($6::timestamptz IS NULL OR created_at <= $6)
		ORDER BY created_at DESC
		LIMIT $7 OFFSET $8`
	return r.query(ctx, query, companyID, f.StoreID, f.Status, f.CashierID, f.From, f.To, pageLimit(f.Limit), pageOffset(f.Offset))
}

// ListBySession ventas de una sesión de caja en orden cronológico.
func (r *SaleRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.Sale, error) {
	return r.query(ctx, `SELECT `+saleColumns+` FROM sales WHERE cash_session_id = $1 ORDER BY created_at`, sessionID)
}

func (r *SaleRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	sales, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Sale, error) { return scanSale(row) })
	if err != nil {
		return nil, fmt.Errorf("scan sales: %w", err)
	}
	if err := r.loadDetails(ctx, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// loadDetails carga líneas y pagos de varias ventas con dos consultas.
func (r *SaleRepo) loadDetails(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, len(sales))
	byID := make(map[string]*entity.Sale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		byID[s.ID] = s
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, sku, name, quantity, unit_price, unit_cost, discount_pct, discount, tax_rate,
			tax_amount, subtotal, total
		FROM sale_items WHERE sale_id = ANY($1::uuid[]) ORDER BY sale_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.SaleItem, error) {
		var it entity.SaleItem
		err := row.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.SKU, &it.Name, &it.Quantity, &it.UnitPrice, &it.UnitCost,
			&it.DiscountPct, &it.Discount, &it.TaxRate, &it.TaxAmount, &it.Subtotal, &it.Total)
		return it, err
	})
	if err != nil {
		return fmt.Errorf("scan sale items: %w", err)
	}
	for _, it := range items {
		s := byID[it.SaleID]
		s.Items = append(s.Items, it)
	}

	rows, err = r.q.Query(ctx, `
		SELECT id, sale_id, method, amount, reference, card_last4, created_at
		FROM sale_payments WHERE sale_id = ANY($1::uuid[]) ORDER BY sale_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list sale payments: %w", err)
	}
	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.SalePayment, error) {
		var p entity.SalePayment
		err := row.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount, &p.Reference, &p.CardLast4, &p.CreatedAt)
		return p, err
	})
	if err != nil {
		return fmt.Errorf("scan sale payments: %w", err)
	}
	for _, p := range payments {
		s := byID[p.SaleID]
		s.Payments = append(s.Payments, p)
	}
	return nil
}
