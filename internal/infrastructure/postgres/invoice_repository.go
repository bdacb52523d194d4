package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

type invoiceLineRow struct {
	Description string          `json:"description"`
	ProductID   string          `json:"product_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}

func invoiceLinesToRows(lines []entity.InvoiceLine) []invoiceLineRow {
	rows := make([]invoiceLineRow, len(lines))
	for i, l := range lines {
		rows[i] = invoiceLineRow(l)
	}
	return rows
}

const invoiceColumns = `id, company_id, type, number, counterparty_id, counterparty_name, purchase_order_id, issue_date,
	due_date, lines, subtotal, tax_total, total, amount_paid, status, notes, created_by, created_at, updated_at`

// openInvoiceStatuses estados con saldo por cobrar/pagar.
const openInvoiceStatuses = `('pending', 'partial', 'overdue')`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var lines []invoiceLineRow
	var counterpartyID, purchaseOrderID, createdBy *string
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.Type, &inv.Number, &counterpartyID, &inv.CounterpartyName,
		&purchaseOrderID, &inv.IssueDate, &inv.DueDate, &lines, &inv.Subtotal, &inv.TaxTotal, &inv.Total,
		&inv.AmountPaid, &inv.Status, &inv.Notes, &createdBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.CounterpartyID = derefString(counterpartyID)
	inv.PurchaseOrderID = derefString(purchaseOrderID)
	inv.CreatedBy = derefString(createdBy)
	inv.Lines = make([]entity.InvoiceLine, len(lines))
	for i, l := range lines {
		inv.Lines[i] = entity.InvoiceLine(l)
	}
	return &inv, nil
}

// Create persiste la factura. El número es único por empresa y tipo.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	ensureID(&inv.ID)
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query, inv.ID, inv.CompanyID, inv.Type, inv.Number, nullIfEmpty(inv.CounterpartyID),
		inv.CounterpartyName, nullIfEmpty(inv.PurchaseOrderID), inv.IssueDate, inv.DueDate, invoiceLinesToRows(inv.Lines),
		inv.Subtotal, inv.TaxTotal, inv.Total, inv.AmountPaid, inv.Status, inv.Notes, nullIfEmpty(inv.CreatedBy),
		inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

func (r *InvoiceRepo) GetByNumber(ctx context.Context, companyID, invoiceType, number string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 AND type = $2 AND number = $3`,
		companyID, invoiceType, number)
}

// GetByIDForUpdate bloquea la factura mientras se registra un abono.
func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices SET counterparty_id = $2, counterparty_name = $3, due_date = $4, lines = $5, subtotal = $6,
			tax_total = $7, total = $8, amount_paid = $9, status = $10, notes = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, inv.ID, nullIfEmpty(inv.CounterpartyID), inv.CounterpartyName, inv.DueDate,
		invoiceLinesToRows(inv.Lines), inv.Subtotal, inv.TaxTotal, inv.Total, inv.AmountPaid, inv.Status, inv.Notes,
		inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List facturas de la empresa ordenadas por vencimiento.
func (r *InvoiceRepo) List(ctx context.Context, companyID string, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1
		  AND ($2 = '' OR type = $2)
		  AND ($3 = '' OR status = $3)
		  AND ($4 = '' OR counterparty_id::text = $4)
		  AND (NOT $5 OR status IN ` + openInvoiceStatuses + `)
		ORDER BY due_date, number
		LIMIT $6 OFFSET $7`
	rows, err := r.q.Query(ctx, query, companyID, f.Type, f.Status, f.CounterpartyID, f.OpenOnly,
		pageLimit(f.Limit), pageOffset(f.Offset))
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Invoice, error) { return scanInvoice(row) })
	if err != nil {
		return nil, fmt.Errorf("scan invoices: %w", err)
	}
	return list, nil
}

func (r *InvoiceRepo) CreatePayment(ctx context.Context, p *entity.InvoicePayment) error {
	ensureID(&p.ID)
	query := `
		INSERT INTO invoice_payments (id, invoice_id, amount, method, reference, paid_at, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, p.ID, p.InvoiceID, p.Amount, p.Method, p.Reference, p.PaidAt,
		nullIfEmpty(p.RecordedBy), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert invoice payment: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) ListPayments(ctx context.Context, invoiceID string) ([]*entity.InvoicePayment, error) {
	query := `
		SELECT id, invoice_id, amount, method, reference, paid_at, recorded_by, created_at
		FROM invoice_payments WHERE invoice_id = $1 ORDER BY paid_at`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice payments: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.InvoicePayment, error) {
		var p entity.InvoicePayment
		var recordedBy *string
		err := row.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.Reference, &p.PaidAt, &recordedBy, &p.CreatedAt)
		p.RecordedBy = derefString(recordedBy)
		return &p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan invoice payments: %w", err)
	}
	return list, nil
}

// MarkOverdue pasa a overdue las facturas con saldo cuyo día de vencimiento ya pasó.
func (r *InvoiceRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE invoices SET status = 'overdue', updated_at = $1
		WHERE status IN ('pending', 'partial') AND amount_paid < total AND due_date < $2`
	tag, err := r.q.Exec(ctx, query, now, startOfDay(now))
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return tag.RowsAffected(), nil
}
