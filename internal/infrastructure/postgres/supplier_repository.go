package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de persistencia para proveedores.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, company_id, name, contact_name, email, phone, tax_id, address, payment_terms_days,
	lead_time_days, rating, status, created_at, updated_at`

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.CompanyID, &s.Name, &s.ContactName, &s.Email, &s.Phone, &s.TaxID, &s.Address,
		&s.PaymentTermsDays, &s.LeadTimeDays, &s.Rating, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	ensureID(&s.ID)
	query := `INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query, s.ID, s.CompanyID, s.Name, s.ContactName, s.Email, s.Phone, s.TaxID, s.Address,
		s.PaymentTermsDays, s.LeadTimeDays, s.Rating, s.Status, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, contact_name = $3, email = $4, phone = $5, tax_id = $6, address = $7,
			payment_terms_days = $8, lead_time_days = $9, rating = $10, status = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Name, s.ContactName, s.Email, s.Phone, s.TaxID, s.Address,
		s.PaymentTermsDays, s.LeadTimeDays, s.Rating, s.Status, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista proveedores; search filtra por nombre o contacto.
func (r *SupplierRepo) ListByCompany(ctx context.Context, companyID, search string, limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT ` + supplierColumns + `
		FROM suppliers
		WHERE company_id = $1 AND ($2 = '' OR name ILIKE $2 OR contact_name ILIKE $2)
		ORDER BY lower(name)
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, likePattern(search), pageLimit(limit), pageOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Supplier, error) { return scanSupplier(row) })
	if err != nil {
		return nil, fmt.Errorf("scan suppliers: %w", err)
	}
	return list, nil
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
