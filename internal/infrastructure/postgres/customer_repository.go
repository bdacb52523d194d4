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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo clientes y saldo de puntos sobre PostgreSQL (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador de persistencia para clientes.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, company_id, name, tax_id, email, phone, loyalty_points, total_spent, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var taxID *string
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &taxID, &c.Email, &c.Phone, &c.LoyaltyPoints, &c.TotalSpent, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.TaxID = derefString(taxID)
	return &c, nil
}

// Create persiste un cliente. El documento es único por empresa cuando se informa.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	ensureID(&c.ID)
	query := `INSERT INTO customers (` + customerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, c.ID, c.CompanyID, c.Name, nullIfEmpty(c.TaxID), c.Email, c.Phone,
		c.LoyaltyPoints, c.TotalSpent, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.get(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE) para mover el saldo de puntos.
func (r *CustomerRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.get(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id)
}

func (r *CustomerRepo) get(ctx context.Context, query, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, tax_id = $3, email = $4, phone = $5, loyalty_points = $6, total_spent = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, nullIfEmpty(c.TaxID), c.Email, c.Phone, c.LoyaltyPoints, c.TotalSpent, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista clientes; search filtra por nombre, documento o teléfono.
func (r *CustomerRepo) ListByCompany(ctx context.Context, companyID, search string, limit, offset int) ([]*entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE company_id = $1 AND ($2 = '' OR name ILIKE $2 OR tax_id ILIKE $2 OR phone ILIKE $2)
		ORDER BY lower(name)
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, likePattern(search), pageLimit(limit), pageOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Customer, error) { return scanCustomer(row) })
	if err != nil {
		return nil, fmt.Errorf("scan customers: %w", err)
	}
	return list, nil
}

// AddLoyalty suma (o resta) puntos y acumula el monto comprado. El CHECK de la tabla
// impide que el saldo quede negativo.
func (r *CustomerRepo) AddLoyalty(ctx context.Context, id string, points int64, spent decimal.Decimal) error {
	query := `
		UPDATE customers SET loyalty_points = loyalty_points + $2, total_spent = total_spent + $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, points, spent, time.Now())
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientPoints
		}
		return fmt.Errorf("add loyalty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
