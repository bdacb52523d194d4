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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, company_id, category_id, supplier_id, sku, barcode, name, description, price, cost, tax_rate,
	unit_measure, reorder_point, reorder_qty, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var categoryID, supplierID, barcode *string
	err := row.Scan(
		&p.ID, &p.CompanyID, &categoryID, &supplierID, &p.SKU, &barcode, &p.Name, &p.Description,
		&p.Price, &p.Cost, &p.TaxRate, &p.UnitMeasure, &p.ReorderPoint, &p.ReorderQty, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CategoryID = derefString(categoryID)
	p.SupplierID = derefString(supplierID)
	p.Barcode = derefString(barcode)
	return &p, nil
}

// Create persiste un nuevo producto. Cost inicia en 0 salvo que el caso de uso lo defina.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	ensureID(&p.ID)
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, nullIfEmpty(p.CategoryID), nullIfEmpty(p.SupplierID), p.SKU, nullIfEmpty(p.Barcode),
		p.Name, p.Description, p.Price, p.Cost, p.TaxRate, p.UnitMeasure, p.ReorderPoint, p.ReorderQty, p.IsActive,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, where string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE `+where, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `id = $1`, id)
}

// GetByCompanyAndSKU obtiene un producto por empresa y SKU.
func (r *ProductRepo) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `company_id = $1 AND sku = $2`, companyID, sku)
}

// GetByBarcode obtiene un producto por código de barras (lectura del escáner).
func (r *ProductRepo) GetByBarcode(ctx context.Context, companyID, barcode string) (*entity.Product, error) {
	if barcode == "" {
		return nil, nil
	}
	return r.getOne(ctx, `company_id = $1 AND barcode = $2`, companyID, barcode)
}

// Update actualiza los datos editables del producto. El costo se mantiene con UpdateCost.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET category_id = $2, supplier_id = $3, sku = $4, barcode = $5, name = $6, description = $7,
			price = $8, tax_rate = $9, unit_measure = $10, reorder_point = $11, reorder_qty = $12, is_active = $13,
			updated_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, nullIfEmpty(p.CategoryID), nullIfEmpty(p.SupplierID), p.SKU, nullIfEmpty(p.Barcode), p.Name, p.Description,
		p.Price, p.TaxRate, p.UnitMeasure, p.ReorderPoint, p.ReorderQty, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza el costo promedio ponderado (dentro de la transacción de la entrada).
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET cost = $2, updated_at = $3 WHERE id = $1`, productID, cost, time.Now())
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos de la empresa con búsqueda por nombre, SKU o código de barras.
func (r *ProductRepo) List(ctx context.Context, companyID string, f repository.ProductFilter) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE company_id = $1
		  AND ($2 = '' OR name ILIKE $2 OR sku ILIKE $2 OR barcode ILIKE $2)
		  AND ($3 = '' OR category_id::text = $3)
		  AND (NOT $4 OR is_active)
		ORDER BY lower(name)
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query,
		companyID, likePattern(f.Search), f.CategoryID, f.ActiveOnly, pageLimit(f.Limit), pageOffset(f.Offset))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Product, error) { return scanProduct(row) })
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	return list, nil
}

// CountByCategory cuenta los productos asignados a una categoría.
func (r *ProductRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return n, nil
}

// Delete elimina un producto.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
