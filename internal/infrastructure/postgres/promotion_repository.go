package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.PromotionRepository = (*PromotionRepo)(nil)

// PromotionRepo promociones sobre PostgreSQL (usable con pool o tx).
type PromotionRepo struct {
	q Querier
}

// NewPromotionRepository construye el adaptador de persistencia para promociones.
func NewPromotionRepository(q Querier) *PromotionRepo {
	return &PromotionRepo{q: q}
}

const promotionColumns = `id, company_id, code, name, type, value, min_purchase, starts_at, ends_at, usage_limit,
	used_count, is_active, created_at, updated_at`

func scanPromotion(row pgx.Row) (*entity.Promotion, error) {
	var p entity.Promotion
	err := row.Scan(&p.ID, &p.CompanyID, &p.Code, &p.Name, &p.Type, &p.Value, &p.MinPurchase, &p.StartsAt, &p.EndsAt,
		&p.UsageLimit, &p.UsedCount, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PromotionRepo) Create(ctx context.Context, p *entity.Promotion) error {
	ensureID(&p.ID)
	query := `INSERT INTO promotions (` + promotionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query, p.ID, p.CompanyID, p.Code, p.Name, p.Type, p.Value, p.MinPurchase, p.StartsAt,
		p.EndsAt, p.UsageLimit, p.UsedCount, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert promotion: %w", err)
	}
	return nil
}

func (r *PromotionRepo) getOne(ctx context.Context, where string, args ...any) (*entity.Promotion, error) {
	p, err := scanPromotion(r.q.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE `+where, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	return p, nil
}

func (r *PromotionRepo) GetByID(ctx context.Context, id string) (*entity.Promotion, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *PromotionRepo) GetByCode(ctx context.Context, companyID, code string) (*entity.Promotion, error) {
	return r.getOne(ctx, `company_id = $1 AND code = $2`, companyID, code)
}

func (r *PromotionRepo) Update(ctx context.Context, p *entity.Promotion) error {
	query := `
		UPDATE promotions SET code = $2, name = $3, type = $4, value = $5, min_purchase = $6, starts_at = $7, ends_at = $8,
			usage_limit = $9, used_count = $10, is_active = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Code, p.Name, p.Type, p.Value, p.MinPurchase, p.StartsAt, p.EndsAt,
		p.UsageLimit, p.UsedCount, p.IsActive, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PromotionRepo) ListByCompany(ctx context.Context, companyID string, activeOnly bool) ([]*entity.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE company_id = $1 AND (NOT $2 OR is_active) ORDER BY code`
	rows, err := r.q.Query(ctx, query, companyID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Promotion, error) { return scanPromotion(row) })
	if err != nil {
		return nil, fmt.Errorf("scan promotions: %w", err)
	}
	return list, nil
}

// IncrementUsage suma un uso al aplicar el código en una venta.
func (r *PromotionRepo) IncrementUsage(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE promotions SET used_count = used_count + 1, updated_at = $2 WHERE id = $1`, id, time.Now())
	if err != nil {
		return fmt.Errorf("increment promotion usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
