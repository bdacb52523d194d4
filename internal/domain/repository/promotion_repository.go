package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// PromotionRepository define el puerto de persistencia para promociones.
type PromotionRepository interface {
	Create(ctx context.Context, promo *entity.Promotion) error
	GetByID(ctx context.Context, id string) (*entity.Promotion, error)
	GetByCode(ctx context.Context, companyID, code string) (*entity.Promotion, error)
	Update(ctx context.Context, promo *entity.Promotion) error
	ListByCompany(ctx context.Context, companyID string, activeOnly bool) ([]*entity.Promotion, error)
	IncrementUsage(ctx context.Context, id string) error
}
