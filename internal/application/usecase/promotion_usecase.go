package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/pricing"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// PromotionUseCase códigos de descuento.
type PromotionUseCase struct {
	repo repository.PromotionRepository
	now  func() time.Time
}

// NewPromotionUseCase construye el caso de uso.
func NewPromotionUseCase(repo repository.PromotionRepository) *PromotionUseCase {
	return &PromotionUseCase{repo: repo, now: time.Now}
}

// Create registra una promoción. El código se guarda en mayúsculas.
func (uc *PromotionUseCase) Create(ctx context.Context, companyID string, in dto.CreatePromotionRequest) (*dto.PromotionResponse, error) {
	now := uc.now()
	p := &entity.Promotion{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Code:        strings.ToUpper(strings.TrimSpace(in.Code)),
		Name:        strings.TrimSpace(in.Name),
		Type:        in.Type,
		Value:       in.Value,
		MinPurchase: in.MinPurchase,
		StartsAt:    now,
		EndsAt:      in.EndsAt,
		UsageLimit:  in.UsageLimit,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.StartsAt != nil {
		p.StartsAt = *in.StartsAt
	}
	if err := pricing.ValidatePromotion(p); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, companyID, p.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPromotionResponse(p), nil
}

// Update modifica una promoción y vuelve a validarla.
func (uc *PromotionUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdatePromotionRequest) (*dto.PromotionResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Value != nil {
		p.Value = *in.Value
	}
	if in.MinPurchase != nil {
		p.MinPurchase = *in.MinPurchase
	}
	if in.EndsAt != nil {
		p.EndsAt = in.EndsAt
	}
	if in.UsageLimit != nil {
		p.UsageLimit = *in.UsageLimit
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if err := pricing.ValidatePromotion(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toPromotionResponse(p), nil
}

// List lista promociones; activeOnly filtra las desactivadas.
func (uc *PromotionUseCase) List(ctx context.Context, companyID string, activeOnly bool) ([]dto.PromotionResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PromotionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPromotionResponse(p))
	}
	return out, nil
}

// Evaluate calcula el descuento de un código sobre un subtotal sin consumir usos.
func (uc *PromotionUseCase) Evaluate(ctx context.Context, companyID string, in dto.EvaluatePromotionRequest) (*dto.EvaluatePromotionResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	p, err := uc.repo.GetByCode(ctx, companyID, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPromotionInvalid
	}
	d, err := pricing.EvaluatePromotion(p, in.Subtotal, uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.EvaluatePromotionResponse{Code: code, Discount: d}, nil
}

func toPromotionResponse(p *entity.Promotion) *dto.PromotionResponse {
	return &dto.PromotionResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Type:        p.Type,
		Value:       p.Value,
		MinPurchase: p.MinPurchase,
		StartsAt:    p.StartsAt,
		EndsAt:      p.EndsAt,
		UsageLimit:  p.UsageLimit,
		UsedCount:   p.UsedCount,
		IsActive:    p.IsActive,
	}
}
