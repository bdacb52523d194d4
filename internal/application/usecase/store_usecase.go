package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// StoreUseCase CRUD de tiendas (sucursales) de la empresa.
type StoreUseCase struct {
	repo repository.StoreRepository
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(repo repository.StoreRepository) *StoreUseCase {
	return &StoreUseCase{repo: repo}
}

// Create crea una tienda. El código se normaliza a mayúsculas y es único por empresa.
func (uc *StoreUseCase) Create(ctx context.Context, companyID string, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	store := &entity.Store{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      code,
		Name:      name,
		Address:   in.Address,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// Get obtiene una tienda de la empresa.
func (uc *StoreUseCase) Get(ctx context.Context, companyID, id string) (*dto.StoreResponse, error) {
	store, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// Update actualiza campos de la tienda.
func (uc *StoreUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	store, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		store.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		store.Address = *in.Address
	}
	if in.Phone != nil {
		store.Phone = *in.Phone
	}
	if in.IsActive != nil {
		store.IsActive = *in.IsActive
	}
	store.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// List lista las tiendas de la empresa.
func (uc *StoreUseCase) List(ctx context.Context, companyID string) ([]dto.StoreResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toStoreResponse(s))
	}
	return out, nil
}

func (uc *StoreUseCase) owned(ctx context.Context, companyID, id string) (*entity.Store, error) {
	store, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	if store.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return store, nil
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	return &dto.StoreResponse{
		ID:        s.ID,
		CompanyID: s.CompanyID,
		Code:      s.Code,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
