package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/taxid"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create crea una nueva empresa con todos los módulos activos.
// Devuelve domain.ErrDuplicate si el NIT ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.NIT = strings.TrimSpace(in.NIT)
	if in.Name == "" || in.NIT == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := taxid.Validate(in.NIT); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	existing, err := uc.repo.GetByNIT(ctx, in.NIT)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		NIT:       in.NIT,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	for _, m := range entity.AllModules {
		if err := uc.repo.ActivateModule(ctx, company.ID, m, nil); err != nil {
			return nil, err
		}
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return entityToCompanyResponse(company), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, limit, offset int) (*dto.CompanyListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ActivateModule activa un módulo SaaS para la empresa.
func (uc *CompanyUseCase) ActivateModule(ctx context.Context, companyID string, in dto.ActivateModuleRequest) error {
	if !entity.IsModule(in.Module) {
		return domain.ErrInvalidInput
	}
	company, err := uc.repo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}
	return uc.repo.ActivateModule(ctx, companyID, in.Module, in.ExpiresAt)
}

// SetStatus suspende o reactiva una empresa. Una empresa suspendida pierde el
// acceso a todos sus módulos sin perder la configuración de cada uno.
func (uc *CompanyUseCase) SetStatus(ctx context.Context, companyID string, in dto.CompanyStatusRequest) (*dto.CompanyResponse, error) {
	switch in.Status {
	case entity.CompanyActive, entity.CompanySuspended, entity.CompanyInactive:
	default:
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.UpdateStatus(ctx, companyID, in.Status); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, companyID)
}

// Modules estado de cada módulo de la empresa.
func (uc *CompanyUseCase) Modules(ctx context.Context, companyID string) ([]dto.ModuleStatusResponse, error) {
	out := make([]dto.ModuleStatusResponse, 0, len(entity.AllModules))
	for _, m := range entity.AllModules {
		active, err := uc.repo.HasActiveModule(ctx, companyID, m)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.ModuleStatusResponse{Module: m, Active: active})
	}
	return out, nil
}


func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		NIT:       c.NIT,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
