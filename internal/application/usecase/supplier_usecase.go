package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var maxRating = decimal.NewFromInt(5)

// SupplierUseCase administra proveedores (SupplierManager).
type SupplierUseCase struct {
	repo   repository.SupplierRepository
	poRepo repository.PurchaseOrderRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, poRepo repository.PurchaseOrderRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, poRepo: poRepo}
}

// Create registra un proveedor activo.
func (uc *SupplierUseCase) Create(ctx context.Context, companyID string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || !validSupplierTerms(in.PaymentTermsDays, in.LeadTimeDays, in.Rating) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		Name:             name,
		ContactName:      in.ContactName,
		Email:            in.Email,
		Phone:            in.Phone,
		TaxID:            in.TaxID,
		Address:          in.Address,
		PaymentTermsDays: in.PaymentTermsDays,
		LeadTimeDays:     in.LeadTimeDays,
		Rating:           in.Rating,
		Status:           "active",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Get obtiene un proveedor de la empresa.
func (uc *SupplierUseCase) Get(ctx context.Context, companyID, id string) (*dto.SupplierResponse, error) {
	s, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Update modifica un proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.ContactName != nil {
		s.ContactName = *in.ContactName
	}
	if in.Email != nil {
		s.Email = *in.Email
	}
	if in.Phone != nil {
		s.Phone = *in.Phone
	}
	if in.TaxID != nil {
		s.TaxID = *in.TaxID
	}
	if in.Address != nil {
		s.Address = *in.Address
	}
	if in.PaymentTermsDays != nil {
		s.PaymentTermsDays = *in.PaymentTermsDays
	}
	if in.LeadTimeDays != nil {
		s.LeadTimeDays = *in.LeadTimeDays
	}
	if in.Rating != nil {
		s.Rating = *in.Rating
	}
	if in.Status != nil {
		if *in.Status != "active" && *in.Status != "inactive" {
			return nil, domain.ErrInvalidInput
		}
		s.Status = *in.Status
	}
	if !validSupplierTerms(s.PaymentTermsDays, s.LeadTimeDays, s.Rating) {
		return nil, domain.ErrInvalidInput
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// List lista proveedores con búsqueda por nombre.
func (uc *SupplierUseCase) List(ctx context.Context, companyID, search string, page dto.PageRequest) (*dto.SupplierListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, strings.TrimSpace(search), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Delete elimina un proveedor sin órdenes de compra abiertas.
func (uc *SupplierUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.owned(ctx, companyID, id); err != nil {
		return err
	}
	open, err := uc.poRepo.CountOpenBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *SupplierUseCase) owned(ctx context.Context, companyID, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

func validSupplierTerms(terms, lead int, rating decimal.Decimal) bool {
	return terms >= 0 && lead >= 0 && !rating.IsNegative() && !rating.GreaterThan(maxRating)
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:               s.ID,
		Name:             s.Name,
		ContactName:      s.ContactName,
		Email:            s.Email,
		Phone:            s.Phone,
		TaxID:            s.TaxID,
		Address:          s.Address,
		PaymentTermsDays: s.PaymentTermsDays,
		LeadTimeDays:     s.LeadTimeDays,
		Rating:           s.Rating,
		Status:           s.Status,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
