package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// CustomerUseCase clientes y saldo de puntos ECP.
type CustomerUseCase struct {
	repo repository.CustomerRepository
	log  zerolog.Logger
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, log zerolog.Logger) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, log: log}
}

// Create registra un cliente con saldo de puntos en cero.
func (uc *CustomerUseCase) Create(ctx context.Context, companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c := &entity.Customer{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		Name:       name,
		TaxID:      strings.TrimSpace(in.TaxID),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		TotalSpent: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return ToCustomerResponse(c), nil
}

// Get obtiene un cliente de la empresa.
func (uc *CustomerUseCase) Get(ctx context.Context, companyID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(c), nil
}

// Update modifica datos de contacto del cliente.
func (uc *CustomerUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.TaxID != nil {
		c.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if in.Email != nil {
		c.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return ToCustomerResponse(c), nil
}

// List lista clientes con búsqueda por nombre, documento o email.
func (uc *CustomerUseCase) List(ctx context.Context, companyID, search string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, strings.TrimSpace(search), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *ToCustomerResponse(c))
	}
	return &dto.CustomerListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// AdjustPoints suma o resta puntos manualmente. El saldo no puede quedar negativo.
func (uc *CustomerUseCase) AdjustPoints(ctx context.Context, companyID, userID, id string, in dto.AdjustPointsRequest) (*dto.CustomerResponse, error) {
	if in.Points == 0 || strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.owned(ctx, companyID, id); err != nil {
		return nil, err
	}
	if err := uc.repo.AddLoyalty(ctx, id, in.Points, decimal.Zero); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("customer_id", id).
		Str("user_id", userID).
		Int64("points", in.Points).
		Str("reason", in.Reason).
		Msg("ajuste manual de puntos")
	return uc.Get(ctx, companyID, id)
}

func (uc *CustomerUseCase) owned(ctx context.Context, companyID, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

// ToCustomerResponse convierte la entidad a DTO.
func ToCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		TaxID:         c.TaxID,
		Email:         c.Email,
		Phone:         c.Phone,
		LoyaltyPoints: c.LoyaltyPoints,
		TotalSpent:    c.TotalSpent,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
