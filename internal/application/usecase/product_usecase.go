package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/realtime"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	taxZero = decimal.Zero
	tax5    = decimal.NewFromInt(5)
	tax19   = decimal.NewFromInt(19)
)

// ValidTaxRate informa si la tarifa de IVA es una de las permitidas (0, 5, 19).
func ValidTaxRate(rate decimal.Decimal) bool {
	return rate.Equal(taxZero) || rate.Equal(tax5) || rate.Equal(tax19)
}

// ProductUseCase casos de uso CRUD para productos. Cost y Stock se manejan vía movimientos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	publisher    *realtime.Publisher
}

// NewProductUseCase construye el caso de uso. publisher puede ser nil.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	publisher *realtime.Publisher,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, supplierRepo: supplierRepo, publisher: publisher}
}

// Create crea un nuevo producto. Cost inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Barcode = strings.TrimSpace(in.Barcode)
	if in.SKU == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if !ValidTaxRate(in.TaxRate) || in.Price.IsNegative() || in.ReorderPoint.IsNegative() || in.ReorderQty.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCompanyAndSKU(ctx, companyID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.Barcode != "" {
		byCode, err := uc.repo.GetByBarcode(ctx, companyID, in.Barcode)
		if err != nil {
			return nil, err
		}
		if byCode != nil {
			return nil, domain.ErrDuplicate
		}
	}
	if err := uc.checkRefs(ctx, companyID, in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "94"
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		CategoryID:   in.CategoryID,
		SupplierID:   in.SupplierID,
		SKU:          in.SKU,
		Barcode:      in.Barcode,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		Cost:         decimal.Zero,
		TaxRate:      in.TaxRate,
		UnitMeasure:  in.UnitMeasure,
		ReorderPoint: in.ReorderPoint,
		ReorderQty:   in.ReorderQty,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	uc.publisher.Notify(ctx, companyID, realtime.TopicProducts, realtime.EventCreated, product.ID, resp)
	return resp, nil
}

// GetByID obtiene un producto de la empresa por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByCode busca por código de barras y, si no existe, por SKU (lector de códigos).
func (uc *ProductUseCase) GetByCode(ctx context.Context, companyID, code string) (*dto.ProductResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.repo.GetByBarcode(ctx, companyID, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		product, err = uc.repo.GetByCompanyAndSKU(ctx, companyID, code)
		if err != nil {
			return nil, err
		}
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar Cost ni Stock (se manejan vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Barcode != nil {
		code := strings.TrimSpace(*in.Barcode)
		if code != "" && code != product.Barcode {
			byCode, err := uc.repo.GetByBarcode(ctx, companyID, code)
			if err != nil {
				return nil, err
			}
			if byCode != nil {
				return nil, domain.ErrDuplicate
			}
		}
		product.Barcode = code
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil || in.SupplierID != nil {
		categoryID, supplierID := product.CategoryID, product.SupplierID
		if in.CategoryID != nil {
			categoryID = *in.CategoryID
		}
		if in.SupplierID != nil {
			supplierID = *in.SupplierID
		}
		if err := uc.checkRefs(ctx, companyID, categoryID, supplierID); err != nil {
			return nil, err
		}
		product.CategoryID, product.SupplierID = categoryID, supplierID
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.TaxRate != nil {
		if !ValidTaxRate(*in.TaxRate) {
			return nil, domain.ErrInvalidInput
		}
		product.TaxRate = *in.TaxRate
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.ReorderPoint != nil {
		if in.ReorderPoint.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.ReorderPoint = *in.ReorderPoint
	}
	if in.ReorderQty != nil {
		if in.ReorderQty.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.ReorderQty = *in.ReorderQty
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	uc.publisher.Notify(ctx, companyID, realtime.TopicProducts, realtime.EventUpdated, product.ID, resp)
	return resp, nil
}

// List lista productos por empresa con búsqueda, filtro de categoría y paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, companyID, repository.ProductFilter{
		Search:     strings.TrimSpace(in.Search),
		CategoryID: in.CategoryID,
		ActiveOnly: in.ActiveOnly,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Delete elimina un producto de la empresa.
func (uc *ProductUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.owned(ctx, companyID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.publisher.Notify(ctx, companyID, realtime.TopicProducts, realtime.EventDeleted, id, nil)
	return nil
}

func (uc *ProductUseCase) owned(ctx context.Context, companyID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func (uc *ProductUseCase) checkRefs(ctx context.Context, companyID, categoryID, supplierID string) error {
	if categoryID != "" {
		c, err := uc.categoryRepo.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if c == nil || c.CompanyID != companyID {
			return domain.ErrInvalidInput
		}
	}
	if supplierID != "" {
		s, err := uc.supplierRepo.GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		if s == nil || s.CompanyID != companyID {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// ToProductResponse convierte la entidad a DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		CompanyID:    p.CompanyID,
		CategoryID:   p.CategoryID,
		SupplierID:   p.SupplierID,
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Cost:         p.Cost,
		TaxRate:      p.TaxRate,
		UnitMeasure:  p.UnitMeasure,
		ReorderPoint: p.ReorderPoint,
		ReorderQty:   p.ReorderQty,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
