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

// CategoryUseCase árbol de categorías de productos (CategoryManager).
type CategoryUseCase struct {
	repo        repository.CategoryRepository
	productRepo repository.ProductRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, productRepo repository.ProductRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, productRepo: productRepo}
}

// Create crea una categoría. El padre, si se indica, debe ser de la misma empresa.
func (uc *CategoryUseCase) Create(ctx context.Context, companyID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if name == "" || code == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ParentID != "" {
		if _, err := uc.owned(ctx, companyID, in.ParentID); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	c := &entity.Category{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ParentID:    in.ParentID,
		Name:        name,
		Code:        code,
		Description: in.Description,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Get obtiene una categoría de la empresa.
func (uc *CategoryUseCase) Get(ctx context.Context, companyID, id string) (*dto.CategoryResponse, error) {
	c, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Update modifica una categoría. Un padre que sea ella misma o una descendiente crearía un ciclo.
func (uc *CategoryUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.ParentID != nil && *in.ParentID != c.ParentID {
		parentID := *in.ParentID
		if parentID != "" {
			all, err := uc.repo.ListByCompany(ctx, companyID)
			if err != nil {
				return nil, err
			}
			if !containsCategory(all, parentID) || isDescendantOrSelf(all, id, parentID) {
				return nil, domain.ErrInvalidInput
			}
		}
		c.ParentID = parentID
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Status != nil {
		if *in.Status != "active" && *in.Status != "inactive" {
			return nil, domain.ErrInvalidInput
		}
		c.Status = *in.Status
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Tree devuelve las categorías de la empresa como árbol.
func (uc *CategoryUseCase) Tree(ctx context.Context, companyID string) ([]dto.CategoryNode, error) {
	all, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	children := map[string][]*entity.Category{}
	for _, c := range all {
		children[c.ParentID] = append(children[c.ParentID], c)
	}
	var build func(parentID string) []dto.CategoryNode
	build = func(parentID string) []dto.CategoryNode {
		nodes := make([]dto.CategoryNode, 0, len(children[parentID]))
		for _, c := range children[parentID] {
			nodes = append(nodes, dto.CategoryNode{CategoryResponse: *toCategoryResponse(c), Children: build(c.ID)})
		}
		return nodes
	}
	return build(""), nil
}

// Delete elimina una categoría sin hijas ni productos asignados.
func (uc *CategoryUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.owned(ctx, companyID, id); err != nil {
		return err
	}
	all, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	for _, c := range all {
		if c.ParentID == id {
			return domain.ErrConflict
		}
	}
	n, err := uc.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *CategoryUseCase) owned(ctx context.Context, companyID, id string) (*entity.Category, error) {
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

func containsCategory(all []*entity.Category, id string) bool {
	for _, c := range all {
		if c.ID == id {
			return true
		}
	}
	return false
}

// isDescendantOrSelf recorre los ancestros de candidate buscando root.
func isDescendantOrSelf(all []*entity.Category, root, candidate string) bool {
	parent := make(map[string]string, len(all))
	for _, c := range all {
		parent[c.ID] = c.ParentID
	}
	seen := map[string]bool{}
	for cur := candidate; cur != ""; cur = parent[cur] {
		if cur == root {
			return true
		}
		if seen[cur] {
			return true
		}
		seen[cur] = true
	}
	return false
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		Code:        c.Code,
		Description: c.Description,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
