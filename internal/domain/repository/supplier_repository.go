package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	ListByCompany(ctx context.Context, companyID, search string, limit, offset int) ([]*entity.Supplier, error)
	Delete(ctx context.Context, id string) error
}
