package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia para traslados entre tiendas.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.InventoryTransfer) error
	GetByID(ctx context.Context, id string) (*entity.InventoryTransfer, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryTransfer, error)
	Update(ctx context.Context, t *entity.InventoryTransfer) error
	ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.InventoryTransfer, error)
}
