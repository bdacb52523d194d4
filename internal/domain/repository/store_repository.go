package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para tiendas/sucursales.
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Store, error)
}
