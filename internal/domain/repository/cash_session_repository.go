package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// CashSessionRepository define el puerto de persistencia para sesiones de caja.
type CashSessionRepository interface {
	Create(ctx context.Context, s *entity.CashSession) error
	GetByID(ctx context.Context, id string) (*entity.CashSession, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.CashSession, error)
	// GetOpenByUser sesión abierta del usuario (nil si no hay).
	GetOpenByUser(ctx context.Context, userID string) (*entity.CashSession, error)
	Update(ctx context.Context, s *entity.CashSession) error
	ListByCompany(ctx context.Context, companyID, storeID, status string, limit, offset int) ([]*entity.CashSession, error)
}
