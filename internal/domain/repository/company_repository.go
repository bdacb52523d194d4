package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByNIT(ctx context.Context, nit string) (*entity.Company, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	// UpdateStatus cambia el estado de la empresa. ErrNotFound si no existe.
	UpdateStatus(ctx context.Context, id, status string) error

	// ActivateModule activa (o reactiva) un módulo SaaS para la empresa.
	ActivateModule(ctx context.Context, companyID, moduleName string, expiresAt *time.Time) error
	// HasActiveModule informa si el módulo está activo y sin vencer.
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
}
