package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// SettingsRepository define el puerto de persistencia para la configuración de la empresa.
type SettingsRepository interface {
	// Get devuelve nil si la empresa nunca guardó configuración.
	Get(ctx context.Context, companyID string) (*entity.Settings, error)
	Upsert(ctx context.Context, s *entity.Settings) error
	// ListAutoReorder empresas con reorden automático activo.
	ListAutoReorder(ctx context.Context) ([]string, error)
}
