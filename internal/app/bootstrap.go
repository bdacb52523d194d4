package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/infrastructure/hardware"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-api/pkg/config"
)

// OpenBackend abre el almacenamiento configurado. El cierre devuelto libera el pool.
func OpenBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Backend, func(), error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return FromMemory(memory.NewStore().Repositories()), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return Backend{}, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool, log)
		if err != nil {
			pool.Close()
			return Backend{}, nil, fmt.Errorf("migraciones: %w", err)
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}
	return FromPostgres(pool), pool.Close, nil
}

// NewHardware construye el gestor de periféricos con la configuración de la tienda.
func NewHardware(cfg config.HardwareConfig, renderer hardware.ReceiptRenderer, log zerolog.Logger) *hardware.Manager {
	return hardware.NewManager(hardware.Options{
		SpoolDir:    cfg.SpoolDir,
		Latency:     cfg.Latency,
		ScanGap:     cfg.ScanGap,
		DeclineOver: decimal.NewFromInt(cfg.CardDeclineOver),
		Renderer:    renderer,
		Log:         log,
	})
}
