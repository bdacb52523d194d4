package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas (TransactionManager).
type SaleFilter struct {
	StoreID   string
	Status    string
	CashierID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// SaleRepository define el puerto de persistencia para ventas con sus líneas y pagos.
type SaleRepository interface {
	// Create persiste cabecera, líneas y pagos.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetByIDForUpdate bloquea la venta dentro de una transacción antes de cambiar su estado.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// Update actualiza la cabecera y reemplaza pagos (las líneas son inmutables salvo en canastas).
	Update(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, companyID string, f SaleFilter) ([]*entity.Sale, error)
	// ListBySession devuelve las ventas ligadas a una sesión de caja.
	ListBySession(ctx context.Context, sessionID string) ([]*entity.Sale, error)
}
