package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetByIDForUpdate bloquea la fila del cliente (saldo de puntos) dentro de una transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	ListByCompany(ctx context.Context, companyID, search string, limit, offset int) ([]*entity.Customer, error)
	// AddLoyalty suma (o resta) puntos y monto acumulado de compras.
	AddLoyalty(ctx context.Context, id string, points int64, spent decimal.Decimal) error
}
