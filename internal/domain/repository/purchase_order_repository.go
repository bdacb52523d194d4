package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	ListByCompany(ctx context.Context, companyID, status, supplierID string, limit, offset int) ([]*entity.PurchaseOrder, error)
	// OpenQuantity cantidad ya pedida (draft/sent) de un producto para una tienda.
	OpenQuantity(ctx context.Context, productID, storeID string) (decimal.Decimal, error)
	// CountOpenBySupplier órdenes abiertas del proveedor.
	CountOpenBySupplier(ctx context.Context, supplierID string) (int, error)
}
