package inventory

import (
	"context"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// SettingsReader configuración efectiva de la empresa (defaults si nunca se guardó).
type SettingsReader interface {
	Effective(ctx context.Context, companyID string) (entity.Settings, error)
}

const movementHistoryLimit = 200

// StockQueryUseCase consultas de niveles de stock y kardex.
type StockQueryUseCase struct {
	stockRepo    repository.StockRepository
	movementRepo repository.InventoryMovementRepository
	productRepo  repository.ProductRepository
	settings     SettingsReader
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(
	stockRepo repository.StockRepository,
	movementRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	settings SettingsReader,
) *StockQueryUseCase {
	return &StockQueryUseCase{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
		settings:     settings,
	}
}

// StockLevels niveles por producto en una tienda (o agregados de todas si StoreID es vacío).
func (uc *StockQueryUseCase) StockLevels(ctx context.Context, companyID string, in dto.StockLevelRequest) (*dto.StockLevelListResponse, error) {
	in.DefaultPage()
	settings, err := uc.settings.Effective(ctx, companyID)
	if err != nil {
		return nil, err
	}
	levels, err := uc.stockRepo.List(ctx, companyID, repository.StockFilter{
		StoreID:      in.StoreID,
		LowOnly:      in.LowOnly,
		LowThreshold: settings.LowStockThreshold,
		Limit:        in.Limit,
		Offset:       in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		items = append(items, dto.StockLevelResponse{
			ProductID:    l.ProductID,
			SKU:          l.SKU,
			ProductName:  l.ProductName,
			StoreID:      l.StoreID,
			Quantity:     l.Quantity,
			ReorderPoint: l.ReorderPoint,
			Low:          entity.IsLowStock(l.Quantity, l.ReorderPoint, settings.LowStockThreshold),
		})
	}
	return &dto.StockLevelListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Movements kardex de un producto, del más reciente al más antiguo.
func (uc *StockQueryUseCase) Movements(ctx context.Context, companyID, productID string) ([]dto.MovementResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	movs, err := uc.movementRepo.ListByProduct(ctx, productID, movementHistoryLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ProductID:     m.ProductID,
			StoreID:       m.StoreID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			UnitCost:      m.UnitCost,
			TotalCost:     m.TotalCost,
			Date:          m.Date,
			CreatedBy:     m.CreatedBy,
		})
	}
	return out, nil
}
