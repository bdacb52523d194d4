package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	idealStockFactor = decimal.NewFromFloat(1.5)
	hundred          = decimal.NewFromInt(100)
)

// ReplenishmentUseCase genera la lista de reposición para una tienda.
// Combina datos de stock con historial de ventas para priorizar los SKUs críticos.
type ReplenishmentUseCase struct {
	stockRepo     repository.StockRepository
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	stockRepo repository.StockRepository,
	analyticsRepo repository.AnalyticsRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		stockRepo:     stockRepo,
		analyticsRepo: analyticsRepo,
		now:           time.Now,
	}
}

// SuggestedQty cantidad a pedir: ReorderQty si está definida, si no hasta 1.5x el punto de reorden.
func SuggestedQty(item repository.ReplenishmentItem) (ideal, qty decimal.Decimal) {
	if item.ReorderQty.IsPositive() {
		return item.CurrentStock.Add(item.ReorderQty), item.ReorderQty
	}
	ideal = item.ReorderPoint.Mul(idealStockFactor)
	qty = ideal.Sub(item.CurrentStock)
	if qty.IsNegative() {
		qty = decimal.Zero
	}
	return ideal, qty
}

// GenerateReplenishmentList devuelve los productos bajo punto de reorden con la cantidad
// sugerida de pedido y un ranking de prioridad basado en margen histórico y volumen de ventas.
// storeID puede ser vacío para considerar el stock global de la empresa.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, companyID, storeID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	rawItems, err := uc.stockRepo.BelowReorderPoint(ctx, companyID, storeID)
	if err != nil {
		return nil, err
	}
	if len(rawItems) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// Historial de ventas por producto de los últimos 90 días.
	end := uc.now()
	start := end.AddDate(0, 0, -90)
	sales, err := uc.analyticsRepo.GetProductSales(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	salesByID := make(map[string]repository.ProductSalesResult, len(sales))
	for _, s := range sales {
		salesByID[s.ProductID] = s
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rawItems))
	for _, item := range rawItems {
		idealStock, suggestedQty := SuggestedQty(item)

		var marginPct, unitsSold decimal.Decimal
		if s, ok := salesByID[item.ProductID]; ok && s.Revenue.IsPositive() {
			unitsSold = s.UnitsSold
			marginPct = s.Revenue.Sub(s.Cost).Div(s.Revenue).Mul(hundred).Round(2)
		} else if item.Price.IsPositive() {
			// Sin historial de ventas: margen estimado por precio y costo.
			marginPct = item.Price.Sub(item.UnitCost).Div(item.Price).Mul(hundred).Round(2)
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:           item.ProductID,
			SKU:                 item.SKU,
			ProductName:         item.ProductName,
			SupplierID:          item.SupplierID,
			CurrentStock:        item.CurrentStock,
			ReorderPoint:        item.ReorderPoint,
			IdealStock:          idealStock,
			SuggestedOrderQty:   suggestedQty,
			UnitCost:            item.UnitCost,
			EstimatedOrderCost:  suggestedQty.Mul(item.UnitCost),
			GrossMarginPct:      marginPct,
			UnitsSoldLast90Days: unitsSold,
		})
	}

	// Mayor margen, luego mayor volumen de ventas, finalmente mayor déficit.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if !a.UnitsSoldLast90Days.Equal(b.UnitsSoldLast90Days) {
			return a.UnitsSoldLast90Days.GreaterThan(b.UnitsSoldLast90Days)
		}
		return a.ReorderPoint.Sub(a.CurrentStock).GreaterThan(b.ReorderPoint.Sub(b.CurrentStock))
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
