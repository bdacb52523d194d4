package pos

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/realtime"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/pricing"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// Void anula una venta completada del día: devuelve el stock (RETURN) al costo
// con que salió y revierte los puntos del cliente. El uso de la promoción no se restaura.
func (uc *SaleUseCase) Void(ctx context.Context, actor dto.Actor, id, reason string) (*dto.SaleResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	settings, err := uc.Settings.Effective(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	var result *entity.Sale
	err = uc.TxRunner.Run(ctx, func(r repository.TxRepos) error {
		sale, err := owned(ctx, r.Sales.GetByIDForUpdate, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if !sale.CanTransitionTo(entity.SaleStatusVoided) {
			return domain.ErrInvalidTransition
		}
		if sale.CompletedAt == nil || !sameDay(*sale.CompletedAt, now) {
			return domain.ErrConflict
		}
		for _, it := range sale.Items {
			err := inventory.StockIn(ctx, r, inventory.StockChange{
				ProductID:     it.ProductID,
				StoreID:       sale.StoreID,
				Type:          entity.MovementTypeRETURN,
				Quantity:      it.Quantity,
				UnitCost:      it.UnitCost,
				TransactionID: sale.ID,
				UserID:        actor.UserID,
				At:            now,
			}, true)
			if err != nil {
				return err
			}
		}
		if sale.CustomerID != "" {
			cust, err := r.Customers.GetByIDForUpdate(ctx, sale.CustomerID)
			if err != nil {
				return err
			}
			if cust != nil {
				// Si el cliente ya gastó los puntos ganados, el saldo queda en cero.
				delta := sale.PointsRedeemed - sale.PointsEarned
				if cust.LoyaltyPoints+delta < 0 {
					delta = -cust.LoyaltyPoints
				}
				spent := sale.Total.Sub(pricing.PointsValue(sale.PointsRedeemed, settings.PointValue))
				if err := r.Customers.AddLoyalty(ctx, cust.ID, delta, spent.Neg()); err != nil {
					return err
				}
			}
		}
		sale.Status = entity.SaleStatusVoided
		sale.VoidReason = reason
		sale.UpdatedAt = now
		result = sale
		return r.Sales.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	uc.Log.Info().Str("sale_id", result.ID).Str("by", actor.UserID).Str("reason", reason).Msg("pos: venta anulada")
	uc.publishSale(ctx, result, realtime.EventUpdated, true)
	return toSaleResponse(result, ""), nil
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
