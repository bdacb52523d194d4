package pos

import (
	"context"
	"strings"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/realtime"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// Hold guarda el carrito como canasta temporal pendiente de aprobación.
// No reserva stock ni recibe pagos; los precios quedan congelados.
func (uc *SaleUseCase) Hold(ctx context.Context, actor dto.Actor, in dto.HoldRequest) (*dto.SaleResponse, error) {
	c, err := uc.buildCart(ctx, actor, in.Cart)
	if err != nil {
		return nil, err
	}
	sale := uc.newSale(actor, c, entity.SaleStatusPendingApproval)
	sale.Notes = strings.TrimSpace(in.Note)
	if err := uc.Sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	uc.publishSale(ctx, sale, realtime.EventCreated, false)
	return toSaleResponse(sale, ""), nil
}

// Approve autoriza una canasta pendiente (requiere baskets.approve en la ruta).
func (uc *SaleUseCase) Approve(ctx context.Context, actor dto.Actor, id string) (*dto.SaleResponse, error) {
	return uc.review(ctx, actor, id, entity.SaleStatusApproved, "")
}

// Reject rechaza una canasta pendiente; el motivo es obligatorio.
func (uc *SaleUseCase) Reject(ctx context.Context, actor dto.Actor, id, reason string) (*dto.SaleResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.review(ctx, actor, id, entity.SaleStatusRejected, reason)
}

func (uc *SaleUseCase) review(ctx context.Context, actor dto.Actor, id, next, reason string) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.TxRunner.Run(ctx, func(r repository.TxRepos) error {
		s, err := owned(ctx, r.Sales.GetByIDForUpdate, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if !s.CanTransitionTo(next) {
			return domain.ErrInvalidTransition
		}
		s.Status = next
		s.ApprovedBy = actor.UserID
		s.VoidReason = reason
		s.UpdatedAt = uc.now()
		sale = s
		return r.Sales.Update(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	uc.Log.Info().Str("sale_id", sale.ID).Str("status", next).Str("by", actor.UserID).Msg("pos: canasta revisada")
	uc.publishSale(ctx, sale, realtime.EventUpdated, false)
	return toSaleResponse(sale, ""), nil
}

// CheckoutBasket cobra una canasta aprobada con los precios y descuentos guardados.
// El cajero que cobra queda como responsable de la venta. Los puntos guardados en la
// canasta se vuelven a validar contra el saldo del cliente al cobrar.
func (uc *SaleUseCase) CheckoutBasket(ctx context.Context, actor dto.Actor, id string, in dto.PayBasketRequest) (*dto.SaleResponse, error) {
	sale, err := owned(ctx, uc.Sales.GetByID, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if sale.Status != entity.SaleStatusApproved {
		return nil, domain.ErrInvalidTransition
	}
	settings, err := uc.Settings.Effective(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	sale.CashierID = actor.UserID
	return uc.complete(ctx, actor, sale, settings, in.Payments, true)
}

// ListPending canastas pendientes de aprobación, opcionalmente por tienda.
func (uc *SaleUseCase) ListPending(ctx context.Context, companyID, storeID string) ([]dto.SaleResponse, error) {
	list, err := uc.Sales.List(ctx, companyID, repository.SaleFilter{
		StoreID: storeID,
		Status:  entity.SaleStatusPendingApproval,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSaleResponse(s, ""))
	}
	return out, nil
}
