package pos

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/realtime"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/pricing"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/hardware"
)

func newSaleID() string { return uuid.New().String() }

// Checkout registra una venta directa: valida el carrito, liquida el pago dividido,
// autoriza las tarjetas y en una sola transacción descuenta stock, aplica la promoción
// y mueve los puntos del cliente.
//
// Un descuento por encima del máximo del cajero devuelve ErrApprovalRequired: la
// venta debe pasar por una canasta temporal aprobada.
func (uc *SaleUseCase) Checkout(ctx context.Context, actor dto.Actor, in dto.CheckoutRequest) (*dto.SaleResponse, error) {
	c, err := uc.buildCart(ctx, actor, in.Cart)
	if err != nil {
		return nil, err
	}
	if c.needsApproval {
		return nil, domain.ErrApprovalRequired
	}
	sale := uc.newSale(actor, c, entity.SaleStatusCompleted)
	return uc.complete(ctx, actor, sale, c.settings, in.Payments, false)
}

// settlement resultado de validar los pagos antes de la transacción.
type settlement struct {
	payments    []entity.SalePayment
	change      decimal.Decimal
	hasCash     bool
	pointsValue decimal.Decimal
}

// settle valida los medios de pago contra el total de la venta. Los puntos redimidos
// entran como un pago más de método points.
func (uc *SaleUseCase) settle(sale *entity.Sale, settings entity.Settings, in []dto.PaymentRequest) (*settlement, error) {
	st := &settlement{}
	tenders := make([]pricing.Tender, 0, len(in)+1)
	for _, p := range in {
		if p.Method != entity.PaymentCash && p.Method != entity.PaymentCard {
			return nil, domain.ErrInvalidInput
		}
		if p.Method == entity.PaymentCash {
			st.hasCash = true
		}
		tenders = append(tenders, pricing.Tender{Method: p.Method, Amount: p.Amount})
		st.payments = append(st.payments, entity.SalePayment{Method: p.Method, Amount: p.Amount})
	}
	if sale.PointsRedeemed > 0 {
		st.pointsValue = pricing.PointsValue(sale.PointsRedeemed, settings.PointValue)
		tenders = append(tenders, pricing.Tender{Method: entity.PaymentPoints, Amount: st.pointsValue})
		st.payments = append(st.payments, entity.SalePayment{Method: entity.PaymentPoints, Amount: st.pointsValue})
	}
	change, err := pricing.Settle(sale.Total, tenders)
	if err != nil {
		return nil, err
	}
	st.change = change
	return st, nil
}

// complete ejecuta el cobro de una venta nueva (fromBasket=false) o de una canasta aprobada.
func (uc *SaleUseCase) complete(ctx context.Context, actor dto.Actor, sale *entity.Sale, settings entity.Settings, payments []dto.PaymentRequest, fromBasket bool) (*dto.SaleResponse, error) {
	st, err := uc.settle(sale, settings, payments)
	if err != nil {
		return nil, err
	}

	if st.hasCash {
		session, err := uc.CashSessions.GetOpenByUser(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if session == nil || session.StoreID != sale.StoreID {
			return nil, domain.ErrNoOpenSession
		}
		sale.CashSessionID = session.ID
	}

	// Las tarjetas se autorizan antes de abrir la transacción; un rechazo aborta la
	// venta y anula las autorizaciones ya obtenidas.
	var auths []hardware.CardAuthorization
	for i := range st.payments {
		p := &st.payments[i]
		if p.Method != entity.PaymentCard {
			continue
		}
		if uc.Devices == nil {
			return nil, domain.ErrDeviceUnavailable
		}
		auth, err := uc.Devices.AuthorizeCard(ctx, p.Amount)
		if err != nil {
			uc.voidAuthorizations(ctx, sale.ID, auths)
			return nil, err
		}
		auths = append(auths, auth)
		p.Reference = auth.AuthCode
		p.CardLast4 = auth.Last4
	}

	now := uc.now()
	sale.Payments = st.payments
	sale.ChangeDue = st.change
	paidWithMoney := sale.Total.Sub(st.pointsValue)
	if sale.CustomerID != "" {
		sale.PointsEarned = pricing.PointsEarned(paidWithMoney, settings.PointsPerUnit)
	}
	for i := range sale.Payments {
		sale.Payments[i].CreatedAt = now
	}

	err = uc.TxRunner.Run(ctx, func(r repository.TxRepos) error {
		if fromBasket {
			current, err := r.Sales.GetByIDForUpdate(ctx, sale.ID)
			if err != nil {
				return err
			}
			if current == nil {
				return domain.ErrNotFound
			}
			if !current.CanTransitionTo(entity.SaleStatusCompleted) {
				return domain.ErrInvalidTransition
			}
		}
		for i := range sale.Items {
			it := &sale.Items[i]
			cost, err := inventory.StockOut(ctx, r, inventory.StockChange{
				ProductID:     it.ProductID,
				StoreID:       sale.StoreID,
				Type:          entity.MovementTypeSALE,
				Quantity:      it.Quantity,
				TransactionID: sale.ID,
				UserID:        actor.UserID,
				At:            now,
			})
			if err != nil {
				return err
			}
			it.UnitCost = cost
		}
		if sale.PromotionID != "" {
			promo, err := r.Promotions.GetByID(ctx, sale.PromotionID)
			if err != nil {
				return err
			}
			if promo == nil || (promo.UsageLimit > 0 && promo.UsedCount >= promo.UsageLimit) {
				return domain.ErrPromotionInvalid
			}
			if err := r.Promotions.IncrementUsage(ctx, promo.ID); err != nil {
				return err
			}
		}
		if sale.CustomerID != "" {
			cust, err := r.Customers.GetByIDForUpdate(ctx, sale.CustomerID)
			if err != nil {
				return err
			}
			if cust == nil {
				return domain.ErrNotFound
			}
			if cust.LoyaltyPoints < sale.PointsRedeemed {
				return domain.ErrInsufficientPoints
			}
			if err := r.Customers.AddLoyalty(ctx, cust.ID, sale.PointsEarned-sale.PointsRedeemed, paidWithMoney); err != nil {
				return err
			}
		}
		sale.Status = entity.SaleStatusCompleted
		sale.CompletedAt = &now
		sale.UpdatedAt = now
		if fromBasket {
			return r.Sales.Update(ctx, sale)
		}
		return r.Sales.Create(ctx, sale)
	})
	if err != nil {
		uc.voidAuthorizations(ctx, sale.ID, auths)
		return nil, err
	}

	uc.Log.Info().Str("sale_id", sale.ID).Str("number", sale.Number).Str("total", sale.Total.String()).Msg("pos: venta registrada")
	path := uc.afterCheckout(ctx, sale, st.hasCash)
	eventType := realtime.EventCreated
	if fromBasket {
		eventType = realtime.EventUpdated
		uc.Publisher.Notify(ctx, sale.CompanyID, realtime.TopicBaskets, realtime.EventDeleted, sale.ID, nil)
	}
	uc.publishSale(ctx, sale, eventType, true)
	return toSaleResponse(sale, path), nil
}

// voidAuthorizations anula en el datáfono las autorizaciones de una venta que no
// se confirmó. Una anulación fallida queda en el log con el código para reversarla a mano.
func (uc *SaleUseCase) voidAuthorizations(ctx context.Context, saleID string, auths []hardware.CardAuthorization) {
	for _, auth := range auths {
		if err := uc.Devices.VoidCard(context.WithoutCancel(ctx), auth); err != nil {
			uc.Log.Error().Err(err).Str("sale_id", saleID).Str("auth_code", auth.AuthCode).
				Str("amount", auth.Amount.String()).Msg("pos: no se pudo anular la autorización de tarjeta")
		}
	}
}

// afterCheckout abre el cajón e imprime el recibo. Los fallos de hardware se
// registran en el log; la venta ya quedó confirmada.
func (uc *SaleUseCase) afterCheckout(ctx context.Context, sale *entity.Sale, hasCash bool) string {
	if uc.Devices == nil {
		return ""
	}
	if hasCash {
		if err := uc.Devices.OpenCashDrawer(ctx); err != nil {
			uc.Log.Warn().Err(err).Str("sale_id", sale.ID).Msg("pos: no se pudo abrir el cajón monedero")
		}
	}
	receipt, err := uc.buildReceipt(ctx, sale)
	if err != nil {
		uc.Log.Warn().Err(err).Str("sale_id", sale.ID).Msg("pos: no se pudo armar el recibo")
		return ""
	}
	path, err := uc.Devices.PrintReceipt(ctx, receipt)
	if err != nil {
		uc.Log.Warn().Err(err).Str("sale_id", sale.ID).Msg("pos: impresión de recibo falló")
		return ""
	}
	return path
}
