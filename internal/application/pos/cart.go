package pos

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/permission"
	"github.com/jhoicas/pos-api/internal/domain/pricing"
)

// cart carrito validado y con precios calculados.
type cart struct {
	storeID        string
	customer       *entity.Customer
	promotion      *entity.Promotion
	priced         pricing.Result
	pointsToRedeem int64
	pointsValue    decimal.Decimal
	settings       entity.Settings
	needsApproval  bool // algún descuento supera el máximo del cajero
}

// amountDue total a pagar con dinero (total menos puntos redimidos).
func (c *cart) amountDue() decimal.Decimal {
	return decimal.Max(c.priced.Total.Sub(c.pointsValue), decimal.Zero)
}

// buildCart valida el carrito contra catálogo, cliente, promoción y puntos, y calcula los totales.
func (uc *SaleUseCase) buildCart(ctx context.Context, actor dto.Actor, in dto.CartRequest) (*cart, error) {
	storeID := in.StoreID
	if storeID == "" {
		storeID = actor.StoreID
	}
	if len(in.Lines) == 0 || in.PointsToRedeem < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkStore(ctx, actor.CompanyID, storeID); err != nil {
		return nil, err
	}
	settings, err := uc.Settings.Effective(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	canDiscount := permission.Has(actor.Role, permission.POSDiscount)

	c := &cart{storeID: storeID, settings: settings}
	lines := make([]pricing.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		p, err := uc.Products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || p.CompanyID != actor.CompanyID {
			return nil, domain.ErrNotFound
		}
		if !p.IsActive {
			return nil, domain.ErrConflict
		}
		price := p.Price
		if l.UnitPrice != nil {
			if !canDiscount {
				return nil, domain.ErrForbidden
			}
			price = *l.UnitPrice
		}
		if l.DiscountPct.GreaterThan(settings.MaxCashierDiscountPct) && !canDiscount {
			c.needsApproval = true
		}
		lines = append(lines, pricing.Line{
			ProductID:   p.ID,
			SKU:         p.SKU,
			Name:        p.Name,
			Quantity:    l.Quantity,
			UnitPrice:   price,
			UnitCost:    p.Cost,
			DiscountPct: l.DiscountPct,
			TaxRate:     p.TaxRate,
		})
	}

	if in.CustomerID != "" {
		cust, err := uc.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if cust == nil || cust.CompanyID != actor.CompanyID {
			return nil, domain.ErrNotFound
		}
		c.customer = cust
	}

	// Primero sin promoción para conocer el subtotal neto sobre el que se evalúa.
	base, err := pricing.Price(lines, decimal.Zero)
	if err != nil {
		return nil, err
	}
	promoDiscount := decimal.Zero
	if code := strings.ToUpper(strings.TrimSpace(in.PromotionCode)); code != "" {
		promo, err := uc.Promotions.GetByCode(ctx, actor.CompanyID, code)
		if err != nil {
			return nil, err
		}
		if promo == nil {
			return nil, domain.ErrPromotionInvalid
		}
		promoDiscount, err = pricing.EvaluatePromotion(promo, base.Subtotal.Sub(base.DiscountTotal), uc.now())
		if err != nil {
			return nil, err
		}
		c.promotion = promo
	}
	c.priced = base
	if promoDiscount.IsPositive() {
		if c.priced, err = pricing.Price(lines, promoDiscount); err != nil {
			return nil, err
		}
	}

	if in.PointsToRedeem > 0 {
		if c.customer == nil {
			return nil, domain.ErrInvalidInput
		}
		if c.customer.LoyaltyPoints < in.PointsToRedeem {
			return nil, domain.ErrInsufficientPoints
		}
		c.pointsToRedeem = in.PointsToRedeem
		c.pointsValue = pricing.PointsValue(in.PointsToRedeem, settings.PointValue)
	}
	return c, nil
}

// Quote calcula los totales del carrito sin registrar la venta.
func (uc *SaleUseCase) Quote(ctx context.Context, actor dto.Actor, in dto.CartRequest) (*dto.QuoteResponse, error) {
	c, err := uc.buildCart(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	out := &dto.QuoteResponse{
		Lines:          make([]dto.SaleLineResponse, 0, len(c.priced.Lines)),
		Subtotal:       c.priced.Subtotal,
		DiscountTotal:  c.priced.DiscountTotal,
		PromoDiscount:  c.priced.PromoDiscount,
		TaxTotal:       c.priced.TaxTotal,
		Total:          c.priced.Total,
		PointsValue:    c.pointsValue,
		AmountDue:      c.amountDue(),
		NeedsApproval:  c.needsApproval,
		PointsEarnable: pricing.PointsEarned(c.amountDue(), c.settings.PointsPerUnit),
	}
	for _, it := range saleItems(c.priced) {
		out.Lines = append(out.Lines, toLineResponse(it))
	}
	return out, nil
}

// newSale arma la venta (aún sin persistir) a partir del carrito.
func (uc *SaleUseCase) newSale(actor dto.Actor, c *cart, status string) *entity.Sale {
	now := uc.now()
	sale := &entity.Sale{
		ID:             newSaleID(),
		CompanyID:      actor.CompanyID,
		StoreID:        c.storeID,
		Number:         entity.DocumentNumber(entity.PrefixSale, now),
		CashierID:      actor.UserID,
		Status:         status,
		Items:          saleItems(c.priced),
		Subtotal:       c.priced.Subtotal,
		DiscountTotal:  c.priced.DiscountTotal,
		TaxTotal:       c.priced.TaxTotal,
		Total:          c.priced.Total,
		PointsRedeemed: c.pointsToRedeem,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if c.customer != nil {
		sale.CustomerID = c.customer.ID
	}
	if c.promotion != nil {
		sale.PromotionID = c.promotion.ID
		sale.PromotionCode = c.promotion.Code
	}
	return sale
}

func saleItems(res pricing.Result) []entity.SaleItem {
	items := make([]entity.SaleItem, 0, len(res.Lines))
	for _, l := range res.Lines {
		items = append(items, entity.SaleItem{
			ProductID:   l.ProductID,
			SKU:         l.SKU,
			Name:        l.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			UnitCost:    l.UnitCost,
			DiscountPct: l.DiscountPct,
			Discount:    l.Discount(),
			TaxRate:     l.TaxRate,
			TaxAmount:   l.TaxAmount,
			Subtotal:    l.Subtotal,
			Total:       l.Total,
		})
	}
	return items
}
