// Package pricing calcula los totales del carrito del POS: descuentos de línea,
// promoción prorrateada, IVA por línea y liquidación de pagos divididos.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Line línea del carrito antes de calcular montos.
type Line struct {
	ProductID   string
	SKU         string
	Name        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
	DiscountPct decimal.Decimal // 0-100
	TaxRate     decimal.Decimal // porcentaje
}

// PricedLine línea con montos calculados.
type PricedLine struct {
	Line
	Subtotal      decimal.Decimal // cantidad * precio
	LineDiscount  decimal.Decimal
	PromoDiscount decimal.Decimal // parte de la promoción asignada a esta línea
	TaxAmount     decimal.Decimal
	Total         decimal.Decimal
}

// Discount total de descuentos de la línea.
func (p PricedLine) Discount() decimal.Decimal {
	return p.LineDiscount.Add(p.PromoDiscount)
}

// Result totales del carrito.
type Result struct {
	Lines         []PricedLine
	Subtotal      decimal.Decimal
	PromoDiscount decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	Total         decimal.Decimal
}

// Price calcula los totales. promoDiscount es el monto de la promoción ya evaluada;
// se limita al subtotal neto y se prorratea entre líneas antes de aplicar IVA.
func Price(lines []Line, promoDiscount decimal.Decimal) (Result, error) {
	if len(lines) == 0 || promoDiscount.IsNegative() {
		return Result{}, domain.ErrInvalidInput
	}
	priced := make([]PricedLine, len(lines))
	netSum := decimal.Zero
	for i, l := range lines {
		if !l.Quantity.IsPositive() || l.UnitPrice.IsNegative() || l.TaxRate.IsNegative() ||
			l.DiscountPct.IsNegative() || l.DiscountPct.GreaterThan(hundred) {
			return Result{}, domain.ErrInvalidInput
		}
		sub := l.Quantity.Mul(l.UnitPrice).Round(2)
		disc := sub.Mul(l.DiscountPct).Div(hundred).Round(2)
		priced[i] = PricedLine{Line: l, Subtotal: sub, LineDiscount: disc}
		netSum = netSum.Add(sub.Sub(disc))
	}

	promo := decimal.Min(promoDiscount, netSum).Round(2)
	if promo.IsPositive() {
		assigned := decimal.Zero
		for i := range priced {
			net := priced[i].Subtotal.Sub(priced[i].LineDiscount)
			var share decimal.Decimal
			if i == len(priced)-1 {
				share = promo.Sub(assigned)
			} else {
				share = promo.Mul(net).Div(netSum).Round(2)
			}
			share = decimal.Min(decimal.Max(share, decimal.Zero), net)
			priced[i].PromoDiscount = share
			assigned = assigned.Add(share)
		}
		promo = assigned
	}

	res := Result{Lines: priced, PromoDiscount: promo}
	for i := range priced {
		p := &priced[i]
		net := p.Subtotal.Sub(p.Discount())
		p.TaxAmount = net.Mul(p.TaxRate).Div(hundred).Round(2)
		p.Total = net.Add(p.TaxAmount)
		res.Subtotal = res.Subtotal.Add(p.Subtotal)
		res.DiscountTotal = res.DiscountTotal.Add(p.Discount())
		res.TaxTotal = res.TaxTotal.Add(p.TaxAmount)
		res.Total = res.Total.Add(p.Total)
	}
	return res, nil
}

// EvaluatePromotion devuelve el descuento que otorga la promoción sobre el subtotal neto.
func EvaluatePromotion(p *entity.Promotion, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if p == nil {
		return decimal.Zero, nil
	}
	if !p.IsActive || now.Before(p.StartsAt) || (p.EndsAt != nil && now.After(*p.EndsAt)) {
		return decimal.Zero, domain.ErrPromotionInvalid
	}
	if p.UsageLimit > 0 && p.UsedCount >= p.UsageLimit {
		return decimal.Zero, domain.ErrPromotionInvalid
	}
	if subtotal.LessThan(p.MinPurchase) {
		return decimal.Zero, domain.ErrPromotionInvalid
	}
	var d decimal.Decimal
	switch p.Type {
	case entity.PromotionPercentage:
		d = subtotal.Mul(p.Value).Div(hundred).Round(2)
	case entity.PromotionFixed:
		d = p.Value
	default:
		return decimal.Zero, domain.ErrPromotionInvalid
	}
	return decimal.Min(d, subtotal), nil
}

// ValidatePromotion revisa los campos de una promoción antes de guardarla.
func ValidatePromotion(p *entity.Promotion) error {
	if p.Code == "" || p.Name == "" || p.MinPurchase.IsNegative() || p.UsageLimit < 0 {
		return domain.ErrInvalidInput
	}
	switch p.Type {
	case entity.PromotionPercentage:
		if !p.Value.IsPositive() || p.Value.GreaterThan(hundred) {
			return domain.ErrInvalidInput
		}
	case entity.PromotionFixed:
		if !p.Value.IsPositive() {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	if p.EndsAt != nil && p.EndsAt.Before(p.StartsAt) {
		return domain.ErrInvalidInput
	}
	return nil
}
