package pricing_test

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/pricing"
)

// Para cualquier carrito válido: total = subtotal - descuento + IVA, descuento <= subtotal
// y ningún monto es negativo.
func TestPriceInvariantes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	rates := []int64{0, 5, 19}

	properties.Property("totales consistentes", prop.ForAll(
		func(qtys []int64, prices []int64, discounts []int64, rateIdx int, promo int64) bool {
			n := len(qtys)
			if len(prices) < n {
				n = len(prices)
			}
			if len(discounts) < n {
				n = len(discounts)
			}
			if n == 0 {
				return true
			}
			lines := make([]pricing.Line, n)
			for i := 0; i < n; i++ {
				lines[i] = pricing.Line{
					Quantity:    decimal.NewFromInt(qtys[i]),
					UnitPrice:   decimal.NewFromInt(prices[i]),
					DiscountPct: decimal.NewFromInt(discounts[i]),
					TaxRate:     decimal.NewFromInt(rates[rateIdx]),
				}
			}
			res, err := pricing.Price(lines, decimal.NewFromInt(promo))
			if err != nil {
				return false
			}
			if !res.Subtotal.Sub(res.DiscountTotal).Add(res.TaxTotal).Equal(res.Total) {
				return false
			}
			if res.DiscountTotal.GreaterThan(res.Subtotal) || res.Total.IsNegative() {
				return false
			}
			for _, l := range res.Lines {
				if l.Total.IsNegative() || l.PromoDiscount.IsNegative() || l.Discount().GreaterThan(l.Subtotal) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(1, 50)),
		gen.SliceOf(gen.Int64Range(0, 500000)),
		gen.SliceOf(gen.Int64Range(0, 100)),
		gen.IntRange(0, len(rates)-1),
		gen.Int64Range(0, 2000000),
	))

	properties.Property("liquidación con tarjeta y efectivo", prop.ForAll(
		func(total, card, cash int64) bool {
			change, err := pricing.Settle(decimal.NewFromInt(total), []pricing.Tender{
				{Method: "card", Amount: decimal.NewFromInt(card)},
				{Method: "cash", Amount: decimal.NewFromInt(cash)},
			})
			switch {
			case card > total:
				return errors.Is(err, domain.ErrOverpayment)
			case card+cash < total:
				return errors.Is(err, domain.ErrPaymentInsufficient)
			}
			return err == nil &&
				change.Equal(decimal.NewFromInt(card+cash-total)) &&
				change.LessThanOrEqual(decimal.NewFromInt(cash))
		},
		gen.Int64Range(1, 1000000),
		gen.Int64Range(1, 1000000),
		gen.Int64Range(1, 1000000),
	))

	properties.TestingRun(t)
}
