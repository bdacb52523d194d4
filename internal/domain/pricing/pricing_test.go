package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPrice_SinDescuentos(t *testing.T) {
	res, err := pricing.Price([]pricing.Line{
		{ProductID: "a", Quantity: d("2"), UnitPrice: d("10000"), TaxRate: d("19")},
		{ProductID: "b", Quantity: d("1"), UnitPrice: d("5000"), TaxRate: d("0")},
	}, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, d("25000").Equal(res.Subtotal))
	assert.True(t, d("3800").Equal(res.TaxTotal))
	assert.True(t, d("28800").Equal(res.Total))
	assert.True(t, res.DiscountTotal.IsZero())
}

func TestPrice_DescuentoDeLineaYPromocion(t *testing.T) {
	res, err := pricing.Price([]pricing.Line{
		{ProductID: "a", Quantity: d("1"), UnitPrice: d("10000"), DiscountPct: d("10"), TaxRate: d("19")},
		{ProductID: "b", Quantity: d("1"), UnitPrice: d("9000"), TaxRate: d("19")},
	}, d("1800"))
	require.NoError(t, err)

	// neto = 9000 + 9000; promo 1800 se reparte 900/900
	assert.True(t, d("900").Equal(res.Lines[0].PromoDiscount))
	assert.True(t, d("900").Equal(res.Lines[1].PromoDiscount))
	assert.True(t, d("2800").Equal(res.DiscountTotal))
	assert.True(t, d("3078").Equal(res.TaxTotal)) // (8100+8100)*0.19
	assert.True(t, res.Subtotal.Sub(res.DiscountTotal).Add(res.TaxTotal).Equal(res.Total))
}

func TestPrice_PromocionMayorQueSubtotalSeLimita(t *testing.T) {
	res, err := pricing.Price([]pricing.Line{
		{ProductID: "a", Quantity: d("1"), UnitPrice: d("1000"), TaxRate: d("19")},
	}, d("5000"))
	require.NoError(t, err)
	assert.True(t, d("1000").Equal(res.PromoDiscount))
	assert.True(t, res.Total.IsZero())
}

func TestPrice_EntradasInvalidas(t *testing.T) {
	cases := map[string][]pricing.Line{
		"vacío":           nil,
		"cantidad cero":   {{Quantity: decimal.Zero, UnitPrice: d("1")}},
		"precio negativo": {{Quantity: d("1"), UnitPrice: d("-1")}},
		"descuento > 100": {{Quantity: d("1"), UnitPrice: d("1"), DiscountPct: d("101")}},
	}
	for name, lines := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := pricing.Price(lines, decimal.Zero)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestEvaluatePromotion(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ended := now.Add(-time.Hour)
	base := entity.Promotion{
		Code: "MARZO", Type: entity.PromotionPercentage, Value: d("10"),
		MinPurchase: d("20000"), StartsAt: now.AddDate(0, 0, -1), IsActive: true,
	}

	got, err := pricing.EvaluatePromotion(&base, d("50000"), now)
	require.NoError(t, err)
	assert.True(t, d("5000").Equal(got))

	_, err = pricing.EvaluatePromotion(&base, d("10000"), now)
	assert.ErrorIs(t, err, domain.ErrPromotionInvalid, "no alcanza la compra mínima")

	expired := base
	expired.EndsAt = &ended
	_, err = pricing.EvaluatePromotion(&expired, d("50000"), now)
	assert.ErrorIs(t, err, domain.ErrPromotionInvalid)

	exhausted := base
	exhausted.UsageLimit, exhausted.UsedCount = 3, 3
	_, err = pricing.EvaluatePromotion(&exhausted, d("50000"), now)
	assert.ErrorIs(t, err, domain.ErrPromotionInvalid)

	fixed := base
	fixed.Type, fixed.Value, fixed.MinPurchase = entity.PromotionFixed, d("80000"), decimal.Zero
	got, err = pricing.EvaluatePromotion(&fixed, d("50000"), now)
	require.NoError(t, err)
	assert.True(t, d("50000").Equal(got), "el descuento fijo no supera el subtotal")

	got, err = pricing.EvaluatePromotion(nil, d("50000"), now)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestSettle(t *testing.T) {
	total := d("28800")

	change, err := pricing.Settle(total, []pricing.Tender{{Method: entity.PaymentCash, Amount: d("30000")}})
	require.NoError(t, err)
	assert.True(t, d("1200").Equal(change))

	change, err = pricing.Settle(total, []pricing.Tender{
		{Method: entity.PaymentCard, Amount: d("20000")},
		{Method: entity.PaymentCash, Amount: d("10000")},
	})
	require.NoError(t, err)
	assert.True(t, d("1200").Equal(change))

	_, err = pricing.Settle(total, []pricing.Tender{{Method: entity.PaymentCard, Amount: d("30000")}})
	assert.ErrorIs(t, err, domain.ErrOverpayment)

	_, err = pricing.Settle(total, []pricing.Tender{{Method: entity.PaymentCash, Amount: d("1000")}})
	assert.ErrorIs(t, err, domain.ErrPaymentInsufficient)

	_, err = pricing.Settle(total, []pricing.Tender{{Method: "cheque", Amount: d("30000")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = pricing.Settle(total, nil)
	assert.ErrorIs(t, err, domain.ErrPaymentInsufficient)
}

func TestPoints(t *testing.T) {
	assert.Equal(t, int64(28), pricing.PointsEarned(d("28800"), d("1000")))
	assert.Equal(t, int64(0), pricing.PointsEarned(d("999"), d("1000")))
	assert.Equal(t, int64(0), pricing.PointsEarned(d("5000"), decimal.Zero))
	assert.True(t, d("500").Equal(pricing.PointsValue(50, d("10"))))
}
