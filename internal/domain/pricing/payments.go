package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// Tender pago ofrecido por el cliente antes de liquidar.
type Tender struct {
	Method string
	Amount decimal.Decimal
}

// Settle valida un pago dividido contra el total y devuelve las vueltas.
// Solo el efectivo puede exceder el total; tarjeta y puntos no generan vueltas.
func Settle(total decimal.Decimal, tenders []Tender) (change decimal.Decimal, err error) {
	if len(tenders) == 0 {
		return decimal.Zero, domain.ErrPaymentInsufficient
	}
	paid, nonCash := decimal.Zero, decimal.Zero
	for _, t := range tenders {
		if !t.Amount.IsPositive() {
			return decimal.Zero, domain.ErrInvalidInput
		}
		switch t.Method {
		case entity.PaymentCash:
		case entity.PaymentCard, entity.PaymentPoints:
			nonCash = nonCash.Add(t.Amount)
		default:
			return decimal.Zero, domain.ErrInvalidInput
		}
		paid = paid.Add(t.Amount)
	}
	if nonCash.GreaterThan(total) {
		return decimal.Zero, domain.ErrOverpayment
	}
	if paid.LessThan(total) {
		return decimal.Zero, domain.ErrPaymentInsufficient
	}
	return paid.Sub(total), nil
}

// PointsEarned puntos ECP ganados: un punto por cada pointsPerUnit pagado (truncado).
func PointsEarned(amount, pointsPerUnit decimal.Decimal) int64 {
	if !pointsPerUnit.IsPositive() || !amount.IsPositive() {
		return 0
	}
	return amount.Div(pointsPerUnit).Floor().IntPart()
}

// PointsValue valor monetario de una cantidad de puntos.
func PointsValue(points int64, pointValue decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(points).Mul(pointValue)
}
