// Package inventory reglas de dominio del valor del inventario.
package inventory

import "github.com/shopspring/decimal"

// CostPrecision decimales con que se guarda el costo promedio.
const CostPrecision = 4

// WeightedAverageCost costo unitario después de una entrada:
//
//	(existencias × costo actual + cantidad recibida × costo recibido) / (existencias + cantidad recibida)
//
// Si las existencias previas no son positivas, el costo de la entrada reemplaza
// al anterior; una entrada sin cantidad deja el costo en cero.
func WeightedAverageCost(onHand, currentCost, received, receivedCost decimal.Decimal) decimal.Decimal {
	if !received.IsPositive() && !onHand.IsPositive() {
		return decimal.Zero
	}
	if !onHand.IsPositive() {
		return receivedCost
	}
	total := onHand.Add(received)
	if !total.IsPositive() {
		return decimal.Zero
	}
	value := onHand.Mul(currentCost).Add(received.Mul(receivedCost))
	return value.Div(total).Round(CostPrecision)
}
