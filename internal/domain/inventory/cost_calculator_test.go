package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-api/internal/domain/inventory"
)

func TestWeightedAverageCost(t *testing.T) {
	d := decimal.RequireFromString
	cases := []struct {
		name                       string
		stock, cost, inQty, inCost string
		want                       string
	}{
		{"primera entrada", "0", "0", "10", "1500", "1500"},
		{"promedio ponderado", "10", "1000", "10", "2000", "1500"},
		{"stock negativo usa costo de entrada", "-2", "900", "5", "1200", "1200"},
		{"entrada sin cantidad", "0", "0", "0", "1200", "0"},
		{"redondeo a 4 decimales", "3", "1000", "1", "2000", "1250"},
		{"fracción periódica", "2", "1000", "1", "2000", "1333.3333"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.WeightedAverageCost(d(tc.stock), d(tc.cost), d(tc.inQty), d(tc.inCost))
			assert.True(t, d(tc.want).Equal(got), "esperado %s, obtenido %s", tc.want, got)
		})
	}
}
