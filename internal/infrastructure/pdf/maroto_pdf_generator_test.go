package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/hardware"
)

func TestRenderReceipt(t *testing.T) {
	g := NewMarotoPDFGenerator()
	r := hardware.Receipt{
		Number:       "V-20260301-00AB",
		CompanyName:  "Tiendas Demo",
		CompanyNIT:   "900123456",
		StoreName:    "Centro",
		Footer:       "¡Gracias por su compra!",
		CashierName:  "Carla Cajera",
		CurrencyCode: "COP",
		Locale:       "es-CO",
		Lines: []hardware.ReceiptLine{
			{Name: "Arroz 500g", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(2500), Total: decimal.NewFromInt(5950)},
		},
		Payments:     []hardware.ReceiptPayment{{Method: entity.PaymentCash, Amount: decimal.NewFromInt(10000)}},
		Subtotal:     decimal.NewFromInt(5000),
		Tax:          decimal.NewFromInt(950),
		Total:        decimal.NewFromInt(5950),
		Change:       decimal.NewFromInt(4050),
		PointsEarned: 5,
		IssuedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	doc, err := g.RenderReceipt(context.Background(), r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestGenerateInvoicePDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	inv := &entity.Invoice{
		Type:             entity.InvoicePayable,
		Number:           "FP-001",
		CounterpartyName: "Distribuidora Andina",
		IssueDate:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:          time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Lines: []entity.InvoiceLine{
			{Description: "Arroz 500g", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(1800), TaxRate: decimal.NewFromInt(19), Subtotal: decimal.NewFromInt(18000)},
		},
		Subtotal:   decimal.NewFromInt(18000),
		TaxTotal:   decimal.NewFromInt(3420),
		Total:      decimal.NewFromInt(21420),
		AmountPaid: decimal.NewFromInt(10000),
		Status:     entity.InvoiceStatusPartial,
	}
	doc, err := g.GenerateInvoicePDF(context.Background(), appbilling.InvoiceDocument{
		Invoice:  inv,
		Company:  &entity.Company{Name: "Tiendas Demo", NIT: "900123456"},
		Payments: []*entity.InvoicePayment{{Amount: decimal.NewFromInt(10000), Method: entity.InvoicePaymentTransfer, PaidAt: inv.IssueDate}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	_, err = g.GenerateInvoicePDF(context.Background(), appbilling.InvoiceDocument{})
	assert.Error(t, err)
}
