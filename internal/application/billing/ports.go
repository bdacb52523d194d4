package billing

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// InvoiceDocument datos necesarios para la representación impresa de una factura.
type InvoiceDocument struct {
	Invoice      *entity.Invoice
	Company      *entity.Company
	Payments     []*entity.InvoicePayment
	CurrencyCode string
	Locale       string
}

// InvoicePDFGenerator genera el PDF de una factura (implementado con maroto en infrastructure/pdf).
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}
