package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLineRequest línea de una factura.
type InvoiceLineRequest struct {
	Description string          `json:"description" validate:"required"`
	ProductID   string          `json:"product_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// CreateInvoiceRequest alta de una factura por pagar o por cobrar.
type CreateInvoiceRequest struct {
	Type           string               `json:"type" validate:"required,oneof=payable receivable"`
	Number         string               `json:"number" validate:"required"`
	CounterpartyID string               `json:"counterparty_id" validate:"required"`
	IssueDate      time.Time            `json:"issue_date"`
	DueDate        time.Time            `json:"due_date"`
	Lines          []InvoiceLineRequest `json:"lines" validate:"required,min=1"`
	Notes          string               `json:"notes"`
}

// RecordPaymentRequest abono a una factura.
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" validate:"required,oneof=cash transfer card check"`
	Reference string          `json:"reference"`
	PaidAt    *time.Time      `json:"paid_at"`
}

// InvoiceLineResponse línea calculada.
type InvoiceLineResponse struct {
	Description string          `json:"description"`
	ProductID   string          `json:"product_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}

// InvoicePaymentResponse abono registrado.
type InvoicePaymentResponse struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference"`
	PaidAt     time.Time       `json:"paid_at"`
	RecordedBy string          `json:"recorded_by"`
}

// InvoiceResponse salida de una factura.
type InvoiceResponse struct {
	ID               string                   `json:"id"`
	Type             string                   `json:"type"`
	Number           string                   `json:"number"`
	CounterpartyID   string                   `json:"counterparty_id"`
	CounterpartyName string                   `json:"counterparty_name"`
	PurchaseOrderID  string                   `json:"purchase_order_id,omitempty"`
	IssueDate        time.Time                `json:"issue_date"`
	DueDate          time.Time                `json:"due_date"`
	Lines            []InvoiceLineResponse    `json:"lines"`
	Subtotal         decimal.Decimal          `json:"subtotal"`
	TaxTotal         decimal.Decimal          `json:"tax_total"`
	Total            decimal.Decimal          `json:"total"`
	AmountPaid       decimal.Decimal          `json:"amount_paid"`
	Balance          decimal.Decimal          `json:"balance"`
	Status           string                   `json:"status"`
	DaysPastDue      int                      `json:"days_past_due"`
	Notes            string                   `json:"notes"`
	Payments         []InvoicePaymentResponse `json:"payments,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
}

// InvoiceListRequest query de GET /api/invoices.
type InvoiceListRequest struct {
	PageRequest
	Type           string `query:"type"`
	Status         string `query:"status"`
	CounterpartyID string `query:"counterparty_id"`
	OpenOnly       bool   `query:"open_only"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// AgingBucketDTO saldo abierto en un rango de mora.
type AgingBucketDTO struct {
	Bucket  string          `json:"bucket"` // current, 1-30, 31-60, 61-90, 90+
	Count   int             `json:"count"`
	Balance decimal.Decimal `json:"balance"`
}

// AgingReportDTO cartera por edades.
type AgingReportDTO struct {
	Type    string           `json:"type"`
	AsOf    time.Time        `json:"as_of"`
	Buckets []AgingBucketDTO `json:"buckets"`
	Total   decimal.Decimal  `json:"total"`
}
