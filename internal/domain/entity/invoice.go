package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de factura.
const (
	InvoicePayable    = "payable"    // por pagar (proveedor)
	InvoiceReceivable = "receivable" // por cobrar (cliente)
)

// Estados de una factura. Solo cancelled se asigna explícitamente; el resto se deriva.
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPartial   = "partial"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Medios de pago de facturas.
const (
	InvoicePaymentCash     = "cash"
	InvoicePaymentTransfer = "transfer"
	InvoicePaymentCard     = "card"
	InvoicePaymentCheck    = "check"
)

// Invoice cabecera de una factura por pagar o por cobrar.
type Invoice struct {
	ID               string
	CompanyID        string
	Type             string
	Number           string
	CounterpartyID   string // SupplierID o CustomerID
	CounterpartyName string
	PurchaseOrderID  string
	IssueDate        time.Time
	DueDate          time.Time
	Lines            []InvoiceLine
	Subtotal         decimal.Decimal
	TaxTotal         decimal.Decimal
	Total            decimal.Decimal
	AmountPaid       decimal.Decimal
	Status           string
	Notes            string
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// InvoiceLine línea de detalle de una factura.
type InvoiceLine struct {
	Description string
	ProductID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
}

// InvoicePayment abono registrado contra una factura.
type InvoicePayment struct {
	ID         string
	InvoiceID  string
	Amount     decimal.Decimal
	Method     string
	Reference  string
	PaidAt     time.Time
	RecordedBy string
	CreatedAt  time.Time
}

// Balance saldo pendiente.
func (inv *Invoice) Balance() decimal.Decimal {
	b := inv.Total.Sub(inv.AmountPaid)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// DeriveStatus calcula el estado a partir de pagos y vencimiento. cancelled es permanente.
func (inv *Invoice) DeriveStatus(now time.Time) string {
	if inv.Status == InvoiceStatusCancelled {
		return InvoiceStatusCancelled
	}
	if inv.AmountPaid.GreaterThanOrEqual(inv.Total) {
		return InvoiceStatusPaid
	}
	if inv.AmountPaid.GreaterThan(decimal.Zero) && !isPastDue(inv.DueDate, now) {
		return InvoiceStatusPartial
	}
	if isPastDue(inv.DueDate, now) {
		return InvoiceStatusOverdue
	}
	return InvoiceStatusPending
}

// DaysPastDue días completos de mora (0 si no está vencida).
func (inv *Invoice) DaysPastDue(now time.Time) int {
	if !isPastDue(inv.DueDate, now) {
		return 0
	}
	return int(startOfDay(now).Sub(startOfDay(inv.DueDate)).Hours() / 24)
}

func isPastDue(due, now time.Time) bool {
	return startOfDay(due).Before(startOfDay(now))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Recalculate calcula subtotal e IVA de cada línea y los totales de la factura (2 decimales).
func (inv *Invoice) Recalculate() {
	inv.Subtotal, inv.TaxTotal = decimal.Zero, decimal.Zero
	for i := range inv.Lines {
		l := &inv.Lines[i]
		l.Subtotal = l.Quantity.Mul(l.UnitPrice).Round(2)
		l.TaxAmount = l.Subtotal.Mul(l.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
		inv.Subtotal = inv.Subtotal.Add(l.Subtotal)
		inv.TaxTotal = inv.TaxTotal.Add(l.TaxAmount)
	}
	inv.Total = inv.Subtotal.Add(inv.TaxTotal)
}
