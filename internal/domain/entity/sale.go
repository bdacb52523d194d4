package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. Una canasta temporal es una venta en pending_approval.
const (
	SaleStatusPendingApproval = "pending_approval"
	SaleStatusApproved        = "approved"
	SaleStatusRejected        = "rejected"
	SaleStatusCompleted       = "completed"
	SaleStatusVoided          = "voided"
)

// Medios de pago aceptados en el POS.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentPoints = "points"
)

var saleTransitions = map[string][]string{
	SaleStatusPendingApproval: {SaleStatusApproved, SaleStatusRejected},
	SaleStatusApproved:        {SaleStatusCompleted},
	SaleStatusCompleted:       {SaleStatusVoided},
}

// Sale representa una transacción del punto de venta (o una canasta temporal pendiente).
type Sale struct {
	ID             string
	CompanyID      string
	StoreID        string
	Number         string
	CashierID      string
	CustomerID     string
	CashSessionID  string
	Status         string
	PromotionID    string
	PromotionCode  string
	Items          []SaleItem
	Payments       []SalePayment
	Subtotal       decimal.Decimal // suma de cantidad * precio
	DiscountTotal  decimal.Decimal // descuentos de línea + promoción
	TaxTotal       decimal.Decimal
	Total          decimal.Decimal
	ChangeDue      decimal.Decimal // vueltas entregadas en efectivo
	PointsEarned   int64
	PointsRedeemed int64
	Notes          string
	ApprovedBy     string
	VoidReason     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}

// SaleItem línea de una venta. Los montos quedan congelados al momento de la venta.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	SKU         string
	Name        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal // costo promedio al momento de la venta (para margen)
	DiscountPct decimal.Decimal
	Discount    decimal.Decimal
	TaxRate     decimal.Decimal
	TaxAmount   decimal.Decimal
	Subtotal    decimal.Decimal // cantidad * precio
	Total       decimal.Decimal // subtotal - descuento + IVA
}

// SalePayment pago aplicado a una venta (pago dividido = varios registros).
type SalePayment struct {
	ID        string
	SaleID    string
	Method    string // cash, card, points
	Amount    decimal.Decimal
	Reference string // código de autorización del datáfono
	CardLast4 string
	CreatedAt time.Time
}

// CanTransitionTo informa si la venta puede pasar al estado indicado.
func (s *Sale) CanTransitionTo(next string) bool {
	for _, allowed := range saleTransitions[s.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CashReceived suma lo entregado en efectivo menos las vueltas.
func (s *Sale) CashReceived() decimal.Decimal {
	cash := decimal.Zero
	for _, p := range s.Payments {
		if p.Method == PaymentCash {
			cash = cash.Add(p.Amount)
		}
	}
	return cash.Sub(s.ChangeDue)
}

// ItemCount total de unidades vendidas.
func (s *Sale) ItemCount() decimal.Decimal {
	n := decimal.Zero
	for _, it := range s.Items {
		n = n.Add(it.Quantity)
	}
	return n
}
