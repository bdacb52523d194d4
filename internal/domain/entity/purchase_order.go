package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	POStatusDraft     = "draft"
	POStatusSent      = "sent"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

var poTransitions = map[string][]string{
	POStatusDraft: {POStatusSent, POStatusCancelled},
	POStatusSent:  {POStatusReceived, POStatusCancelled},
}

// PurchaseOrder orden de compra a un proveedor para una tienda.
type PurchaseOrder struct {
	ID         string
	CompanyID  string
	StoreID    string
	SupplierID string
	Number     string
	Status     string
	Auto       bool // generada por el reorden automático
	Items      []PurchaseOrderItem
	Total      decimal.Decimal
	Notes      string
	ExpectedAt *time.Time
	ReceivedAt *time.Time
	InvoiceID  string // factura por pagar generada en la recepción
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseOrderItem línea de una orden de compra.
type PurchaseOrderItem struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// IsOpen informa si la orden todavía puede recibirse.
func (po *PurchaseOrder) IsOpen() bool {
	return po.Status == POStatusDraft || po.Status == POStatusSent
}

// CanTransitionTo informa si la orden puede pasar al estado indicado.
func (po *PurchaseOrder) CanTransitionTo(next string) bool {
	for _, allowed := range poTransitions[po.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}
