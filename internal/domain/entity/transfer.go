package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un traslado entre tiendas.
const (
	TransferStatusPending   = "pending"
	TransferStatusInTransit = "in_transit"
	TransferStatusCompleted = "completed"
	TransferStatusRejected  = "rejected"
	TransferStatusCancelled = "cancelled"
)

var transferTransitions = map[string][]string{
	TransferStatusPending:   {TransferStatusInTransit, TransferStatusRejected, TransferStatusCancelled},
	TransferStatusInTransit: {TransferStatusCompleted},
}

// InventoryTransfer solicitud de traslado de mercancía entre dos tiendas.
type InventoryTransfer struct {
	ID          string
	CompanyID   string
	Number      string
	FromStoreID string
	ToStoreID   string
	Status      string
	Items       []TransferItem
	Notes       string
	Reason      string // motivo de rechazo
	RequestedBy string
	ApprovedBy  string
	ReceivedBy  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ApprovedAt  *time.Time
	ReceivedAt  *time.Time
}

// TransferItem línea de un traslado.
type TransferItem struct {
	ProductID string
	Quantity  decimal.Decimal
}

// CanTransitionTo informa si el traslado puede pasar al estado indicado.
func (t *InventoryTransfer) CanTransitionTo(next string) bool {
	for _, allowed := range transferTransitions[t.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}
