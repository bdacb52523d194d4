package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de caja (cash-out).
const (
	CashSessionOpen     = "open"
	CashSessionClosed   = "closed"
	CashSessionReviewed = "reviewed"
)

// CashSession turno de caja de un cajero: base inicial, efectivo esperado y contado al cierre.
type CashSession struct {
	ID           string
	CompanyID    string
	StoreID      string
	UserID       string
	Status       string
	OpeningFloat decimal.Decimal
	ExpectedCash decimal.Decimal
	CountedCash  decimal.Decimal
	Difference   decimal.Decimal // contado - esperado (negativo = faltante)
	Notes        string
	ReviewedBy   string
	ReviewNotes  string
	OpenedAt     time.Time
	ClosedAt     *time.Time
	ReviewedAt   *time.Time
	UpdatedAt    time.Time
}
