package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la tienda, con su saldo de puntos de fidelización (ECP).
type Customer struct {
	ID            string
	CompanyID     string
	Name          string
	TaxID         string
	Email         string
	Phone         string
	LoyaltyPoints int64
	TotalSpent    decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
