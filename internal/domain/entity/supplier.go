package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier representa un proveedor de mercancía.
type Supplier struct {
	ID               string
	CompanyID        string
	Name             string
	ContactName      string
	Email            string
	Phone            string
	TaxID            string
	Address          string
	PaymentTermsDays int             // días de crédito para la factura por pagar
	LeadTimeDays     int             // días de entrega
	Rating           decimal.Decimal // 0 a 5
	Status           string          // active, inactive
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
