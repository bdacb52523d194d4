package entity

import "time"

// Company representa una organización/tenant del sistema (cadena de tiendas).
type Company struct {
	ID        string
	Name      string
	NIT       string // identificación tributaria
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Estados de la empresa.
const (
	CompanyActive    = "active"
	CompanySuspended = "suspended"
	CompanyInactive  = "inactive"
)

// Operating informa si la empresa puede usar sus módulos. Sin estado cuenta como activa.
func (c *Company) Operating() bool {
	return c.Status == "" || c.Status == CompanyActive
}

// IsModule informa si el nombre corresponde a un módulo conocido.
func IsModule(name string) bool {
	for _, m := range AllModules {
		if m == name {
			return true
		}
	}
	return false
}

// Módulos SaaS disponibles (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModulePOS        = "pos"
	ModuleInventory  = "inventory"
	ModuleBilling    = "billing"
	ModulePurchasing = "purchasing"
	ModuleEmployees  = "employees"
	ModuleAnalytics  = "analytics"
)

// AllModules lista los módulos que se activan al crear una empresa.
var AllModules = []string{
	ModulePOS, ModuleInventory, ModuleBilling, ModulePurchasing, ModuleEmployees, ModuleAnalytics,
}

// CompanyModule representa la activación de un módulo SaaS en una empresa.
type CompanyModule struct {
	ID          string
	CompanyID   string
	ModuleName  string
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
