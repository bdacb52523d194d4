package entity

import "time"

// Roles válidos para User. El detalle de permisos vive en domain/permission.
const (
	RoleAdmin     = "admin"
	RoleGerente   = "gerente"
	RoleCajero    = "cajero"
	RoleBodeguero = "bodeguero"
	RoleContador  = "contador"
)

// Estados de usuario.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User representa un empleado del sistema (pertenece a una Company y opcionalmente a una tienda).
type User struct {
	ID           string
	CompanyID    string
	StoreID      string // tienda base; vacío = todas
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
