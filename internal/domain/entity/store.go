package entity

import "time"

// Store representa una tienda o sucursal con inventario propio (multi-tienda).
type Store struct {
	ID        string
	CompanyID string
	Code      string // código corto único por empresa (ej: "CENTRO")
	Name      string
	Address   string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
