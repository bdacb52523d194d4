package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Barcode      string          `json:"barcode" validate:"omitempty,max=64"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description"`
	CategoryID   string          `json:"category_id" validate:"omitempty,uuid"`
	SupplierID   string          `json:"supplier_id" validate:"omitempty,uuid"`
	Price        decimal.Decimal `json:"price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	UnitMeasure  string          `json:"unit_measure"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	ReorderQty   decimal.Decimal `json:"reorder_qty"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Cost ni Stock).
type UpdateProductRequest struct {
	Barcode      *string          `json:"barcode"`
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	CategoryID   *string          `json:"category_id"`
	SupplierID   *string          `json:"supplier_id"`
	Price        *decimal.Decimal `json:"price"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
	UnitMeasure  *string          `json:"unit_measure"`
	ReorderPoint *decimal.Decimal `json:"reorder_point"`
	ReorderQty   *decimal.Decimal `json:"reorder_qty"`
	IsActive     *bool            `json:"is_active"`
}

// ProductListRequest query de GET /api/products.
type ProductListRequest struct {
	PageRequest
	Search     string `query:"search"`
	CategoryID string `query:"category_id"`
	ActiveOnly bool   `query:"active_only"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	CategoryID   string          `json:"category_id,omitempty"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	UnitMeasure  string          `json:"unit_measure"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	ReorderQty   decimal.Decimal `json:"reorder_qty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	ParentID    string `json:"parent_id" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Code        string `json:"code" validate:"required,min=1,max=30"`
	Description string `json:"description"`
}

// UpdateCategoryRequest entrada para actualizar una categoría. ParentID "" la vuelve raíz.
type UpdateCategoryRequest struct {
	ParentID    *string `json:"parent_id"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	ParentID    string    `json:"parent_id,omitempty"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryNode categoría con sus hijas (árbol de CategoryManager).
type CategoryNode struct {
	CategoryResponse
	Children []CategoryNode `json:"children"`
}

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name             string          `json:"name" validate:"required,min=1,max=200"`
	ContactName      string          `json:"contact_name"`
	Email            string          `json:"email" validate:"omitempty,email"`
	Phone            string          `json:"phone"`
	TaxID            string          `json:"tax_id"`
	Address          string          `json:"address"`
	PaymentTermsDays int             `json:"payment_terms_days" validate:"min=0"`
	LeadTimeDays     int             `json:"lead_time_days" validate:"min=0"`
	Rating           decimal.Decimal `json:"rating"`
}

// UpdateSupplierRequest entrada para actualizar un proveedor.
type UpdateSupplierRequest struct {
	Name             *string          `json:"name" validate:"omitempty,min=1,max=200"`
	ContactName      *string          `json:"contact_name"`
	Email            *string          `json:"email" validate:"omitempty,email"`
	Phone            *string          `json:"phone"`
	TaxID            *string          `json:"tax_id"`
	Address          *string          `json:"address"`
	PaymentTermsDays *int             `json:"payment_terms_days"`
	LeadTimeDays     *int             `json:"lead_time_days"`
	Rating           *decimal.Decimal `json:"rating"`
	Status           *string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ContactName      string          `json:"contact_name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	TaxID            string          `json:"tax_id"`
	Address          string          `json:"address"`
	PaymentTermsDays int             `json:"payment_terms_days"`
	LeadTimeDays     int             `json:"lead_time_days"`
	Rating           decimal.Decimal `json:"rating"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	TaxID string `json:"tax_id"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

// UpdateCustomerRequest entrada para actualizar un cliente (los puntos van por ajuste).
type UpdateCustomerRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID *string `json:"tax_id"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
}

// AdjustPointsRequest ajuste manual del saldo de puntos ECP.
type AdjustPointsRequest struct {
	Points int64  `json:"points"` // positivo suma, negativo resta
	Reason string `json:"reason" validate:"required"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TaxID         string          `json:"tax_id"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	LoyaltyPoints int64           `json:"loyalty_points"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreatePromotionRequest entrada para crear una promoción.
type CreatePromotionRequest struct {
	Code        string          `json:"code" validate:"required,min=1,max=40"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Type        string          `json:"type" validate:"required,oneof=percentage fixed"`
	Value       decimal.Decimal `json:"value"`
	MinPurchase decimal.Decimal `json:"min_purchase"`
	StartsAt    *time.Time      `json:"starts_at"`
	EndsAt      *time.Time      `json:"ends_at"`
	UsageLimit  int             `json:"usage_limit" validate:"min=0"`
}

// UpdatePromotionRequest entrada para actualizar una promoción.
type UpdatePromotionRequest struct {
	Name        *string          `json:"name"`
	Value       *decimal.Decimal `json:"value"`
	MinPurchase *decimal.Decimal `json:"min_purchase"`
	EndsAt      *time.Time       `json:"ends_at"`
	UsageLimit  *int             `json:"usage_limit"`
	IsActive    *bool            `json:"is_active"`
}

// PromotionResponse salida de una promoción.
type PromotionResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	MinPurchase decimal.Decimal `json:"min_purchase"`
	StartsAt    time.Time       `json:"starts_at"`
	EndsAt      *time.Time      `json:"ends_at,omitempty"`
	UsageLimit  int             `json:"usage_limit"`
	UsedCount   int             `json:"used_count"`
	IsActive    bool            `json:"is_active"`
}

// EvaluatePromotionRequest consulta del descuento de un código sobre un subtotal.
type EvaluatePromotionRequest struct {
	Code     string          `json:"code" validate:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// EvaluatePromotionResponse descuento resultante.
type EvaluatePromotionResponse struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
}
