package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID   string           `json:"product_id"`
	StoreID     string           `json:"store_id,omitempty"`
	FromStoreID string           `json:"from_store_id,omitempty"`
	ToStoreID   string           `json:"to_store_id,omitempty"`
	Type        string           `json:"type"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
}

// MovementResponse registro del kardex.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	StoreID       string          `json:"store_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by"`
}

// StockLevelRequest query de GET /api/inventory/stock.
type StockLevelRequest struct {
	PageRequest
	StoreID string `query:"store_id"`
	LowOnly bool   `query:"low_only"`
}

// StockLevelResponse nivel de stock de un producto.
type StockLevelResponse struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	StoreID      string          `json:"store_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	Low          bool            `json:"low"`
}

// StockLevelListResponse lista paginada de niveles de stock.
type StockLevelListResponse struct {
	Items []StockLevelResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// ReplenishmentSuggestionDTO representa una sugerencia de reposición para un SKU
// que se encuentra por debajo de su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ProductID           string          `json:"product_id"`
	SKU                 string          `json:"sku"`
	ProductName         string          `json:"product_name"`
	SupplierID          string          `json:"supplier_id,omitempty"`
	CurrentStock        decimal.Decimal `json:"current_stock"`
	ReorderPoint        decimal.Decimal `json:"reorder_point"`
	IdealStock          decimal.Decimal `json:"ideal_stock"`
	SuggestedOrderQty   decimal.Decimal `json:"suggested_order_qty"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost  decimal.Decimal `json:"estimated_order_cost"`
	GrossMarginPct      decimal.Decimal `json:"gross_margin_pct"`
	UnitsSoldLast90Days decimal.Decimal `json:"units_sold_last_90d"`
	Priority            int             `json:"priority"` // 1 = más urgente
}

// TransferItemRequest línea de un traslado.
type TransferItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateTransferRequest solicitud de traslado entre tiendas.
type CreateTransferRequest struct {
	FromStoreID string                `json:"from_store_id" validate:"required"`
	ToStoreID   string                `json:"to_store_id" validate:"required"`
	Items       []TransferItemRequest `json:"items" validate:"required,min=1"`
	Notes       string                `json:"notes"`
}

// ReasonRequest body con motivo (rechazos y anulaciones).
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID          string                `json:"id"`
	Number      string                `json:"number"`
	FromStoreID string                `json:"from_store_id"`
	ToStoreID   string                `json:"to_store_id"`
	Status      string                `json:"status"`
	Items       []TransferItemRequest `json:"items"`
	Notes       string                `json:"notes"`
	Reason      string                `json:"reason,omitempty"`
	RequestedBy string                `json:"requested_by"`
	ApprovedBy  string                `json:"approved_by,omitempty"`
	ReceivedBy  string                `json:"received_by,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	ApprovedAt  *time.Time            `json:"approved_at,omitempty"`
	ReceivedAt  *time.Time            `json:"received_at,omitempty"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// PurchaseOrderItemRequest línea de una orden de compra.
type PurchaseOrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest alta de una orden de compra en borrador.
type CreatePurchaseOrderRequest struct {
	SupplierID string                     `json:"supplier_id" validate:"required"`
	StoreID    string                     `json:"store_id" validate:"required"`
	Items      []PurchaseOrderItemRequest `json:"items" validate:"required,min=1"`
	Notes      string                     `json:"notes"`
	ExpectedAt *time.Time                 `json:"expected_at"`
}

// ReceivePurchaseOrderRequest datos de la factura del proveedor al recibir.
type ReceivePurchaseOrderRequest struct {
	InvoiceNumber string `json:"invoice_number"` // vacío = se usa el número de la orden
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID         string                     `json:"id"`
	Number     string                     `json:"number"`
	SupplierID string                     `json:"supplier_id"`
	StoreID    string                     `json:"store_id"`
	Status     string                     `json:"status"`
	Auto       bool                       `json:"auto"`
	Items      []PurchaseOrderItemRequest `json:"items"`
	Total      decimal.Decimal            `json:"total"`
	Notes      string                     `json:"notes"`
	ExpectedAt *time.Time                 `json:"expected_at,omitempty"`
	ReceivedAt *time.Time                 `json:"received_at,omitempty"`
	InvoiceID  string                     `json:"invoice_id,omitempty"`
	CreatedBy  string                     `json:"created_by"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes de compra.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// AutoReorderResult resumen de una corrida de reorden automático.
type AutoReorderResult struct {
	CompanyID       string   `json:"company_id"`
	OrdersCreated   []string `json:"orders_created"`
	SkippedProducts []string `json:"skipped_products"` // SKUs sin proveedor
}
