package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLineRequest línea del carrito.
type CartLineRequest struct {
	ProductID   string           `json:"product_id" validate:"required"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"` // requiere pos.discount
	DiscountPct decimal.Decimal  `json:"discount_pct"`
}

// CartRequest carrito del POS.
type CartRequest struct {
	StoreID        string            `json:"store_id"`
	CustomerID     string            `json:"customer_id,omitempty"`
	Lines          []CartLineRequest `json:"lines" validate:"required,min=1"`
	PromotionCode  string            `json:"promotion_code,omitempty"`
	PointsToRedeem int64             `json:"points_to_redeem,omitempty"`
}

// PaymentRequest pago ofrecido (pago dividido = varios).
type PaymentRequest struct {
	Method string          `json:"method" validate:"required,oneof=cash card"`
	Amount decimal.Decimal `json:"amount"`
}

// CheckoutRequest body de POST /api/pos/checkout.
type CheckoutRequest struct {
	Cart     CartRequest      `json:"cart"`
	Payments []PaymentRequest `json:"payments"`
}

// HoldRequest body de POST /api/pos/baskets (canasta temporal).
type HoldRequest struct {
	Cart CartRequest `json:"cart"`
	Note string      `json:"note"`
}

// PayBasketRequest pagos para cobrar una canasta aprobada.
type PayBasketRequest struct {
	Payments []PaymentRequest `json:"payments"`
}

// SaleLineResponse línea calculada.
type SaleLineResponse struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	Discount    decimal.Decimal `json:"discount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
}

// QuoteResponse totales de un carrito sin registrar la venta.
type QuoteResponse struct {
	Lines          []SaleLineResponse `json:"lines"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountTotal  decimal.Decimal    `json:"discount_total"`
	PromoDiscount  decimal.Decimal    `json:"promo_discount"`
	TaxTotal       decimal.Decimal    `json:"tax_total"`
	Total          decimal.Decimal    `json:"total"`
	PointsValue    decimal.Decimal    `json:"points_value"`
	AmountDue      decimal.Decimal    `json:"amount_due"` // total menos puntos redimidos
	NeedsApproval  bool               `json:"needs_approval"`
	PointsEarnable int64              `json:"points_earnable"`
}

// SalePaymentResponse pago aplicado.
type SalePaymentResponse struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
	CardLast4 string          `json:"card_last4,omitempty"`
}

// SaleResponse venta o canasta.
type SaleResponse struct {
	ID             string                `json:"id"`
	Number         string                `json:"number"`
	StoreID        string                `json:"store_id"`
	CashierID      string                `json:"cashier_id"`
	CustomerID     string                `json:"customer_id,omitempty"`
	CashSessionID  string                `json:"cash_session_id,omitempty"`
	Status         string                `json:"status"`
	PromotionCode  string                `json:"promotion_code,omitempty"`
	Lines          []SaleLineResponse    `json:"lines"`
	Payments       []SalePaymentResponse `json:"payments"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DiscountTotal  decimal.Decimal       `json:"discount_total"`
	TaxTotal       decimal.Decimal       `json:"tax_total"`
	Total          decimal.Decimal       `json:"total"`
	ChangeDue      decimal.Decimal       `json:"change_due"`
	PointsEarned   int64                 `json:"points_earned"`
	PointsRedeemed int64                 `json:"points_redeemed"`
	Notes          string                `json:"notes,omitempty"`
	ApprovedBy     string                `json:"approved_by,omitempty"`
	VoidReason     string                `json:"void_reason,omitempty"`
	ReceiptPath    string                `json:"receipt_path,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	CompletedAt    *time.Time            `json:"completed_at,omitempty"`
}

// SaleListRequest query de GET /api/pos/sales.
type SaleListRequest struct {
	PageRequest
	StoreID   string `query:"store_id"`
	Status    string `query:"status"`
	CashierID string `query:"cashier_id"`
	From      string `query:"from"` // YYYY-MM-DD
	To        string `query:"to"`   // YYYY-MM-DD
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
