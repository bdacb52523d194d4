// Package hardware administra los periféricos del punto de venta: lector de
// código de barras (teclado), impresora de recibos, cajón monedero y datáfono.
// Los dispositivos se simulan con latencia configurable; el Manager se inyecta
// en los casos de uso que los necesitan.
package hardware

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Device identifica un periférico.
type Device string

// Periféricos soportados.
const (
	Scanner    Device = "scanner"
	Printer    Device = "printer"
	CashDrawer Device = "cash_drawer"
	CardReader Device = "card_reader"
)

// Devices lista de periféricos en orden de presentación.
var Devices = []Device{Scanner, Printer, CashDrawer, CardReader}

// ParseDevice convierte un nombre (ej: "cash-drawer" o "cash_drawer") en Device.
func ParseDevice(s string) (Device, bool) {
	switch s {
	case "scanner":
		return Scanner, true
	case "printer":
		return Printer, true
	case "cash_drawer", "cash-drawer":
		return CashDrawer, true
	case "card_reader", "card-reader":
		return CardReader, true
	}
	return "", false
}

// Status estado de conexión de un periférico.
type Status string

// Estados posibles.
const (
	StatusDisconnected Status = "disconnected"
	StatusReady        Status = "ready"
	StatusBusy         Status = "busy"
	StatusError        Status = "error"
)

// DeviceState estado actual de un periférico.
type DeviceState struct {
	Device    Device    `json:"device"`
	Status    Status    `json:"status"`
	LastError string    `json:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScanEvent lectura completa del lector de código de barras.
type ScanEvent struct {
	Code string    `json:"code"`
	At   time.Time `json:"at"`
}

// CardAuthorization respuesta aprobada del datáfono.
type CardAuthorization struct {
	AuthCode string
	Last4    string
	Amount   decimal.Decimal
	At       time.Time
}

// ReceiptLine línea impresa en el recibo.
type ReceiptLine struct {
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
}

// ReceiptPayment pago impreso en el recibo.
type ReceiptPayment struct {
	Method string
	Amount decimal.Decimal
}

// Receipt contenido de un recibo de venta.
type Receipt struct {
	Number         string
	CompanyName    string
	CompanyNIT     string
	StoreName      string
	Header         string
	Footer         string
	CashierName    string
	CustomerName   string
	CurrencyCode   string
	Locale         string
	Lines          []ReceiptLine
	Payments       []ReceiptPayment
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	Change         decimal.Decimal
	PointsEarned   int64
	PointsRedeemed int64
	PointsBalance  int64
	IssuedAt       time.Time
	Voided         bool
}

// ReceiptRenderer convierte un recibo en un documento imprimible (PDF).
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, r Receipt) ([]byte, error)
}
