package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefijos de numeración de documentos.
const (
	PrefixSale          = "V"
	PrefixTransfer      = "TR"
	PrefixPurchaseOrder = "OC"
)

// DocumentNumber genera un número legible "<prefijo>-AAAAMMDD-XXXXXX" para ventas, traslados y órdenes.
func DocumentNumber(prefix string, at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return prefix + "-" + at.Format("20060102") + "-" + suffix
}
