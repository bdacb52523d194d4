// Package money formatea montos según la moneda y el locale configurados por la empresa.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter imprime montos con símbolo y separadores del locale.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter construye un formateador para un código ISO 4217 y un tag BCP 47.
func NewFormatter(currencyCode, locale string) (*Formatter, error) {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("money: moneda %q: %w", currencyCode, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("money: locale %q: %w", locale, err)
	}
	return &Formatter{printer: message.NewPrinter(tag), unit: unit}, nil
}

// MustFormatter como NewFormatter pero cae a COP/es-CO si los parámetros no son válidos.
func MustFormatter(currencyCode, locale string) *Formatter {
	f, err := NewFormatter(currencyCode, locale)
	if err != nil {
		f, _ = NewFormatter("COP", "es-CO")
	}
	return f
}

// Format devuelve el monto con símbolo de moneda, ej: "$ 1,234.50" en en-US.
func (f *Formatter) Format(amount decimal.Decimal) string {
	v, _ := amount.Round(2).Float64()
	return f.printer.Sprintf("%v", currency.Symbol(f.unit.Amount(v)))
}

// Number imprime una cantidad con separadores del locale y los decimales indicados.
func (f *Formatter) Number(d decimal.Decimal, places int32) string {
	v, _ := d.Round(places).Float64()
	return f.printer.Sprintf("%.*f", int(places), v)
}

// ValidCurrency informa si el código ISO 4217 es reconocido.
func ValidCurrency(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}

// ValidLocale informa si el tag BCP 47 es válido.
func ValidLocale(locale string) bool {
	_, err := language.Parse(locale)
	return err == nil
}
