// Package pdf genera los documentos imprimibles con Maroto v2: el recibo de
// venta en formato de rollo térmico (80 mm) y la factura en A4.
//
// Layout de la factura:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIT  │  Tipo + N° Factura + Fechas  │
//	│  TERCERO: Proveedor / Cliente                                │
//	│  TABLA: Cant | Descripción | P.Unit | IVA | Subtotal         │
//	│  TOTALES: Subtotal / Impuestos / Total / Abonado / Saldo     │
//	│  ABONOS: fecha, medio, referencia, valor                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/hardware"
	"github.com/jhoicas/pos-api/pkg/money"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 20, Blue: 20}
)

var (
	_ hardware.ReceiptRenderer        = (*MarotoPDFGenerator)(nil)
	_ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)
)

// MarotoPDFGenerator implementa el renderizador de recibos y el generador de facturas.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// receiptHeight alto de la página del recibo según la cantidad de líneas.
func receiptHeight(r hardware.Receipt) float64 {
	return 120 + float64(len(r.Lines))*9 + float64(len(r.Payments))*5
}

// RenderReceipt genera el recibo de venta en rollo de 80 mm.
func (g *MarotoPDFGenerator) RenderReceipt(_ context.Context, r hardware.Receipt) ([]byte, error) {
	f := money.MustFormatter(r.CurrencyCode, r.Locale)
	cfg := config.NewBuilder().
		WithDimensions(80, receiptHeight(r)).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle("Recibo "+r.Number, true).
		Build()

	m := maroto.New(cfg)
	center := func(s string, size float64, style fontstyle.Type) core.Row {
		return row.New(size/2+2).Add(col.New(12).Add(text.New(s, props.Text{
			Size: size, Style: style, Align: align.Center,
		})))
	}

	m.AddRows(center(r.CompanyName, 10, fontstyle.Bold))
	if r.CompanyNIT != "" {
		m.AddRows(center("NIT: "+r.CompanyNIT, 7, fontstyle.Normal))
	}
	if r.StoreName != "" {
		m.AddRows(center(r.StoreName, 7, fontstyle.Normal))
	}
	if r.Header != "" {
		m.AddRows(center(r.Header, 7, fontstyle.Italic))
	}
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
	m.AddRows(keyValue("Recibo", r.Number, false))
	m.AddRows(keyValue("Fecha", r.IssuedAt.Format("02/01/2006 15:04"), false))
	if r.CashierName != "" {
		m.AddRows(keyValue("Cajero", r.CashierName, false))
	}
	if r.CustomerName != "" {
		m.AddRows(keyValue("Cliente", r.CustomerName, false))
	}
	if r.Voided {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New("*** ANULADO ***", props.Text{
			Size: 9, Style: fontstyle.Bold, Align: align.Center, Color: colorRed,
		}))))
	}
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))

	for _, l := range r.Lines {
		m.AddRows(row.New(4).Add(col.New(12).Add(text.New(l.Name, props.Text{Size: 7, Style: fontstyle.Bold}))))
		detail := fmt.Sprintf("%s x %s", f.Number(l.Quantity, 2), f.Format(l.UnitPrice))
		if l.Discount.IsPositive() {
			detail += " - " + f.Format(l.Discount)
		}
		m.AddRows(row.New(4).Add(
			col.New(7).Add(text.New(detail, props.Text{Size: 6.5, Color: colorGray})),
			col.New(5).Add(text.New(f.Format(l.Total), props.Text{Size: 7, Align: align.Right})),
		))
	}

	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
	m.AddRows(keyValue("Subtotal", f.Format(r.Subtotal), false))
	if r.Discount.IsPositive() {
		m.AddRows(keyValue("Descuentos", "-"+f.Format(r.Discount), false))
	}
	m.AddRows(keyValue("IVA", f.Format(r.Tax), false))
	m.AddRows(keyValue("TOTAL", f.Format(r.Total), true))
	for _, p := range r.Payments {
		m.AddRows(keyValue(paymentLabel(p.Method), f.Format(p.Amount), false))
	}
	if r.Change.IsPositive() {
		m.AddRows(keyValue("Cambio", f.Format(r.Change), false))
	}
	if r.PointsEarned > 0 || r.PointsRedeemed > 0 {
		m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
		m.AddRows(keyValue("Puntos ganados", fmt.Sprint(r.PointsEarned), false))
		if r.PointsRedeemed > 0 {
			m.AddRows(keyValue("Puntos redimidos", fmt.Sprint(r.PointsRedeemed), false))
		}
		m.AddRows(keyValue("Saldo de puntos", fmt.Sprint(r.PointsBalance), false))
	}
	m.AddRows(row.New(22).Add(col.New(12).Add(code.NewBar(r.Number, props.Barcode{
		Percent: 80, Center: true,
	}))))
	if r.Footer != "" {
		m.AddRows(center(r.Footer, 7, fontstyle.Italic))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateInvoicePDF genera la factura en A4 y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, d appbilling.InvoiceDocument) ([]byte, error) {
	if d.Invoice == nil || d.Company == nil {
		return nil, fmt.Errorf("pdf: factura o empresa vacía")
	}
	f := money.MustFormatter(d.CurrencyCode, d.Locale)
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+d.Invoice.Number, true).
		WithAuthor(d.Company.Name, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(invoiceHeaderRow(d.Invoice, d.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(counterpartyRow(d.Invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(d.Invoice.Lines, f) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(d.Invoice, f))

	if len(d.Payments) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New("ABONOS", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))))
		for _, p := range d.Payments {
			m.AddRows(row.New(5).Add(
				col.New(3).Add(text.New(p.PaidAt.Format("02/01/2006"), props.Text{Size: 8})),
				col.New(3).Add(text.New(paymentLabel(p.Method), props.Text{Size: 8})),
				col.New(3).Add(text.New(nonEmpty(p.Reference, "—"), props.Text{Size: 8, Color: colorGray})),
				col.New(3).Add(text.New(f.Format(p.Amount), props.Text{Size: 8, Align: align.Right})),
			))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func keyValue(k, v string, bold bool) core.Row {
	style := fontstyle.Normal
	size := 7.0
	if bold {
		style = fontstyle.Bold
		size = 9
	}
	return row.New(size/2+1).Add(
		col.New(6).Add(text.New(k, props.Text{Size: size, Style: style})),
		col.New(6).Add(text.New(v, props.Text{Size: size, Style: style, Align: align.Right})),
	)
}

// invoiceHeaderRow: Razón social + NIT (izq) y tipo, número y fechas (der).
func invoiceHeaderRow(inv *entity.Invoice, company *entity.Company) core.Row {
	title := "FACTURA POR COBRAR"
	if inv.Type == entity.InvoicePayable {
		title = "FACTURA POR PAGAR"
	}
	return row.New(22).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+company.NIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Emisión: "+inv.IssueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Vence: "+inv.DueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

// counterpartyRow: proveedor o cliente de la factura.
func counterpartyRow(inv *entity.Invoice) core.Row {
	label := "CLIENTE"
	if inv.Type == entity.InvoicePayable {
		label = "PROVEEDOR"
	}
	return row.New(12).Add(
		col.New(9).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(inv.CounterpartyName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
		col.New(3).Add(text.New("Estado: "+inv.Status, props.Text{
			Size: 8, Align: align.Right, Top: 6, Color: colorGray,
		})),
	)
}

// tableHeaderRow: cabecera de la tabla de detalles.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Subtotal", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea de la factura.
func tableDetailRows(lines []entity.InvoiceLine, f *money.Formatter) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, d := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				f.Number(d.Quantity, 2),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				d.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				f.Format(d.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				d.TaxRate.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				f.Format(d.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(inv *entity.Invoice, f *money.Formatter) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(28).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 0),
			label("Impuestos:", 5),
			label("TOTAL:", 10),
			label("Abonado:", 15),
			label("Saldo:", 20),
		),
		col.New(3).Add(
			value(f.Format(inv.Subtotal), 0),
			value(f.Format(inv.TaxTotal), 5),
			value(f.Format(inv.Total), 10),
			value(f.Format(inv.AmountPaid), 15),
			value(f.Format(inv.Balance()), 20),
		),
	)
}

func paymentLabel(method string) string {
	switch method {
	case entity.PaymentCash:
		return "Efectivo"
	case entity.PaymentCard:
		return "Tarjeta"
	case entity.PaymentPoints:
		return "Puntos ECP"
	case entity.InvoicePaymentTransfer:
		return "Transferencia"
	case entity.InvoicePaymentCheck:
		return "Cheque"
	}
	return method
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
