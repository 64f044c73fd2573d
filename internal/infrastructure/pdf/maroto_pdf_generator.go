// Package pdf implementa la factura GST en PDF (A4) con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  TAX INVOICE                              [Inclusive GST]   │
//	│  From: negocio emisor         │  To: cliente                │
//	│  N° factura | Fecha | Método GST | Ítems                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  # | Description | Qty | Rate | Taxable | GST% | Total       │
//	│  ─────────────────────────────────────────────────────────  │
//	│                         Subtotal / Taxable / GST / CGST ... │
//	│  Amount in words                                            │
//	│  Declaration + Terms                                        │
//	│  Thank you                          Authorised Signatory    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	mentity "github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-gst-engine/pkg/money"
)

// gridSize 20 columnas para que la tabla de 7 columnas reparta bien.
const gridSize = 20

// Truncado de la descripción en la tabla.
const (
	descriptionMax  = 28
	descriptionKeep = 25
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary   = &props.Color{Red: 26, Green: 82, Blue: 118}
	colorText      = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorSecondary = &props.Color{Red: 108, Green: 117, Blue: 125}
	colorTint      = &props.Color{Red: 235, Green: 243, Blue: 250}
	colorWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// fpdfDefaults protege los valores globales de gofpdf que se copian al crear
// cada documento (maroto.New): orden de catálogos y fecha de modificación.
var fpdfDefaults sync.Mutex

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	creator string
}

// NewMarotoPDFGenerator construye el generador. creator va en los metadatos del PDF.
func NewMarotoPDFGenerator(creator string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{creator: creator}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes. La fecha de creación
// de los metadatos es la de la factura, así la salida no depende del reloj.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, inv *entity.Invoice) ([]byte, error) {
	created := inv.Date
	if created.IsZero() {
		created = time.Unix(0, 0).UTC()
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithMaxGridSize(gridSize).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9, Color: colorText}).
		WithTitle("Invoice "+inv.Number, true).
		WithAuthor(nonEmpty(inv.Client.ClientName, "-"), true).
		WithCreator(nonEmpty(g.creator, "invoice-gst-engine"), true).
		WithCreationDate(created).
		Build()

	m := newMaroto(cfg, created)

	m.AddRows(titleRow(inv))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.6}))
	m.AddRows(partiesRow(inv))
	m.AddRows(row.New(3))
	m.AddRows(metadataRows(inv)...)
	m.AddRows(row.New(4))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(inv)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))

	m.AddRows(totalsRows(inv.Totals)...)
	m.AddRows(row.New(3))
	m.AddRows(wordsRows(inv.AmountInWords)...)
	m.AddRows(row.New(3))
	m.AddRows(termsRows()...)
	m.AddRows(row.New(8))
	m.AddRows(footerRows(inv)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// newMaroto crea el documento con catálogos ordenados (fuentes en orden fijo) y
// ModDate igual a la fecha de creación; sin esto gofpdf usa el orden del map y time.Now.
func newMaroto(cfg *mentity.Config, modified time.Time) core.Maroto {
	fpdfDefaults.Lock()
	defer fpdfDefaults.Unlock()
	gofpdf.SetDefaultCatalogSort(true)
	gofpdf.SetDefaultModificationDate(modified)
	return maroto.New(cfg)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// titleRow: título a la izquierda, etiqueta del método GST a la derecha.
func titleRow(inv *entity.Invoice) core.Row {
	return row.New(14).Add(
		col.New(14).Add(
			text.New("TAX INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 18, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(6).Add(
			text.New(inv.GSTMethod.String(), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: colorWhite, Top: 4,
			}),
		).WithStyle(&props.Cell{BackgroundColor: colorPrimary}),
	)
}

// partiesRow: "From" (negocio) y "To" (cliente) lado a lado.
func partiesRow(inv *entity.Invoice) core.Row {
	c, cu := inv.Client, inv.Customer
	return row.New(34).Add(
		col.New(10).Add(addressBlock("From",
			c.ClientName,
			c.ClientAddress,
			labelled("GSTIN", c.GSTNo),
			labelled("Phone", c.Phone),
			labelled("Email", c.Email),
		)...),
		col.New(10).Add(addressBlock("To",
			nonEmpty(cu.Name, "Walk-in Customer"),
			cu.Address,
			labelled("GSTIN", cu.GSTNo),
			labelled("Phone", cu.Phone),
			labelled("Email", cu.Email),
		)...),
	)
}

func addressBlock(title, name string, lines ...string) []core.Component {
	comps := []core.Component{
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorSecondary, Top: 2}),
		text.New(name, props.Text{Style: fontstyle.Bold, Size: 11, Top: 7}),
	}
	top := 13.0
	for _, l := range lines {
		if l == "" {
			continue
		}
		comps = append(comps, text.New(l, props.Text{Size: 8, Color: colorSecondary, Top: top, Right: 4}))
		top += 4.5
	}
	return comps
}

// metadataRows: grilla con número, fecha, método y cantidad de ítems.
func metadataRows(inv *entity.Invoice) []core.Row {
	cell := &props.Cell{BackgroundColor: colorTint}
	label := func(s string) core.Col {
		return col.New(5).Add(text.New(s, props.Text{
			Size: 7, Color: colorSecondary, Top: 1.5, Left: 2,
		})).WithStyle(cell)
	}
	value := func(s string) core.Col {
		return col.New(5).Add(text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 0.5, Left: 2,
		})).WithStyle(cell)
	}
	date := "-"
	if !inv.Date.IsZero() {
		date = inv.Date.Format("02 Jan 2006")
	}
	return []core.Row{
		row.New(6).Add(label("Invoice No."), label("Date"), label("GST Method"), label("Items")),
		row.New(7).Add(value(inv.Number), value(date), value(inv.GSTMethod.Short()), value(strconv.Itoa(len(inv.Items)))),
	}
}

type column struct {
	title string
	size  int
	align align.Type
}

var tableColumns = []column{
	{"#", 1, align.Center},
	{"Description", 6, align.Left},
	{"Qty", 2, align.Center},
	{"Rate", 3, align.Right},
	{"Taxable", 3, align.Right},
	{"GST%", 2, align.Center},
	{"Total", 3, align.Right},
}

// tableHeaderRow: cabecera con fondo primario.
func tableHeaderRow() core.Row {
	cols := make([]core.Col, len(tableColumns))
	for i, c := range tableColumns {
		cols[i] = col.New(c.size).Add(text.New(c.title, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows: una fila por ítem, fondo alterno y separadores verticales.
func tableRows(inv *entity.Invoice) []core.Row {
	rows := make([]core.Row, 0, len(inv.Items))
	for i, it := range inv.Items {
		var lc entity.LineComputation
		if i < len(inv.Lines) {
			lc = inv.Lines[i].Rounded()
		}
		values := []string{
			strconv.Itoa(i + 1),
			TruncateDescription(it.Name),
			strconv.Itoa(it.Quantity),
			money.Format(it.UnitPrice),
			money.Format(lc.TaxableValue),
			money.Percent(it.GSTRate),
			money.Format(lc.ItemTotal.Add(exclusiveGST(inv.GSTMethod, lc))),
		}

		cols := make([]core.Col, len(tableColumns))
		for j, c := range tableColumns {
			cell := &props.Cell{BorderType: border.Right, BorderColor: colorSecondary, BorderThickness: 0.1}
			if j == len(tableColumns)-1 {
				cell.BorderType = border.None
			}
			if i%2 == 1 {
				cell.BackgroundColor = colorTint
			}
			cols[j] = col.New(c.size).Add(text.New(values[j], props.Text{
				Size: 8, Align: c.align, Top: 1.5, Left: 1, Right: 1,
			})).WithStyle(cell)
		}
		rows = append(rows, row.New(7).Add(cols...))
	}
	return rows
}

// exclusiveGST en exclusivo el total de la línea lleva el GST encima.
func exclusiveGST(method entity.GSTMethod, lc entity.LineComputation) decimal.Decimal {
	if method == entity.GSTExclusive {
		return lc.GSTAmount
	}
	return decimal.Zero
}

// totalsRows: caja de totales alineada a la derecha.
func totalsRows(t entity.InvoiceComputation) []core.Row {
	line := func(label, value string) core.Row {
		return row.New(6).Add(
			col.New(11),
			col.New(5).Add(text.New(label, props.Text{Size: 9, Align: align.Right, Top: 1, Right: 2})),
			col.New(4).Add(text.New(value, props.Text{Size: 9, Align: align.Right, Top: 1, Right: 1})),
		)
	}
	grand := row.New(9).Add(
		col.New(11),
		col.New(5).Add(text.New("Grand Total", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorWhite, Top: 2, Right: 2,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary}),
		col.New(4).Add(text.New("Rs. "+money.Format(t.GrandTotal), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorWhite, Top: 2, Right: 1,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary}),
	)
	return []core.Row{
		line("Subtotal", money.Format(t.Subtotal)),
		line("Taxable Value", money.Format(t.TaxableValue)),
		line("GST Amount", money.Format(t.GSTAmount)),
		line("CGST", money.Format(t.CGST)),
		line("SGST", money.Format(t.SGST)),
		grand,
	}
}

func wordsRows(words string) []core.Row {
	return []core.Row{
		row.New(5).Add(col.New(20).Add(text.New("Amount in Words", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorSecondary,
		}))),
		row.New(7).Add(col.New(20).Add(text.New(words, props.Text{
			Style: fontstyle.BoldItalic, Size: 9, Top: 1,
		}))),
	}
}

func termsRows() []core.Row {
	small := props.Text{Size: 7.5, Color: colorSecondary, Top: 1}
	return []core.Row{
		row.New(5).Add(col.New(20).Add(text.New("Declaration", props.Text{Style: fontstyle.Bold, Size: 8}))),
		row.New(8).Add(col.New(20).Add(text.New(
			"We declare that this invoice shows the actual price of the goods described "+
				"and that all particulars are true and correct.", small))),
		row.New(5).Add(col.New(20).Add(text.New("Terms & Conditions", props.Text{Style: fontstyle.Bold, Size: 8}))),
		row.New(14).Add(col.New(20).Add(
			text.New("1. Goods once sold will not be taken back or exchanged.", small),
			text.New("2. Payment is due on receipt of this invoice.", props.Text{Size: 7.5, Color: colorSecondary, Top: 5}),
			text.New("3. Subject to local jurisdiction.", props.Text{Size: 7.5, Color: colorSecondary, Top: 9}),
		)),
	}
}

// footerRows: agradecimiento a la izquierda, firma a la derecha.
func footerRows(inv *entity.Invoice) []core.Row {
	return []core.Row{
		row.New(18).Add(
			col.New(12).Add(text.New("Thank you for your business!", props.Text{
				Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 10,
			})),
			col.New(8).Add(
				text.New("For "+nonEmpty(inv.Client.ClientName, "the seller"), props.Text{
					Style: fontstyle.Bold, Size: 8, Align: align.Center,
				}),
			),
		),
		row.New(6).Add(
			col.New(12),
			col.New(8).Add(text.New("Authorised Signatory", props.Text{
				Size: 8, Align: align.Center, Color: colorSecondary, Top: 1,
			})).WithStyle(&props.Cell{BorderType: border.Top, BorderColor: colorSecondary, BorderThickness: 0.2}),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// TruncateDescription corta a 25 caracteres + "..." cuando supera 28.
func TruncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= descriptionMax {
		return s
	}
	r := []rune(s)
	return string(r[:descriptionKeep]) + "..."
}

func labelled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
