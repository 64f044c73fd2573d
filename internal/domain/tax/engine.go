// Package tax calcula el GST (India) por línea y el agregado de la factura.
//
// Inclusivo: el total de la línea ya contiene el impuesto,
//
//	base = total / (1 + tasa/100), gst = total - base
//
// Exclusivo: el impuesto se suma encima,
//
//	base = total, gst = total * tasa/100
//
// Los valores intermedios no se redondean; el redondeo a 2 decimales ocurre
// solo en el agregado.
package tax

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// Engine servicio de dominio sin estado. Ambos renderizadores consumen su resultado.
type Engine struct{}

// NewEngine construye el motor.
func NewEngine() *Engine { return &Engine{} }

// ComputeLine calcula base gravable y GST de una línea según el método.
// Cantidades o tasas negativas son responsabilidad del llamador.
func (e *Engine) ComputeLine(item entity.LineItem, method entity.GSTMethod) entity.LineComputation {
	total := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	if item.GSTRate.IsZero() {
		return entity.LineComputation{ItemTotal: total, TaxableValue: total, GSTAmount: decimal.Zero}
	}

	var taxable, gst decimal.Decimal
	switch method {
	case entity.GSTExclusive:
		taxable = total
		gst = total.Mul(item.GSTRate).Div(hundred)
	default:
		divisor := decimal.NewFromInt(1).Add(item.GSTRate.Div(hundred))
		taxable = total.Div(divisor)
		gst = total.Sub(taxable)
	}
	return entity.LineComputation{ItemTotal: total, TaxableValue: taxable, GSTAmount: gst}
}

// Aggregate suma las líneas y redondea en el borde.
// GrandTotal = round(base + gst); GSTAmount = round(gst); TaxableValue se deriva como
// GrandTotal - GSTAmount, y SGST como GSTAmount - CGST, para que ambas sumas cuadren exactas.
func (e *Engine) Aggregate(lines []entity.LineComputation) entity.InvoiceComputation {
	subtotal, taxable, gst := decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.ItemTotal)
		taxable = taxable.Add(l.TaxableValue)
		gst = gst.Add(l.GSTAmount)
	}

	grand := taxable.Add(gst).Round(2)
	gstR := gst.Round(2)
	cgst := gstR.Div(two).Round(2)

	return entity.InvoiceComputation{
		Subtotal:     subtotal.Round(2),
		TaxableValue: grand.Sub(gstR),
		GSTAmount:    gstR,
		CGST:         cgst,
		SGST:         gstR.Sub(cgst),
		GrandTotal:   grand,
	}
}

// Compute calcula todas las líneas y el agregado de una vez.
func (e *Engine) Compute(items []entity.LineItem, method entity.GSTMethod) ([]entity.LineComputation, entity.InvoiceComputation) {
	lines := make([]entity.LineComputation, 0, len(items))
	for _, it := range items {
		lines = append(lines, e.ComputeLine(it, method))
	}
	return lines, e.Aggregate(lines)
}
