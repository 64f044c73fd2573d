package entity

import "github.com/shopspring/decimal"

// LineItem es una línea de la factura tal como la arma el llamador.
// Quantity > 0, UnitPrice >= 0, GSTRate >= 0 (porcentaje). No se valida aquí.
type LineItem struct {
	ProductID string          `json:"product_id" toml:"product_id"`
	Name      string          `json:"name" toml:"name"`
	Quantity  int             `json:"quantity" toml:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" toml:"unit_price"`
	GSTRate   decimal.Decimal `json:"gst_rate" toml:"gst_rate"`
	HSN       string          `json:"hsn,omitempty" toml:"hsn"`
	// Discount es informativo (ya reflejado en UnitPrice); solo se imprime en el recibo.
	Discount decimal.Decimal `json:"discount,omitempty" toml:"discount"`
}

// LineComputation valores derivados por línea, sin redondear.
// ItemTotal = Quantity * UnitPrice. En inclusivo TaxableValue + GSTAmount = ItemTotal;
// en exclusivo TaxableValue = ItemTotal y el GST va encima.
type LineComputation struct {
	ItemTotal    decimal.Decimal `json:"item_total"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	GSTAmount    decimal.Decimal `json:"gst_amount"`
}

// Rounded redondea a 2 decimales para mostrar.
func (l LineComputation) Rounded() LineComputation {
	return LineComputation{
		ItemTotal:    l.ItemTotal.Round(2),
		TaxableValue: l.TaxableValue.Round(2),
		GSTAmount:    l.GSTAmount.Round(2),
	}
}

// InvoiceComputation agregado de la factura, redondeado a 2 decimales.
// CGST + SGST = GSTAmount y TaxableValue + GSTAmount = GrandTotal, exactos.
type InvoiceComputation struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	GSTAmount    decimal.Decimal `json:"gst_amount"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
}
