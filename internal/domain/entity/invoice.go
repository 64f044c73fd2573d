package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice factura ya calculada: es lo que consumen los dos renderizadores.
// Lines[i] corresponde a Items[i].
type Invoice struct {
	Number        string             `json:"invoice_number"`
	Date          time.Time          `json:"date"`
	GSTMethod     GSTMethod          `json:"gst_method"`
	Items         []LineItem         `json:"items"`
	Lines         []LineComputation  `json:"lines"`
	Totals        InvoiceComputation `json:"totals"`
	AmountInWords string             `json:"amount_in_words"`
	Client        ClientConfig       `json:"client"`
	Customer      Customer           `json:"customer"`
	Payment       *PaymentBreakdown  `json:"payment,omitempty"`
	// CreatedAt marca de tiempo cruda (unix s/ms o ISO) para el recibo POS.
	CreatedAt any `json:"created_at,omitempty"`
}

// RenderedDocument salida de un renderizador.
type RenderedDocument struct {
	FileName      string `json:"file_name"`
	ContentType   string `json:"content_type"`
	Content       []byte `json:"-"`
	ContentBase64 string `json:"content_base64"`
}

// IssuedInvoice registro contable de una factura emitida.
type IssuedInvoice struct {
	ID            string
	ClientID      string
	InvoiceNumber string
	Prefix        string
	InvoiceDate   string
	Sequence      int
	AllocatedBy   string // remote | local | random
	GSTMethod     GSTMethod
	TaxableValue  decimal.Decimal
	GSTAmount     decimal.Decimal
	CGST          decimal.Decimal
	SGST          decimal.Decimal
	GrandTotal    decimal.Decimal
	CreatedAt     time.Time
}
