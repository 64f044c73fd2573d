package entity

import "github.com/shopspring/decimal"

// Medios de pago que se desglosan en el recibo.
const (
	PaymentCash   = "cash"
	PaymentCredit = "credit"
	PaymentUPI    = "upi"
	PaymentCheque = "cheque"
)

// PaymentEntry un cobro. BankAccount solo aplica a UPI/cheque y se imprime enmascarado.
type PaymentEntry struct {
	Method      string          `json:"method" toml:"method"`
	Amount      decimal.Decimal `json:"amount" toml:"amount"`
	BankName    string          `json:"bank_name,omitempty" toml:"bank_name"`
	BankAccount string          `json:"bank_account,omitempty" toml:"bank_account"`
	Reference   string          `json:"reference,omitempty" toml:"reference"`
}

// PaymentBreakdown cobros asociados a la factura.
type PaymentBreakdown struct {
	Entries []PaymentEntry `json:"entries" toml:"entries"`
}

// Total suma de todos los cobros.
func (p PaymentBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.Entries {
		total = total.Add(e.Amount)
	}
	return total
}
