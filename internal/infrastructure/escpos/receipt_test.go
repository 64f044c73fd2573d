package escpos

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/tax"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/words"
)

func sampleInvoice() *entity.Invoice {
	items := []entity.LineItem{
		{ProductID: "p1", Name: "Basmati Rice Premium 5kg Family Pack", Quantity: 2, UnitPrice: decimal.NewFromInt(100), GSTRate: decimal.NewFromInt(18), HSN: "1006"},
		{ProductID: "p2", Name: "Tea", Quantity: 2, UnitPrice: decimal.NewFromInt(100), GSTRate: decimal.NewFromInt(18), Discount: decimal.NewFromInt(10)},
	}
	lines, totals := tax.NewEngine().Compute(items, entity.GSTInclusive)
	return &entity.Invoice{
		Number:        "INV-D-2025-01-05-007",
		Date:          time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		GSTMethod:     entity.GSTInclusive,
		Items:         items,
		Lines:         lines,
		Totals:        totals,
		AmountInWords: words.ToWords(totals.GrandTotal),
		Client: entity.ClientConfig{
			ClientName: "Sharma Traders", ClientAddress: "12 MG Road, Pune", GSTNo: "27ABCDE1234F1Z5", Phone: "9876543210",
		},
		Customer: entity.Customer{Name: "Ravi Kumar", Phone: "9123456780"},
		Payment: &entity.PaymentBreakdown{Entries: []entity.PaymentEntry{
			{Method: entity.PaymentCash, Amount: decimal.NewFromInt(150)},
			{Method: entity.PaymentCheque, Amount: decimal.NewFromInt(250), BankName: "SBI", BankAccount: "123456789012"},
		}},
		CreatedAt: int64(1736073000000),
	}
}

// textLines quita los comandos ESC/GS y devuelve las líneas impresas.
func textLines(b []byte) []string {
	var clean bytes.Buffer
	for i := 0; i < len(b); i++ {
		switch b[i] {
		case ESC:
			if i+1 < len(b) && b[i+1] == '@' {
				i++
			} else {
				i += 2
			}
		case GS:
			i += 2
		default:
			clean.WriteByte(b[i])
		}
	}
	return strings.Split(clean.String(), "\n")
}

func TestFormatReceipt_ComandosDeControl(t *testing.T) {
	out := NewReceiptRenderer(nil).FormatReceipt(sampleInvoice())

	assert.True(t, bytes.HasPrefix(out, []byte{ESC, '@'}))
	assert.True(t, bytes.HasSuffix(out, []byte{GS, 'V', 0x00}))
	assert.Contains(t, string(out), string([]byte{ESC, 'a', AlignPosCenter}))
	assert.Contains(t, string(out), string([]byte{ESC, 'E', 1}))
	assert.Contains(t, string(out), string([]byte{GS, '!', FontTall}))
}

func TestFormatReceipt_Contenido(t *testing.T) {
	out := string(NewReceiptRenderer(nil).FormatReceipt(sampleInvoice()))

	for _, want := range []string{
		"Sharma Traders",
		"GSTIN: 27ABCDE1234F1Z5",
		AlignRight("Invoice:", "INV-D-2025-01-05-007"),
		AlignRight("Date:", "05/01/2025"),
		AlignRight("Time:", "10:30 AM"),
		"Ravi Kumar",
		"1. Basmati Rice Premium 5kg",
		AlignRight("HSN: 1006", "GST: 18%"),
		AlignRight("HSN: -", "GST: 18%"),
		AlignRight("Qty: 2", "Price: Rs. 100.00"),
		AlignRight("", "Amount: Rs. 200.00"),
		AlignRight("Discount:", "-Rs. 10.00"),
		AlignRight("GST:", "Rs. 61.02"),
		AlignRight("Subtotal:", "Rs. 338.98"),
		AlignRight("Grand Total:", "Rs. 400.00"),
		"Four Hundred Rupees Only",
		AlignRight("CGST:", "Rs. 30.51"),
		AlignRight("SGST:", "Rs. 30.51"),
		AlignRight("Cash:", "Rs. 150.00"),
		"  A/c: XXXXXXXX9012",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "123456789012")
}

func TestFormatReceipt_LineasDeTextoNoExceden32(t *testing.T) {
	for _, l := range textLines(NewReceiptRenderer(nil).FormatReceipt(sampleInvoice())) {
		assert.LessOrEqual(t, len(l), Width, "%q", l)
	}
}

func TestFormatReceipt_FechaInvalida(t *testing.T) {
	inv := sampleInvoice()
	inv.CreatedAt = "no es fecha"
	out := string(NewReceiptRenderer(nil).FormatReceipt(inv))
	assert.Contains(t, out, AlignRight("Date:", NotAvailable))
	assert.Contains(t, out, AlignRight("Time:", NotAvailable))
}

func TestFormatReceipt_SinPagos(t *testing.T) {
	inv := sampleInvoice()
	inv.Payment = nil
	out := string(NewReceiptRenderer(nil).FormatReceipt(inv))
	assert.NotContains(t, out, "Payment Details")
}

func TestParseReceiptDate(t *testing.T) {
	want := time.Date(2025, 1, 5, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		ok   bool
	}{
		{"segundos", int64(1736073000), true},
		{"milisegundos", int64(1736073000000), true},
		{"float de JSON", float64(1736073000000), true},
		{"texto numérico", "1736073000", true},
		{"ISO", "2025-01-05T10:30:00Z", true},
		{"time.Time", want, true},
		{"epoch", int64(0), false},
		{"epoch como texto", "0", false},
		{"basura", "ayer", false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseReceiptDate(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.True(t, want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestMaskAccount(t *testing.T) {
	assert.Equal(t, "XXXXXXXX9012", MaskAccount("123456789012"))
	assert.Equal(t, "XXXX5678", MaskAccount("1234 5678"))
	assert.Equal(t, "123", MaskAccount("123"))
}
