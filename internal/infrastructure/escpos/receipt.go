package escpos

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-gst-engine/pkg/money"
)

// NotAvailable se imprime cuando la fecha no es válida o es el epoch.
const NotAvailable = "N/A"

// ms a partir de este valor, la marca unix se interpreta en milisegundos.
const unixMillisThreshold = 1_000_000_000_000

var paymentLabels = map[string]string{
	entity.PaymentCash:   "Cash",
	entity.PaymentCredit: "Credit",
	entity.PaymentUPI:    "UPI",
	entity.PaymentCheque: "Cheque",
}

// ReceiptRenderer implementa billing.ReceiptFormatter: proyecta la factura ya
// calculada sobre un recibo de 32 columnas. No recalcula impuestos.
type ReceiptRenderer struct {
	loc *time.Location
}

// NewReceiptRenderer loc es la zona en la que se imprimen fecha y hora; nil => UTC.
func NewReceiptRenderer(loc *time.Location) *ReceiptRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &ReceiptRenderer{loc: loc}
}

// FormatReceipt arma el recibo completo en memoria.
func (r *ReceiptRenderer) FormatReceipt(inv *entity.Invoice) []byte {
	d := NewDocument(Width)

	r.header(d, inv)
	r.metadata(d, inv)
	r.customer(d, inv.Customer)
	r.items(d, inv)
	r.totals(d, inv)
	r.payments(d, inv.Payment)
	r.footer(d)

	return d.Bytes()
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (r *ReceiptRenderer) header(d *Document, inv *entity.Invoice) {
	c := inv.Client
	d.SetAlign(AlignPosCenter)
	if c.ClientName != "" {
		d.SetBold(true).SetFontSize(FontTall)
		d.Lines(WrapText(c.ClientName, Width))
		d.SetFontSize(FontNormal).SetBold(false)
	}
	d.Lines(WrapText(c.ClientAddress, Width))
	if c.GSTNo != "" {
		d.Text("GSTIN: " + c.GSTNo)
	}
	if c.Phone != "" {
		d.Text("Ph: " + c.Phone)
	}
	d.FeedLines(1)
	d.SetBold(true).Text("TAX INVOICE").SetBold(false)
	d.SetAlign(AlignPosLeft)
	d.Separator('-')
}

func (r *ReceiptRenderer) metadata(d *Document, inv *entity.Invoice) {
	var raw any = inv.CreatedAt
	if raw == nil {
		raw = inv.Date
	}
	date, clock := NotAvailable, NotAvailable
	if t, ok := ParseReceiptDate(raw); ok {
		t = t.In(r.loc)
		date, clock = t.Format("02/01/2006"), t.Format("03:04 PM")
	}

	d.KeyValue("Invoice:", inv.Number)
	d.KeyValue("Date:", date)
	d.KeyValue("Time:", clock)
	d.KeyValue("Method:", inv.GSTMethod.String())
	d.Separator('-')
}

func (r *ReceiptRenderer) customer(d *Document, cu entity.Customer) {
	if cu.Name == "" && cu.Phone == "" && cu.GSTNo == "" {
		return
	}
	d.SetBold(true).Text("Bill To:").SetBold(false)
	d.Lines(WrapText(cu.Name, Width))
	d.Lines(WrapText(cu.Address, Width))
	if cu.Phone != "" {
		d.Text("Ph: " + cu.Phone)
	}
	if cu.GSTNo != "" {
		d.Text("GSTIN: " + cu.GSTNo)
	}
	d.Separator('-')
}

func (r *ReceiptRenderer) items(d *Document, inv *entity.Invoice) {
	d.SetBold(true).KeyValue("Item", "Amount").SetBold(false)
	d.Separator('-')

	for i, it := range inv.Items {
		var line entity.LineComputation
		if i < len(inv.Lines) {
			line = inv.Lines[i].Rounded()
		}

		d.Lines(WrapText(fmt.Sprintf("%d. %s", i+1, it.Name), Width))
		d.KeyValue("HSN: "+nonEmpty(it.HSN, "-"), "GST: "+money.Percent(it.GSTRate))
		d.KeyValue(fmt.Sprintf("Qty: %d", it.Quantity), "Price: "+money.Rupees(it.UnitPrice))
		d.Text(AlignRight("", "Amount: "+money.Rupees(line.ItemTotal)))
		if it.Discount.GreaterThan(decimal.Zero) {
			d.KeyValue("Discount:", "-"+money.Rupees(it.Discount))
		}
	}
	d.Separator('-')
}

func (r *ReceiptRenderer) totals(d *Document, inv *entity.Invoice) {
	t := inv.Totals
	d.KeyValue("GST:", money.Rupees(t.GSTAmount))
	d.KeyValue("Subtotal:", money.Rupees(t.TaxableValue))
	d.SetBold(true).KeyValue("Grand Total:", money.Rupees(t.GrandTotal)).SetBold(false)
	d.Lines(WrapText(inv.AmountInWords, Width))
	d.Separator('-')

	d.KeyValue("CGST:", money.Rupees(t.CGST))
	d.KeyValue("SGST:", money.Rupees(t.SGST))
	d.Separator('-')
}

func (r *ReceiptRenderer) payments(d *Document, p *entity.PaymentBreakdown) {
	if p == nil || len(p.Entries) == 0 {
		return
	}
	d.SetBold(true).Text("Payment Details").SetBold(false)
	for _, e := range p.Entries {
		label, ok := paymentLabels[strings.ToLower(e.Method)]
		if !ok {
			label = e.Method
		}
		d.KeyValue(label+":", money.Rupees(e.Amount))
		if e.BankName != "" {
			d.Text("  Bank: " + e.BankName)
		}
		if e.BankAccount != "" {
			d.Text("  A/c: " + MaskAccount(e.BankAccount))
		}
		if e.Reference != "" {
			d.Text("  Ref: " + e.Reference)
		}
	}
	d.KeyValue("Total Paid:", money.Rupees(p.Total()))
	d.Separator('-')
}

func (r *ReceiptRenderer) footer(d *Document) {
	d.Text(CenterText("Thank you for your business!"))
	d.Text(CenterText("Goods once sold will not"))
	d.Text(CenterText("be taken back."))
	d.FeedLines(3)
	d.Cut()
}

// ── helpers ───────────────────────────────────────────────────────────────────

// MaskAccount deja visibles solo los últimos 4 dígitos: "XXXX1234".
func MaskAccount(account string) string {
	account = strings.ReplaceAll(strings.TrimSpace(account), " ", "")
	if len(account) <= 4 {
		return account
	}
	return strings.Repeat("X", len(account)-4) + account[len(account)-4:]
}

// ParseReceiptDate acepta time.Time, marcas unix en segundos o milisegundos
// (numéricas o como texto) y cadenas ISO-8601. El epoch y lo ilegible dan ok=false.
func ParseReceiptDate(v any) (time.Time, bool) {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		t = *x
	case int:
		t = fromUnix(int64(x))
	case int64:
		t = fromUnix(x)
	case float64:
		t = fromUnix(int64(x))
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return time.Time{}, false
		}
		t = fromUnix(n)
	case string:
		parsed, ok := parseDateString(x)
		if !ok {
			return time.Time{}, false
		}
		t = parsed
	default:
		return time.Time{}, false
	}
	if t.IsZero() || t.Unix() <= 0 {
		return time.Time{}, false
	}
	return t, true
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromUnix(n), true
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fromUnix(n int64) time.Time {
	if n >= unixMillisThreshold || n <= -unixMillisThreshold {
		return time.UnixMilli(n)
	}
	return time.Unix(n, 0)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
