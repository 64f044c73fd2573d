// Package money formatea montos en rupias para los documentos impresos.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format redondea a 2 decimales y agrupa según en-IN. Ej: 123456.789 → "1,23,456.79".
// Trabaja sobre el texto del decimal; no pasa por float64.
func Format(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + groupIndian(intPart) + "." + frac
}

// groupIndian últimos 3 dígitos y luego grupos de 2: 1234567 → 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var b strings.Builder
	first := len(head) % 2
	if first == 1 {
		b.WriteString(head[:1])
	}
	for i := first; i < len(head); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}

// Rupees antepone "Rs. " (las impresoras térmicas no traen el glifo ₹).
func Rupees(d decimal.Decimal) string {
	return "Rs. " + Format(d)
}

// Plain 2 decimales fijos, sin agrupar.
func Plain(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percent "18%" o "12.5%".
func Percent(rate decimal.Decimal) string {
	return rate.Round(2).String() + "%"
}
