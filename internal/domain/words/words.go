// Package words convierte montos en rupias a palabras (inglés indio),
// con agrupación Thousand / Lakh / Crore.
package words

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

const (
	thousand = 1_000
	lakh     = 1_00_000
	crore    = 1_00_00_000
)

// ToWords devuelve, por ejemplo, "One Lakh Rupees Only" o
// "Twelve Rupees and Fifty Paise Only". Montos negativos se tratan por su valor absoluto.
func ToWords(amount decimal.Decimal) string {
	amount = amount.Abs().Round(2)
	if amount.IsZero() {
		return "Zero Rupees Only"
	}

	rupees := amount.Floor()
	paise := amount.Sub(rupees).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	rupeeWords := convert(rupees.IntPart())
	if rupeeWords == "" {
		rupeeWords = "Zero"
	}

	var b strings.Builder
	b.WriteString(rupeeWords)
	b.WriteString(" Rupees")
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(convert(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

// convert usa recursión sobre el sistema indio: sobre las primeras 3 cifras
// los grupos son de 2 (Thousand, Lakh) y todo lo que exceda va a Crore.
func convert(n int64) string {
	switch {
	case n <= 0:
		return ""
	case n < 20:
		return ones[n]
	case n < 100:
		return join(tens[n/10], ones[n%10])
	case n < thousand:
		return join(ones[n/100]+" Hundred", convert(n%100))
	case n < lakh:
		return join(convert(n/thousand)+" Thousand", convert(n%thousand))
	case n < crore:
		return join(convert(n/lakh)+" Lakh", convert(n%lakh))
	default:
		return join(convert(n/crore)+" Crore", convert(n%crore))
	}
}

func join(a, b string) string {
	if b == "" {
		return a
	}
	return a + " " + b
}
