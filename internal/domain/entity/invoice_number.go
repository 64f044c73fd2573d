package entity

import "fmt"

// InvoiceNumber identifica una factura por (prefijo, fecha, consecutivo).
// Formato: "<prefix>-D-<YYYY-MM-DD>-<consecutivo con 3 dígitos>".
type InvoiceNumber struct {
	Prefix   string
	Date     string // YYYY-MM-DD
	Sequence int
}

func (n InvoiceNumber) String() string {
	return fmt.Sprintf("%s-D-%s-%03d", n.Prefix, n.Date, n.Sequence)
}
