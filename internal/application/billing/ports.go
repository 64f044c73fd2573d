package billing

import (
	"context"

	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
)

// SequenceAllocator nivel remoto: servicio de consecutivos por (prefijo, fecha).
// Debe devolver error si el servicio responde success=false.
type SequenceAllocator interface {
	NextNumber(ctx context.Context, prefix, date string) (int, error)
}

// CounterStore almacenamiento local del dispositivo. Increment es atómico:
// lee, suma 1, escribe y devuelve el nuevo valor.
type CounterStore interface {
	Increment(ctx context.Context, key string) (int, error)
}

// InvoicePDFGenerator proyecta la factura calculada sobre un PDF.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice) ([]byte, error)
}

// ReceiptFormatter proyecta la factura calculada sobre un flujo ESC/POS.
type ReceiptFormatter interface {
	FormatReceipt(inv *entity.Invoice) []byte
}

// PrinterTransport transporte hacia la impresora térmica identificada por deviceID.
type PrinterTransport interface {
	Write(ctx context.Context, deviceID string, p []byte) error
	ConnectedDevices(ctx context.Context) ([]string, error)
}
